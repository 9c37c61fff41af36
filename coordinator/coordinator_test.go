package coordinator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakehand-port/cubesearch/check"
	"github.com/snakehand-port/cubesearch/checkpoint"
	"github.com/snakehand-port/cubesearch/phase"
	"github.com/snakehand-port/cubesearch/report"
	"github.com/snakehand-port/cubesearch/tables"
	"github.com/snakehand-port/cubesearch/worker"
)

func TestShardOfIsDeterministicAndSpread(t *testing.T) {
	require.Equal(t, 0, ShardOf(12345, 1))
	a := ShardOf(97, 4)
	b := ShardOf(97, 4)
	require.Equal(t, a, b)
	require.GreaterOrEqual(t, a, 0)
	require.Less(t, a, 4)
}

func newDrivers(t *testing.T, n int, counters *report.Counters) []*worker.Driver {
	t.Helper()
	tb, err := tables.LoadTables(3, 2000, 2, 500)
	require.NoError(t, err)
	disp := phase.NewDispatcher(tb, check.DefaultOne{}, check.DefaultFew{}, check.NewDefaultLift(nil), report.Sink{Counters: counters}, 0, 20000)
	drivers := make([]*worker.Driver, n)
	for i := range drivers {
		drivers[i] = worker.NewDriver(tb, disp, counters)
	}
	return drivers
}

func TestRunProcessesEveryPrimeInRange(t *testing.T) {
	counters := &report.Counters{}
	drivers := newDrivers(t, 3, counters)
	c := New(drivers, counters, report.Logger{})
	c.Pmin, c.Pmax, c.Dmax = 2, 500, 2000
	c.Timings = &report.Timings{}

	err := c.Run(context.Background(), c.Pmin)
	require.NoError(t, err)
	require.Greater(t, counters.Snapshot().Pcnt, uint64(0))

	mean, _, _, err := c.Timings.Summary()
	require.NoError(t, err)
	require.GreaterOrEqual(t, mean, 0.0)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	counters := &report.Counters{}
	drivers := newDrivers(t, 2, counters)
	c := New(drivers, counters, report.Logger{})
	c.Pmin, c.Pmax, c.Dmax = 2, 500, 2000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Run(ctx, c.Pmin)
	require.Error(t, err)
}

func TestRunWritesPeriodicCheckpoint(t *testing.T) {
	counters := &report.Counters{}
	drivers := newDrivers(t, 2, counters)
	c := New(drivers, counters, report.Logger{})
	c.Pmin, c.Pmax, c.Dmax = 2, 500, 2000
	c.ZmaxHi, c.ZmaxLo = 0, 20000
	c.CheckpointPath = filepath.Join(t.TempDir(), "ckpt")
	c.CheckpointEvery = 5

	require.NoError(t, c.Run(context.Background(), c.Pmin))

	s, err := checkpoint.Load(c.CheckpointPath)
	require.NoError(t, err)
	require.Equal(t, uint64(500), s.Pmax)
}
