package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkIncrementsRcnt(t *testing.T) {
	c := &Counters{}
	var buf bytes.Buffer
	s := Sink{Counters: c, W: &buf}
	s.Candidate(10, 3, false)
	s.Candidate(10, 7, true)
	require.Equal(t, uint64(2), c.Rcnt.Load())
	require.Contains(t, buf.String(), "candidate d=10 z=3")
	require.Contains(t, buf.String(), "candidate d=10 z=-7")
}

func TestCrossCheckDetectsMismatch(t *testing.T) {
	actual := Snapshot{Pcnt: 5, Ccnt: 10, Dcnt: 2, Rcnt: 1}
	require.NoError(t, CrossCheck(Snapshot{}, actual), "zero-value expected means no cross-check requested")
	require.NoError(t, CrossCheck(actual, actual))
	require.Error(t, CrossCheck(Snapshot{Pcnt: 99}, actual))
}

func TestTimingsSummary(t *testing.T) {
	tm := &Timings{}
	tm.Record(0.1)
	tm.Record(0.2)
	tm.Record(0.3)
	mean, median, p95, err := tm.Summary()
	require.NoError(t, err)
	require.InDelta(t, 0.2, mean, 1e-9)
	require.InDelta(t, 0.2, median, 1e-9)
	require.GreaterOrEqual(t, p95, median)
}
