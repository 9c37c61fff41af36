package worker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakehand-port/cubesearch/check"
	"github.com/snakehand-port/cubesearch/phase"
	"github.com/snakehand-port/cubesearch/report"
	"github.com/snakehand-port/cubesearch/tables"
)

type collectSink struct {
	hits map[uint64][]uint64
}

func newCollectSink() *collectSink { return &collectSink{hits: make(map[uint64][]uint64)} }

func (s *collectSink) Candidate(d, z uint64, negative bool) {
	s.hits[d] = append(s.hits[d], z)
}

func newTestDriver(t *testing.T, k, dmax, pmin, pmax uint64) (*Driver, *collectSink) {
	t.Helper()
	tb, err := tables.LoadTables(k, dmax, pmin, pmax)
	require.NoError(t, err)
	sink := newCollectSink()
	disp := phase.NewDispatcher(tb, check.DefaultOne{}, check.DefaultFew{}, check.NewDefaultLift(nil), sink, 0, dmax*10)
	return NewDriver(tb, disp, &report.Counters{}), sink
}

func requireCandidatesCube(t *testing.T, k uint64, hits map[uint64][]uint64) {
	t.Helper()
	for d, zs := range hits {
		for _, z := range zs {
			cube := z % d * z % d * z % d
			require.Equal(t, k%d, cube, "candidate z=%d for d=%d must satisfy the cubic congruence", z, d)
		}
	}
}

func TestProcessCachedEmitsValidCandidates(t *testing.T) {
	d, sink := newTestDriver(t, 3, 2000, 2, 50)
	d.Process(5)
	require.NotEmpty(t, sink.hits)
	requireCandidatesCube(t, 3, sink.hits)
}

func TestProcessViaEnumHandlesUncachedPhase(t *testing.T) {
	d, sink := newTestDriver(t, 3, 2000, 2, 2000)
	var p uint64
	for _, q := range d.Tb.Cptab {
		if q > d.Tb.Cpmax && q <= d.Tb.Cdmin {
			p = q
			break
		}
	}
	if p == 0 {
		t.Skip("no prime found in the uncached band for this dmax")
	}
	require.Equal(t, PhaseUncached, d.classify(p))
	d.Process(p)
	requireCandidatesCube(t, 3, sink.hits)
}

func TestClassifyIsMonotoneAcrossThresholds(t *testing.T) {
	d, _ := newTestDriver(t, 3, 5000, 2, 5000)
	require.Equal(t, PhaseCached, d.classify(2))
	require.Equal(t, PhaseBigPrime, d.classify(d.Tb.Dmax))
}

func TestPowComputesIntegerPowers(t *testing.T) {
	require.Equal(t, uint64(1), pow(7, 0))
	require.Equal(t, uint64(343), pow(7, 3))
}

func TestPhaseStringIsHumanReadable(t *testing.T) {
	require.Equal(t, "cached", PhaseCached.String())
	require.Equal(t, "bigprime", PhaseBigPrime.String())
}
