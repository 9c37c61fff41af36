package check

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type collectSink struct {
	hits []uint64
}

func (c *collectSink) Candidate(d, z uint64, negative bool) {
	c.hits = append(c.hits, z)
}

func TestDefaultOneEmitsEveryResidue(t *testing.T) {
	sink := &collectSink{}
	one := DefaultOne{}
	one.CheckOne(5, 0, 5, []uint64{2}, 1, []uint64{0}, 0, 0, ZMax128{Hi: 0, Lo: 20}, sink)
	require.Contains(t, sink.hits, uint64(2))
	for _, z := range sink.hits {
		require.LessOrEqual(t, z, uint64(20))
		require.Equal(t, uint64(2), z%5)
	}
}

func TestDefaultFewStopsAtZmax(t *testing.T) {
	sink := &collectSink{}
	few := DefaultFew{}
	few.CheckFew(3, 0, 3, []uint64{1}, 1, []uint64{0}, 0, 0, 2, ZMax128{Hi: 0, Lo: 10}, sink)
	require.NotEmpty(t, sink.hits)
	for _, z := range sink.hits {
		require.LessOrEqual(t, z, uint64(10))
	}
}

func TestDefaultLiftFallsBackToFew(t *testing.T) {
	sink := &collectSink{}
	lift := NewDefaultLift(nil)
	lift.CheckLift(7, 0, 0, 7, []uint64{3}, ZMax128{Hi: 0, Lo: 30}, sink)
	require.NotEmpty(t, sink.hits)
	for _, z := range sink.hits {
		require.Equal(t, uint64(3), z%7)
	}
}
