package phase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakehand-port/cubesearch/check"
	"github.com/snakehand-port/cubesearch/tables"
)

type collectSink struct {
	hits map[uint64][]uint64
}

func newCollectSink() *collectSink {
	return &collectSink{hits: make(map[uint64][]uint64)}
}

func (c *collectSink) Candidate(d, z uint64, negative bool) {
	c.hits[d] = append(c.hits[d], z)
}

func TestProckdEmitsValidCandidates(t *testing.T) {
	const k, dmax = uint64(3), uint64(50)
	tb, err := tables.LoadTables(k, dmax, 2, 20)
	require.NoError(t, err)

	sink := newCollectSink()
	lift := check.NewDefaultLift(nil)
	disp := NewDispatcher(tb, check.DefaultOne{}, check.DefaultFew{}, lift, sink, 0, 1_000_000)

	// 2 is the cube root of 3 mod 5 (3 has no cube root mod 7).
	rec, ok := tb.SdLookup(5)
	require.True(t, ok)
	require.NotEmpty(t, rec.Roots)
	disp.Prockd(5, rec.Roots)

	require.NotEmpty(t, sink.hits)
	for d, zs := range sink.hits {
		for _, z := range zs {
			cube := z % d * z % d * z % d
			require.Equal(t, k%d, cube, "candidate z=%d for d=%d must satisfy the cubic congruence", z, d)
		}
	}
}

func TestSgnzIndexIsBinary(t *testing.T) {
	require.Equal(t, 0, sgnzIndex(4))
	require.Equal(t, 1, sgnzIndex(5))
}
