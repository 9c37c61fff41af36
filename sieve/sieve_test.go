package sieve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collectAll(f *Feeder) []uint64 {
	var out []uint64
	for {
		p, ok := f.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func TestFeederStrictlyIncreasingPrimes(t *testing.T) {
	f := NewFeeder(2, 100)
	got := collectAll(f)
	want := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}
	require.Equal(t, want, got)
}

func TestFeederRespectsLowerBound(t *testing.T) {
	f := NewFeeder(50, 60)
	got := collectAll(f)
	require.Equal(t, []uint64{53, 59}, got)
}

func TestFeederEmptyRange(t *testing.T) {
	f := NewFeeder(100, 90)
	_, ok := f.Next()
	require.False(t, ok)
}

func TestFeederCrossesSegmentBoundary(t *testing.T) {
	f := NewFeeder(2, 1<<21)
	got := collectAll(f)
	for i := 1; i < len(got); i++ {
		require.Greater(t, got[i], got[i-1])
	}
	require.Greater(t, len(got), 1000)
}
