package tables

import (
	"fmt"

	"github.com/snakehand-port/cubesearch/cuberoot"
)

// LoadTables computes every derived threshold and precomputed table for
// one run: given (k, dmax, pmin, pmax), it derives cpmax, cdmin, sdmin,
// pdmin, bpmin and populates every table, exposing CachedCubeRootsModQ and
// CachedCubeRootsE for callers. Matching the teacher's own
// `NewSubRingWithCustomNTT` contract (ring/subring.go), this validates its
// inputs and returns (*Tables, error) rather than panicking on a
// configuration problem — panics are reserved for invariant failures
// inside the hot enumeration path.
func LoadTables(k, dmax, pmin, pmax uint64) (*Tables, error) {
	if pmin < 2 || pmin > pmax || pmax > dmax {
		return nil, fmt.Errorf("tables: require 2 <= pmin <= pmax <= dmax, got pmin=%d pmax=%d dmax=%d", pmin, pmax, dmax)
	}
	if k == 0 || k > 1000 {
		return nil, fmt.Errorf("tables: k=%d out of admissible range [1,1000]", k)
	}
	if m := k % 9; m != 3 && m != 6 {
		return nil, fmt.Errorf("tables: k=%d is not ≡ 3 or 6 (mod 9)", k)
	}

	cpmax, cdmin, sdmin, pdmin, bpmin := deriveThresholds(dmax)

	t := &Tables{
		K: k, Dmax: dmax, Pmin: pmin, Pmax: pmax,
		Cpmax: cpmax, Cdmin: cdmin, Sdmin: sdmin, Pdmin: pdmin, Bpmin: bpmin,
	}

	t.Cptab = buildCptab(pmax)

	t.Kdtab = buildKdtab(k)
	t.K27 = buildK27(k)
	t.Km = buildKm(k)

	sd, idx := buildSdtab(k, sdmin)
	t.Sdtab = sd
	t.sdIndex = idx

	t.Cdtab = buildCdtab(k, dmax, t.Cptab)

	t.buildCache()
	return t, nil
}

// buildCache populates cachedE/cachedRoot for every prime in cptab up to
// cpmax: the largest exponent e with p^e <= dmax, and the cube roots of k
// mod p^e for every e in [1, that bound].
func (t *Tables) buildCache() {
	n := 0
	for _, p := range t.Cptab {
		if p > t.Cpmax {
			break
		}
		n++
	}
	t.cachedE = make([]int, n)
	t.cachedRoot = make([][][]uint64, n)
	for pi := 0; pi < n; pi++ {
		p := t.Cptab[pi]
		if t.K%p == 0 {
			// A prime dividing k carries zero cached exponents; the
			// worker driver and the enumerator skip such primes.
			t.cachedE[pi] = 0
			continue
		}
		e, pw := 0, uint64(1)
		for pw <= t.Dmax/p {
			pw *= p
			e++
		}
		roots := make([][]uint64, e)
		for lvl := 1; lvl <= e; lvl++ {
			roots[lvl-1] = cuberoot.ModPE(t.K, p, lvl)
		}
		t.cachedE[pi] = e
		t.cachedRoot[pi] = roots
	}
}
