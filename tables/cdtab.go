package tables

import "sort"

// largestPrimeFactor returns the largest prime factor of n, trial-dividing
// against cptab. cptab only reaches pmax, so the cofactor left after trial
// division is returned as is: when pmax is below its square root it may
// be composite, but it still exceeds every prime in cptab.
func largestPrimeFactor(n uint64, cptab []uint64) uint64 {
	if n <= 1 {
		return 0
	}
	largest := uint64(1)
	rem := n
	for _, p := range cptab {
		if p*p > rem {
			break
		}
		for rem%p == 0 {
			rem /= p
			largest = p
		}
	}
	if rem > 1 {
		largest = rem
	}
	return largest
}

// buildCdtab populates cdtab: every d' in [2, dmax] coprime to k, tagged
// with its largest prime factor and the cube roots of k mod d', sorted by
// D descending so CdtabWalk can return its matches already in the order
// the enumerator wants them.
//
// This builds cube roots by brute force (cubeRootsModM) rather than by
// CRT-lifting prime-power factors, which is the approach the hot-path
// enumerator (enum.EnumD/EnumCD) uses instead: table construction is a
// one-time amortized cost paid before the parallel search starts, so the
// asymptotically slower approach is acceptable here in exchange for a much
// simpler loader.
func buildCdtab(k, dmax uint64, cptab []uint64) []CdRec {
	out := make([]CdRec, 0)
	for d := uint64(2); d <= dmax; d++ {
		if gcdU64(d, k) != 1 {
			continue
		}
		roots := cubeRootsModM(k, d)
		if len(roots) == 0 {
			continue
		}
		out = append(out, CdRec{
			D:            d,
			LargestPrime: largestPrimeFactor(d, cptab),
			Roots:        roots,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].D > out[j].D })
	return out
}
