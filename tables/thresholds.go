package tables

import "math"

// isqrt returns floor(sqrt(n)) for n a uint64, via Newton's method seeded
// from the float64 estimate and corrected by integer comparison.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := uint64(math.Sqrt(float64(n)))
	for x*x > n {
		x--
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}

func clampMin(dmax, v uint64) uint64 {
	if v > dmax {
		return dmax
	}
	if v == 0 {
		return 1
	}
	return v
}

// km1, km2 are the compile-time constant pair the bpmin threshold
// derives from. Per DESIGN.md Open Question #2, km2 is fixed equal to
// km1: both name the same multiplicative step from pdmin to bpmin, so the
// conditional degenerates to one well-defined constant regardless of which
// branch a given k takes.
const km1 = 2
const km2 = km1

// deriveThresholds computes the five monotone thresholds from dmax alone:
// cpmax >= sqrt(dmax) (primes with fully cached cube roots),
// then cdmin, sdmin, pdmin, bpmin each a multiplicative step above the
// last, clamped so none exceeds dmax. This keeps the required invariant
// cpmax <= cdmin <= sdmin <= pdmin <= bpmin by construction.
func deriveThresholds(dmax uint64) (cpmax, cdmin, sdmin, pdmin, bpmin uint64) {
	cpmax = isqrt(dmax)
	if cpmax < 2 {
		cpmax = 2
	}
	cdmin = clampMin(dmax, cpmax*3)
	sdmin = clampMin(dmax, cdmin*2)
	pdmin = clampMin(dmax, sdmin*3)
	mult := uint64(km1)
	if km1&1 != 0 {
		mult = km2
	}
	bpmin = clampMin(dmax, pdmin*mult)
	return
}
