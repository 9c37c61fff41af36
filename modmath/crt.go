package modmath

import "math/bits"

// CRTPair holds the precomputed constants needed to lift a residue pair
// (z1 mod d1, z2 mod d2), d1 and d2 coprime, into a residue mod d1*d2.
// inv1 is d1^-1 mod d2, held in the standard domain: the enumerator builds
// one CRTPair per (d1,d2) combination and reuses it across every residue in
// the cube-root multiset.
type CRTPair struct {
	D1, D2 uint64
	Inv1   uint64 // d1^-1 mod d2
}

// NewCRTPair computes inv1 = d1^-1 mod d2 via the extended Euclidean
// algorithm. gcd(d1,d2) is assumed to be 1; as elsewhere, a non-coprime
// pair produces an undefined result rather than an error.
func NewCRTPair(d1, d2 uint64) CRTPair {
	return CRTPair{D1: d1, D2: d2, Inv1: modInverse(d1%d2, d2)}
}

func modInverse(a, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	a0, m0 := int64(a), int64(m)
	t, newT := int64(0), int64(1)
	r, newR := m0, a0
	for newR != 0 {
		q := r / newR
		t, newT = newT, t-q*newT
		r, newR = newR, r-q*newR
	}
	if t < 0 {
		t += m0
	}
	return uint64(t)
}

// Combine lifts (z1 mod d1, z2 mod d2) to the unique residue mod d1*d2,
// keeping every intermediate product under 2^64:
// z = z1 + d1 * ((z2 - z1) * inv1 mod d2).
func (c CRTPair) Combine(z1, z2 uint64) uint64 {
	diff := SubMod(z2, z1%c.D2, c.D2)
	t := mulModSmall(diff, c.Inv1, c.D2)
	return z1 + c.D1*t
}

// mulModSmall computes x*y mod m for any nonzero 64-bit m, via a 128-bit
// product and bits.Div64.
func mulModSmall(x, y, m uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

// CRT128 holds the constants for lifting two residues whose product
// exceeds 2^64 but stays below 2^128. It stores d1^-1 mod d2 in the
// standard domain, computed once so repeated lifts at the same (d1,d2)
// reuse it; no Montgomery-form constant is used by Combine.
type CRT128 struct {
	D1, D2 MontParams
	Inv1   uint64 // d1^-1 mod d2, standard domain
}

// NewCRT128 builds a CRT128 from the Montgomery parameters of d1 and d2.
func NewCRT128(d1, d2 MontParams) CRT128 {
	return CRT128{D1: d1, D2: d2, Inv1: modInverse(d1.Q%d2.Q, d2.Q)}
}

// Combine lifts (z1 mod d1, z2 mod d2) to a 128-bit residue mod d1*d2,
// returned as (hi, lo) with lo the low 64 bits.
func (c CRT128) Combine(z1, z2 uint64) (hi, lo uint64) {
	diff := SubMod(z2, z1%c.D2.Q, c.D2.Q)
	t := mulModSmall(diff, c.Inv1, c.D2.Q)
	hi, lo = bits.Mul64(c.D1.Q, t)
	var carry uint64
	lo, carry = bits.Add64(lo, z1, 0)
	hi += carry
	return
}
