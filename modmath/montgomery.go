// Package modmath implements the 64/128-bit modular arithmetic primitives
// that the rest of the search engine builds on: Montgomery multiplication
// for moduli that are reused across many operations, Barrett reduction for
// small fixed auxiliary moduli, batch modular inversion, and CRT composition
// of residues with coprime moduli.
package modmath

import "math/bits"

// MontParams holds the precomputed constants needed to operate in the
// Montgomery domain for a fixed odd modulus q < 2^63: qInv with
// q*qInv ≡ 1 (mod 2^64), and the Barrett-style reciprocal pair bred used
// only to bring an ordinary residue into Montgomery form the first time.
type MontParams struct {
	Q    uint64
	QInv uint64
	Bred []uint64
}

// NewMontParams precomputes the Montgomery constants for modulus q. q must
// be odd and nonzero; callers assert this, as elsewhere in this package.
func NewMontParams(q uint64) MontParams {
	return MontParams{
		Q:    q,
		QInv: MRedParams(q),
		Bred: BRedParams(q),
	}
}

// MRedParams computes qInv = (q^-1) mod 2^64, required by MulMont.
// It recovers qInv by 63 rounds of squaring, the same fixed-point
// iteration used to invert odd numbers mod a power of two without
// resorting to the extended Euclidean algorithm.
func MRedParams(q uint64) (qInv uint64) {
	qInv = 1
	x := q
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return
}

// ToMont switches a (an ordinary residue mod q, 0<=a<q) into the Montgomery
// domain by computing a*2^64 mod q via Barrett reduction.
func ToMont(a uint64, p MontParams) uint64 {
	mhi, _ := bits.Mul64(a, p.Bred[1])
	r := -(a*p.Bred[0] + mhi) * p.Q
	if r >= p.Q {
		r -= p.Q
	}
	return r
}

// FromMont switches a (in Montgomery form) back to the standard domain by
// computing a*(1/2^64) mod q.
func FromMont(a uint64, p MontParams) uint64 {
	r, _ := bits.Mul64(a*p.QInv, p.Q)
	r = p.Q - r
	if r >= p.Q {
		r -= p.Q
	}
	return r
}

// MulMont computes x*y*(1/2^64) mod q for x, y already in Montgomery form,
// returning a result also in Montgomery form. This is the workhorse of the
// enumerator's CRT-lift loop: every cube-root combination step reduces to
// a handful of MulMont calls.
func MulMont(x, y uint64, p MontParams) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	R := alo * p.QInv
	H, _ := bits.Mul64(R, p.Q)
	r = ahi - H + p.Q
	if r >= p.Q {
		r -= p.Q
	}
	return
}

// AddMod returns (x+y) mod q without risking overflow, assuming 0<=x,y<q.
func AddMod(x, y, q uint64) uint64 {
	r := x + y
	if r >= q || r < x {
		r -= q
	}
	return r
}

// SubMod returns (x-y) mod q, assuming 0<=x,y<q.
func SubMod(x, y, q uint64) uint64 {
	if x >= y {
		return x - y
	}
	return x - y + q
}

// InvMont computes the Montgomery-domain modular inverse of a (itself in
// Montgomery form) via Fermat's little theorem; q must be prime.
func InvMont(a uint64, p MontParams) uint64 {
	return powMont(a, p.Q-2, p)
}

func powMont(base, exp uint64, p MontParams) uint64 {
	result := ToMont(1, p)
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMont(result, base, p)
		}
		base = MulMont(base, base, p)
		exp >>= 1
	}
	return result
}

// BatchInv computes the standard-domain modular inverse of every element of
// a modulo q, using Montgomery's trick: a single modular inverse plus
// 3*(n-1) multiplications instead of n separate inverses. Callers
// typically keep len(a) bounded to a few hundred to limit batch latency;
// BatchInv itself places no such limit, larger batches simply cost more
// memory.
func BatchInv(a []uint64, p MontParams) []uint64 {
	n := len(a)
	if n == 0 {
		return nil
	}
	prefix := make([]uint64, n)
	acc := ToMont(1, p)
	for i, v := range a {
		acc = MulMont(acc, ToMont(v, p), p)
		prefix[i] = acc
	}
	// The one inverse goes through extended Euclid rather than InvMont, so
	// q need not be prime (the enumerator batches against composite d).
	inv := ToMont(modInverse(FromMont(acc, p), p.Q), p)
	out := make([]uint64, n)
	for i := n - 1; i >= 0; i-- {
		mv := ToMont(a[i], p)
		if i == 0 {
			out[i] = FromMont(inv, p)
		} else {
			out[i] = FromMont(MulMont(inv, prefix[i-1], p), p)
			inv = MulMont(inv, mv, p)
		}
	}
	return out
}
