package modmath

import (
	"math/big"
	"math/bits"
)

// BRedParams computes the Barrett reduction constants for modulus q < 2^63:
// the high and low 64-bit words of floor(2^128 / q). Used both to switch a
// residue into Montgomery form (ToMont) and directly by BRed for the small
// fixed auxiliary moduli (9, 18, 126, 162) that never warrant building a
// full MontParams.
func BRedParams(q uint64) []uint64 {
	r := new(big.Int).Lsh(big.NewInt(1), 128)
	r.Quo(r, new(big.Int).SetUint64(q))
	mhi := new(big.Int).Rsh(r, 64).Uint64()
	mlo := r.Uint64()
	return []uint64{mhi, mlo}
}

// BRedAdd reduces x (< q^2, typically a sum of two residues) mod q.
func BRedAdd(x, q uint64, u []uint64) uint64 {
	s0, _ := bits.Mul64(x, u[0])
	r := x - s0*q
	if r >= q {
		r -= q
	}
	return r
}

// BRed computes x*y mod q for x, y < q, using the precomputed reciprocal u.
// It estimates the quotient x*y/q as the top word of the 256-bit product
// (x*y)*u, then corrects the remainder by at most one subtraction of q.
func BRed(x, y, q uint64, u []uint64) uint64 {
	prodHi, prodLo := bits.Mul64(x, y)
	quotHi := mulAccHi192(prodHi, prodLo, u[0], u[1])

	rem := prodLo - quotHi*q
	if rem >= q {
		rem -= q
	}
	return rem
}

// mulAccHi192 returns the top 64 bits of the quotient estimate
// floor((a1:a0) * (b1:b0) / 2^128), where a1:a0 and b1:b0 are each 128-bit
// numbers split into high/low words. The true quotient is known by the
// caller to fit in 64 bits, so the a1*b1 cross term is folded in truncated
// rather than shifted a further 128 bits.
func mulAccHi192(a1, a0, b1, b0 uint64) uint64 {
	crossHi, crossLo := bits.Mul64(a1, b0)
	straightHi, straightLo := bits.Mul64(a0, b1)
	midLo, c := bits.Add64(crossLo, straightLo, 0)
	midHi := crossHi + straightHi + c

	loHi, _ := bits.Mul64(a0, b0)
	_, c = bits.Add64(midLo, loHi, 0)

	return a1*b1 + midHi + c
}

// CRed conditionally subtracts q once from a, assuming 0<=a<2*q.
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}
