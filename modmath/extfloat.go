package modmath

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// extPrec is the working precision used in place of an 80-bit long double.
// Go has neither long double nor a convenient 128-bit integer division
// primitive in the hot path, so this package instead uses math/big.Float
// pinned to a precision comfortably above 80 bits with a round-toward-+Inf
// mode: the correctness requirement is only that the result is a true
// upper bound, which rounding to positive infinity plus guard precision
// gives directly.
const extPrec = 96

// relativeFudge is 2^-62 plus one ulp at extPrec, computed once via
// bigfloat.Pow for exactness rather than an approximate float64 literal.
func relativeFudge() *big.Float {
	two := new(big.Float).SetPrec(extPrec).SetInt64(2)
	e1 := new(big.Float).SetPrec(extPrec).SetInt64(-62)
	e2 := new(big.Float).SetPrec(extPrec).SetInt64(-(extPrec - 1))
	fudge := bigfloat.Pow(two, e1)
	ulp := bigfloat.Pow(two, e2)
	return fudge.Add(fudge, ulp)
}

// ZmaxLD rounds zmax up by relativeFudge, used only when a division's
// result needs to be rounded up via extended-precision float arithmetic.
// zmax is supplied as a 128-bit value split into (hi, lo) words.
func ZmaxLD(hi, lo uint64) *big.Float {
	z := new(big.Float).SetPrec(extPrec).SetInt(u128ToBigInt(hi, lo))
	rel := new(big.Float).SetPrec(extPrec).Add(
		new(big.Float).SetPrec(extPrec).SetInt64(1),
		relativeFudge(),
	)
	return z.Mul(z, rel)
}

// CeilDiv returns ceil(zmaxld / x) as a uint64, for x the product a*b used
// in the dispatcher's progression-count estimate. The result is guaranteed
// to be an upper bound on the true rational ceiling, which is the only
// property the phase classifier's decision rule depends on.
func CeilDiv(zmaxld *big.Float, x uint64) uint64 {
	q := new(big.Float).SetPrec(extPrec)
	q.SetMode(big.ToPositiveInf)
	q.Quo(zmaxld, new(big.Float).SetPrec(extPrec).SetUint64(x))
	i, acc := q.Int(nil)
	if acc == big.Below {
		i.Add(i, big.NewInt(1))
	}
	if !i.IsUint64() {
		return ^uint64(0)
	}
	return i.Uint64()
}

func u128ToBigInt(hi, lo uint64) *big.Int {
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	return v
}
