// Package check implements the three progression checkers the dispatcher
// in package phase hands divisors off to: one for progressions of length
// 1, one for short progressions enumerated directly, and one for long
// progressions split via further cubic-reciprocity lifts. The checkers
// are specified behind exported interfaces so an alternative
// implementation can be swapped in without touching package phase.
package check

import "math/bits"

// Sink receives candidate (x,y,z) triples: a z that lies in a checked
// progression, paired with the d = x+y whose progression produced it.
// Emitting a hit is informational, not a proof that (x,y,z) is a genuine
// solution — that verification happens downstream of this package.
type Sink interface {
	Candidate(d, z uint64, negative bool)
}

// ZMax128 is the 128-bit bound on |z|, split into (Hi, Lo) words, matching
// ZmaxLD's (hi,lo) convention in modmath/extfloat.go.
type ZMax128 struct {
	Hi, Lo uint64
}

// exceeds reports whether v > zmax.
func (z ZMax128) exceeds(v uint64) bool {
	if z.Hi != 0 {
		return false
	}
	return v > z.Lo
}

// OneChecker handles progressions of effective length 1: every residue is
// emitted directly.
type OneChecker interface {
	CheckOne(d uint64, si int, a uint64, za []uint64, b uint64, zb []uint64, ainvb, binv uint64, zmax ZMax128, sink Sink)
}

// FewChecker handles short progressions (n_ap <= ZSHORT or n_ap*ca <=
// ZFEW): every term is enumerated directly.
type FewChecker interface {
	CheckFew(d uint64, si int, a uint64, za []uint64, b uint64, zb []uint64, ainvb, binv uint64, n uint64, zmax ZMax128, sink Sink)
}

// LiftChecker handles long progressions by splitting via further
// cubic-reciprocity lifts; ki identifies which kdtab divisor produced
// this d, for callers that need it to locate further auxiliary-prime
// tables.
type LiftChecker interface {
	CheckLift(d uint64, si int, ki int, a uint64, za []uint64, zmax ZMax128, sink Sink)
}

// combineOne CRT-combines a single za residue (mod a) with a single zb
// residue (mod b) into a residue mod a*b, via z = za + a*((zb-za)*ainvb
// mod b) — the standard two-modulus CRT form.
func combineOne(a, za, b, zb, ainvb uint64) uint64 {
	diff := subMod(zb, za%b, b)
	t := mulModSmall(diff, ainvb, b)
	return za + a*t
}

func subMod(x, y, m uint64) uint64 {
	if x >= y {
		return x - y
	}
	return x - y + m
}

func mulModSmall(x, y, m uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	if hi == 0 {
		return lo % m
	}
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

// walkProgression emits every z = r, r+m, r+2m, ... with z <= zmax,
// calling sink.Candidate for each with negative set when si != 0 (the
// negative branch); no separate negated terms are emitted. r is assumed
// already reduced mod m.
func walkProgression(m, r uint64, si int, zmax ZMax128, sink Sink) {
	negative := si != 0
	z := r
	for !zmax.exceeds(z) {
		sink.Candidate(m, z, negative)
		if z > ^uint64(0)-m {
			break
		}
		z += m
	}
}
