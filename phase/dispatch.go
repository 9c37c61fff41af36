// Package phase implements the phase classifier and per-d dispatcher:
// Prockd fans a divisor d out over every admissible divisor of k,
// Procd/ProcdCoprime compute the auxiliary modulus and decide which of the
// three progression checkers (package check) to hand a given d to, and
// ProcdBigPrime handles the near-zmax primes where the progression length
// is already known exactly.
package phase

import (
	"math/big"

	"github.com/snakehand-port/cubesearch/check"
	"github.com/snakehand-port/cubesearch/modmath"
	"github.com/snakehand-port/cubesearch/tables"
)

// ZShort and ZFew are the thresholds the dispatch decision rule uses to
// choose between the few-progressions path and the lift checker: an
// estimated progression count n_ap dispatches to "few" when n_ap <= ZShort
// or n_ap*ca <= ZFew, and to the lift checker otherwise.
const (
	ZShort = 4
	ZFew   = 4096
)

// Dispatcher wires the three checkers and the precomputed tables together
// into prockd's full fan-out. A Dispatcher holds no per-d mutable state, so
// one instance is shared read-only across worker goroutines.
type Dispatcher struct {
	Tb     *tables.Tables
	One    check.OneChecker
	Few    check.FewChecker
	Lift   check.LiftChecker
	Sink   check.Sink
	Zmax   check.ZMax128
	zmaxLD *big.Float
}

// NewDispatcher builds a Dispatcher for one run. zmaxHi/zmaxLo are the
// 128-bit zmax bound split into words.
func NewDispatcher(tb *tables.Tables, one check.OneChecker, few check.FewChecker, lift check.LiftChecker, sink check.Sink, zmaxHi, zmaxLo uint64) *Dispatcher {
	return &Dispatcher{
		Tb: tb, One: one, Few: few, Lift: lift, Sink: sink,
		Zmax:   check.ZMax128{Hi: zmaxHi, Lo: zmaxLo},
		zmaxLD: modmath.ZmaxLD(zmaxHi, zmaxLo),
	}
}

// sgnzIndex computes the sign-branch index si ∈ {0,1}: whether the
// cube-root branch being checked is the positive or negative one. d's
// parity is the only input available at this layer without walking za
// itself, so it is used as the deterministic classifier.
func sgnzIndex(d uint64) int {
	return int(d & 1)
}

// auxModulus picks b from the four canonical values {9, 18, 126, 162}
// based on k's 7-branch eligibility and d's parity.
func auxModulus(k, d uint64) uint64 {
	seven := tables.Admits7(k) && tables.AdmitsZ0Mod7(d)
	odd := d&1 == 1
	switch {
	case seven && odd:
		return 162
	case seven:
		return 126
	case odd:
		return 18
	default:
		return 9
	}
}

func extGCDInv(a, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	a0, m0 := int64(a%m), int64(m)
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

// Prockd fans a divisor d out: process d coprime-to-k directly, then for
// every admissible divisor m_i of k with d*kdtab[i].D <= dmax, process
// d*kdtab[i].D too. No CRT is needed for the latter: cube roots of k mod
// m_i are already precomputed per divisor in kdtab.
func (disp *Dispatcher) Prockd(d uint64, zd []uint64) {
	disp.ProcdCoprime(d, zd)
	for i := 1; i < len(disp.Tb.Kdtab); i++ {
		rec := disp.Tb.Kdtab[i]
		if d > disp.Tb.Dmax/rec.D {
			continue
		}
		disp.Procd(i, d, zd)
	}
}

// Procd processes d = a * kdtab[ki].D.
func (disp *Dispatcher) Procd(ki int, a uint64, za []uint64) {
	rec := disp.Tb.Kdtab[ki]
	d := a * rec.D
	si := sgnzIndex(d)
	b := auxModulus(disp.Tb.K, d)
	zb, ok := disp.Tb.K27.Roots[b]
	if !ok || len(zb) == 0 {
		return
	}
	ainvb := extGCDInv(a, b)
	binv := extGCDInv(b, d)
	disp.dispatch(d, si, ki, a, za, b, zb, ainvb, binv)
}

// ProcdCoprime processes d (coprime to k, kdtab index 0).
func (disp *Dispatcher) ProcdCoprime(d uint64, zd []uint64) {
	si := sgnzIndex(d)
	mi := tables.KmIndex(disp.Tb.K, d)
	b := disp.Tb.Km.Mods[mi]
	zb := disp.Tb.Km.Roots[mi]
	if len(zb) == 0 {
		return
	}
	ainvb := extGCDInv(d, b)
	binv := extGCDInv(b, d)
	disp.dispatch(d, si, 0, d, zd, b, zb, ainvb, binv)
}

// dispatch implements the core decision rule: estimate n_ap = ceil(zmax /
// (a*b)) and route to the one/few/lift checker accordingly.
func (disp *Dispatcher) dispatch(d uint64, si, ki int, a uint64, za []uint64, b uint64, zb []uint64, ainvb, binv uint64) {
	ca := len(za)
	nAP := modmath.CeilDiv(disp.zmaxLD, a*b)
	switch {
	case nAP <= 1:
		disp.One.CheckOne(d, si, a, za, b, zb, ainvb, binv, disp.Zmax, disp.Sink)
	case nAP <= ZShort || nAP*uint64(ca) <= ZFew:
		disp.Few.CheckFew(d, si, a, za, b, zb, ainvb, binv, nAP, disp.Zmax, disp.Sink)
	default:
		disp.Lift.CheckLift(d, si, ki, a, za, disp.Zmax, disp.Sink)
	}
}

// ProgressionLength is dispatch's n_ap estimate exposed for callers (the
// worker driver's PHASE_BIGPRIME) that already know the exact arithmetic
// progression length is all they need, without going through a full d/b
// dispatch decision.
func (disp *Dispatcher) ProgressionLength(a, b uint64) uint64 {
	return modmath.CeilDiv(disp.zmaxLD, a*b)
}

// ProcdBigPrime is the path for primes so close to zmax that no splitting
// is possible: l is the exact arithmetic-progression length, precomputed
// once per p by the worker driver.
func (disp *Dispatcher) ProcdBigPrime(d uint64, zd []uint64, si int, l uint64) {
	disp.Few.CheckFew(d, si, d, zd, 1, []uint64{0}, 0, 0, l, disp.Zmax, disp.Sink)
}
