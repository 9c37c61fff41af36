// Package worker implements the six-phase per-prime driver: given the
// outer prime p the coordinator hands it, classify p against the
// precomputed thresholds (cpmax, cdmin, sdmin, pdmin, bpmin) and dispatch
// to the matching enumeration strategy, from "roots already fully cached"
// down to "p is so close to zmax only one progression exists." It also
// implements the subprime-mode variant where an outer prime p0 is fixed
// for the whole run and the driver instead walks the inner primes the
// coordinator feeds it.
package worker

import (
	"sort"

	"github.com/snakehand-port/cubesearch/cuberoot"
	"github.com/snakehand-port/cubesearch/enum"
	"github.com/snakehand-port/cubesearch/modmath"
	"github.com/snakehand-port/cubesearch/phase"
	"github.com/snakehand-port/cubesearch/report"
	"github.com/snakehand-port/cubesearch/tables"
)

// Phase identifies which of the six branches classify chose for a given
// prime; it exists purely for reporting/metrics, the driver does not
// branch on it beyond the classify switch itself.
type Phase int

const (
	PhaseCached Phase = iota + 1
	PhaseUncached
	PhaseCocached
	PhaseNearprime
	PhasePrime
	PhaseBigPrime
)

func (p Phase) String() string {
	switch p {
	case PhaseCached:
		return "cached"
	case PhaseUncached:
		return "uncached"
	case PhaseCocached:
		return "cocached"
	case PhaseNearprime:
		return "nearprime"
	case PhasePrime:
		return "prime"
	case PhaseBigPrime:
		return "bigprime"
	default:
		return "unknown"
	}
}

// tableRootSource satisfies enum.RootSource by preferring the precomputed
// cache and falling back to on-the-fly Hensel lifting for callers outside
// the cached range.
type tableRootSource struct{ tb *tables.Tables }

func (s tableRootSource) RootsModPE(p uint64, e int) []uint64 {
	cptab := s.tb.Cptab
	i := sort.Search(len(cptab), func(i int) bool { return cptab[i] >= p })
	if i < len(cptab) && cptab[i] == p {
		if roots, ok := s.tb.CachedCubeRootsModQ(i, e); ok {
			return roots
		}
	}
	return cuberoot.ModPE(s.tb.K, p, e)
}

// Driver runs the phase-classified per-prime search for one run's tables
// and dispatcher. A Driver holds no per-prime mutable state beyond its
// Counters, which are safe for concurrent use, so one Driver (or several
// sharing the same Counters) can be driven by multiple worker goroutines.
type Driver struct {
	Tb       *tables.Tables
	Enum     *enum.Enumerator
	Disp     *phase.Dispatcher
	Counters *report.Counters

	// P0 is the subprime outer prime (the "p0×q" command-line spelling);
	// 0 selects ordinary mode.
	P0 uint64
}

// NewDriver builds a Driver wired to tb/disp, using tb itself as the root
// source for both the cached and uncached phases (tableRootSource falls
// back to cuberoot.ModPE when the cache doesn't cover a prime).
func NewDriver(tb *tables.Tables, disp *phase.Dispatcher, counters *report.Counters) *Driver {
	return &Driver{
		Tb:       tb,
		Enum:     &enum.Enumerator{Tb: tb, Roots: tableRootSource{tb: tb}},
		Disp:     disp,
		Counters: counters,
	}
}

// classify picks the processing phase for prime p: the same thresholds
// tables.LoadTables derives for divisor construction classify the outer
// prime itself, since p ranges over exactly the same [1, dmax] domain a
// divisor does.
func (d *Driver) classify(p uint64) Phase {
	tb := d.Tb
	switch {
	case p <= tb.Cpmax:
		return PhaseCached
	case p <= tb.Cdmin:
		return PhaseUncached
	case p <= tb.Sdmin:
		return PhaseCocached
	case p <= tb.Pdmin:
		return PhaseNearprime
	case p <= tb.Bpmin:
		return PhasePrime
	default:
		return PhaseBigPrime
	}
}

// Process runs the full phase dispatch for one outer prime p. It is the
// per-prime unit of work the coordinator hands to each goroutine.
func (d *Driver) Process(p uint64) {
	if d.Tb.K%p == 0 {
		return
	}
	if d.Counters != nil {
		d.Counters.AddPrime(1)
	}
	switch d.classify(p) {
	case PhaseCached:
		d.processCached(p)
	case PhaseUncached, PhaseCocached:
		d.processViaEnum(p)
	case PhaseNearprime:
		d.processNearprime(p)
	case PhasePrime:
		d.processPrime(p)
	case PhaseBigPrime:
		d.processBigPrime(p)
	}
}

// processCached walks every cached exponent level of p: for e =
// 1..cachedE(p), emit d = p^e with its cached roots, then continue
// enumeration below p for each level independently.
func (d *Driver) processCached(p uint64) {
	cptab := d.Tb.Cptab
	pi := sort.Search(len(cptab), func(i int) bool { return cptab[i] >= p })
	if pi >= len(cptab) || cptab[pi] != p {
		d.processViaEnum(p)
		return
	}
	e := d.Tb.CachedCubeRootsE(pi)
	for lvl := 1; lvl <= e; lvl++ {
		roots, ok := d.Tb.CachedCubeRootsModQ(pi, lvl)
		if !ok || len(roots) == 0 {
			continue
		}
		dd := pow(p, lvl)
		d.emit(dd, roots)
		d.Enum.EnumD(dd, p, roots, d.emit)
	}
}

// processViaEnum handles PHASE_UNCACHED and PHASE_COCACHED alike: both
// compute the single cube-root level for p on the fly and hand off to
// EnumD, which itself already routes to EnumCD once the accumulated
// divisor reaches cdmin (enum.EnumD's own first check) — so the two
// phases share one implementation here, differing only in which of
// EnumD's internal branches ends up doing the work.
func (d *Driver) processViaEnum(p uint64) {
	roots := cuberoot.ModP(d.Tb.K, p)
	if len(roots) == 0 {
		return
	}
	d.emit(p, roots)
	d.Enum.EnumD(p, p, roots, d.emit)
}

// processNearprime handles the nearprime phase: p is close enough to dmax
// that only one further small multiplier can possibly fit, so instead of
// the general recursive enumerator the driver walks sdtab directly and
// CRT-combines each entry against p's own root set.
func (d *Driver) processNearprime(p uint64) {
	roots := cuberoot.ModP(d.Tb.K, p)
	if len(roots) == 0 {
		return
	}
	d.emit(p, roots)
	dmax := d.Tb.Dmax
	for _, rec := range d.Tb.Sdtab {
		if rec.D <= 1 || p > dmax/rec.D {
			continue
		}
		if d.Tb.K%rec.D == 0 {
			continue
		}
		pair := modmath.NewCRTPair(p, rec.D)
		combined := make([]uint64, 0, len(roots)*len(rec.Roots))
		for _, z1 := range roots {
			for _, z2 := range rec.Roots {
				combined = append(combined, pair.Combine(z1, z2))
			}
		}
		d.emit(p*rec.D, combined)
	}
}

// processPrime handles the prime phase: d is p itself, and the driver
// calls ProcdCoprime directly rather than Prockd's full fan-out, so p is
// not combined with any kdtab multiplier.
func (d *Driver) processPrime(p uint64) {
	roots := cuberoot.ModP(d.Tb.K, p)
	if len(roots) == 0 {
		return
	}
	if d.Counters != nil {
		d.Counters.AddDivisor(1)
	}
	d.Disp.ProcdCoprime(p, roots)
}

// processBigPrime handles the bigprime phase: p is within a single
// arithmetic progression of zmax, so the exact progression length is
// computed once and handed straight to ProcdBigPrime.
func (d *Driver) processBigPrime(p uint64) {
	roots := cuberoot.ModP(d.Tb.K, p)
	if len(roots) == 0 {
		return
	}
	si := int(p & 1)
	l := d.Disp.ProgressionLength(p, 1)
	if d.Counters != nil {
		d.Counters.AddDivisor(1)
	}
	d.Disp.ProcdBigPrime(p, roots, si, l)
}

// emit is the enum.Emit callback used by the cached/uncached/cocached
// phases: every admissible d the enumerator discovers is fanned out
// through Prockd.
func (d *Driver) emit(dd uint64, roots []uint64) {
	if d.Counters != nil {
		d.Counters.AddDivisor(1)
		for _, rec := range d.Tb.Kdtab[1:] {
			if dd <= d.Tb.Dmax/rec.D {
				d.Counters.AddCheck(1)
			}
		}
	}
	d.Disp.Prockd(dd, roots)
}

func pow(base uint64, exp int) uint64 {
	r := uint64(1)
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// ProcessSubprime implements subprime mode: P0 is fixed for the whole
// run, and q ranges over the sieve-fed primes in
// [pmin/P0, pmax/P0]. p0Roots is P0's cube-root set, supplied by the
// caller (see P0Roots) so it is computed once and reused for every q.
func (d *Driver) ProcessSubprime(q uint64, p0Roots []uint64) {
	if d.Tb.K%q == 0 || q == d.P0 {
		return
	}
	qRoots := cuberoot.ModP(d.Tb.K, q)
	if len(qRoots) == 0 {
		return
	}
	if d.Counters != nil {
		d.Counters.AddPrime(1)
	}
	dd := d.P0 * q
	pair := modmath.NewCRTPair(d.P0, q)
	combined := make([]uint64, 0, len(p0Roots)*len(qRoots))
	for _, z1 := range p0Roots {
		for _, z2 := range qRoots {
			combined = append(combined, pair.Combine(z1, z2))
		}
	}
	d.emit(dd, combined)
	lesser := d.P0
	if q < lesser {
		lesser = q
	}
	d.Enum.EnumD(dd, lesser, combined, d.emit)
}

// P0Roots computes P0's cube-root set once, for callers driving
// ProcessSubprime across many q's.
func (d *Driver) P0Roots() []uint64 {
	return cuberoot.ModP(d.Tb.K, d.P0)
}
