// Package enum implements the divisor enumerator: given a prime p and the
// cube roots of k mod p^e, it walks every admissible d with largest prime
// factor p, CRT-lifting cube roots of k through d's prime factorization as
// it goes, and invokes a caller-supplied callback for every d it produces
// (the caller is the phase dispatcher's Prockd).
package enum

import (
	"math/bits"
	"sort"

	"github.com/snakehand-port/cubesearch/modmath"
	"github.com/snakehand-port/cubesearch/tables"
)

// IBatch is the batching width: up to this many candidate (q,e) pairs are
// accumulated before their inverses mod d are computed together via
// Montgomery's trick, rather than one at a time.
const IBatch = 256

// RootSource supplies cube roots of k mod p^e for primes below the current
// outer prime. The cached table answers this directly while p stays below
// the cache's upper bound; beyond that, callers must compute roots on the
// fly.
type RootSource interface {
	RootsModPE(p uint64, e int) []uint64
}

// Emit is invoked once per admissible d the enumerator produces, with the
// full cube-root multiset of k mod d.
type Emit func(d uint64, roots []uint64)

// Enumerator walks admissible divisors for one run's tables and root
// source. It holds no mutable state of its own; all state lives in the
// recursion's local variables, so a single Enumerator is safe to share
// read-only across worker goroutines.
type Enumerator struct {
	Tb    *tables.Tables
	Roots RootSource
}

type candidate struct {
	q, e  uint64
	qe    uint64
	roots []uint64
}

// EnumD assumes d already has largest prime factor <= p (often d == p^e,
// called this way from the worker driver). It walks every prime q < p not
// dividing k, every exponent e with d*q^e <= dmax, CRTs the cube roots of
// k mod q^e onto zd, emits the resulting d, and recurses. Once d reaches
// the table's cdmin threshold it hands off to EnumCD.
func (en *Enumerator) EnumD(d, p uint64, zd []uint64, emit Emit) {
	if d >= en.Tb.Cdmin {
		en.EnumCD(d, p, zd, emit)
		return
	}
	dmax := en.Tb.Dmax
	cptab := en.Tb.Cptab
	idx := sort.Search(len(cptab), func(i int) bool { return cptab[i] >= p })

	pending := make([]candidate, 0, IBatch)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		en.flushPending(d, zd, pending, emit)
		pending = pending[:0]
	}

	for i := idx - 1; i >= 0; i-- {
		q := cptab[i]
		if en.Tb.K%q == 0 {
			continue
		}
		if d > dmax/q {
			continue
		}
		qe := q
		for e := uint64(1); d <= dmax/qe; e++ {
			roots := en.Roots.RootsModPE(q, int(e))
			if len(roots) == 0 {
				break
			}
			pending = append(pending, candidate{q: q, e: e, qe: qe, roots: roots})
			if len(pending) == IBatch {
				flush()
			}
			if qe > dmax/q {
				break
			}
			qe *= q
		}
	}
	flush()
}

// flushPending CRT-combines every pending (q,e) candidate onto (d, zd),
// emits the resulting d*q^e, and recurses into EnumD with the new (d', q)
// pair so that the next recursion level only considers primes below q:
// outer prime powers are enumerated in decreasing prime order. Every
// candidate in one batch shares the same modulus d, so the q^e -> q^e mod
// d inverses needed by the CRT step are computed together via Montgomery's
// trick when d is odd; for even d, Montgomery form doesn't apply and each
// candidate falls back to CRTPair's extended-Euclid inverse instead.
func (en *Enumerator) flushPending(d uint64, zd []uint64, pending []candidate, emit Emit) {
	invs := en.batchInvModD(d, pending)
	for i, c := range pending {
		var newRoots []uint64
		if invs != nil {
			newRoots = crossCombineSwapped(d, c.qe, invs[i], zd, c.roots)
		} else {
			pair := modmath.NewCRTPair(d, c.qe)
			newRoots = crossCombine(pair, zd, c.roots)
		}
		newD := d * c.qe
		emit(newD, newRoots)
		en.EnumD(newD, c.q, newRoots, emit)
	}
}

// batchInvModD returns, for each candidate, its qe^-1 mod d, computed in a
// single Montgomery batch inversion against the fixed modulus d. Returns
// nil when d is even (Montgomery form requires an odd modulus), signalling
// callers to fall back to the per-candidate extended-Euclid inverse.
func (en *Enumerator) batchInvModD(d uint64, pending []candidate) []uint64 {
	if d%2 == 0 || len(pending) == 0 {
		return nil
	}
	mp := modmath.NewMontParams(d)
	a := make([]uint64, len(pending))
	for i, c := range pending {
		a[i] = c.qe % d
	}
	return modmath.BatchInv(a, mp)
}

// crossCombine CRT-combines every residue in zd (mod d1) against every
// residue in z2 (mod d2), producing the full cube-root multiset mod d1*d2:
// the cube roots mod d1*d2 are exactly CRT(z', z'') for every (z', z'')
// pair.
func crossCombine(pair modmath.CRTPair, zd, z2 []uint64) []uint64 {
	out := make([]uint64, 0, len(zd)*len(z2))
	for _, z1 := range zd {
		for _, zz2 := range z2 {
			out = append(out, pair.Combine(z1, zz2))
		}
	}
	return out
}

// crossCombineSwapped is crossCombine's counterpart when the caller already
// holds d2^-1 mod d1 (inv2) rather than d1^-1 mod d2: the same CRT identity
// applied with the roles of (d1,z1) and (d2,z2) swapped,
// z = z2 + d2*((z1-z2)*inv2 mod d1).
func crossCombineSwapped(d1, d2, inv2 uint64, z1s, z2s []uint64) []uint64 {
	out := make([]uint64, 0, len(z1s)*len(z2s))
	for _, z1 := range z1s {
		for _, z2 := range z2s {
			diff := modmath.SubMod(z1%d1, z2%d1, d1)
			t := mulModSmall(diff, inv2, d1)
			out = append(out, z2+d2*t)
		}
	}
	return out
}

// mulModSmall computes x*y mod m via a 128-bit product, mirroring
// modmath's own unexported helper of the same name.
func mulModSmall(x, y, m uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	if hi == 0 {
		return lo % m
	}
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

// EnumCD handles d at or beyond the table's cdmin threshold: it walks the
// precomputed chain of admissible multipliers d' (largest prime factor <
// p, d*d' <= dmax), splitting into the cached-sdtab sub-path for small d'
// and the batched sub-path otherwise, and emits the resulting d*d' for
// each.
func (en *Enumerator) EnumCD(d, p uint64, zd []uint64, emit Emit) {
	dmax := en.Tb.Dmax
	if d > dmax {
		return
	}
	limit := dmax / d
	recs := en.Tb.CdtabWalk(p, limit)

	pending := make([]tables.CdRec, 0, IBatch)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		en.flushCdBatch(d, zd, pending, emit)
		pending = pending[:0]
	}

	for _, rec := range recs {
		if rec.D <= en.Tb.Sdmin {
			sd, ok := en.Tb.SdLookup(rec.D)
			roots := rec.Roots
			if ok {
				roots = sd.Roots
			}
			pair := modmath.NewCRTPair(d, rec.D)
			combined := crossCombine(pair, zd, roots)
			emit(d*rec.D, combined)
			continue
		}
		pending = append(pending, rec)
		if len(pending) == IBatch {
			flush()
		}
	}
	flush()
}

func (en *Enumerator) flushCdBatch(d uint64, zd []uint64, pending []tables.CdRec, emit Emit) {
	var invs []uint64
	if d%2 == 1 && len(pending) > 0 {
		mp := modmath.NewMontParams(d)
		a := make([]uint64, len(pending))
		for i, rec := range pending {
			a[i] = rec.D % d
		}
		invs = modmath.BatchInv(a, mp)
	}
	for i, rec := range pending {
		var combined []uint64
		if invs != nil {
			combined = crossCombineSwapped(d, rec.D, invs[i], zd, rec.Roots)
		} else {
			pair := modmath.NewCRTPair(d, rec.D)
			combined = crossCombine(pair, zd, rec.Roots)
		}
		emit(d*rec.D, combined)
	}
}
