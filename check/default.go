package check

// DefaultOne is the reference zrcheckone: the progression for each (za,zb)
// pair has at most one term below zmax, so every combined residue is
// checked and emitted directly with no further splitting.
type DefaultOne struct{}

func (DefaultOne) CheckOne(d uint64, si int, a uint64, za []uint64, b uint64, zb []uint64, ainvb, binv uint64, zmax ZMax128, sink Sink) {
	m := a * b
	for _, z1 := range za {
		for _, z2 := range zb {
			r := combineOne(a, z1, b, z2, ainvb)
			walkProgression(m, r, si, zmax, sink)
		}
	}
}

// DefaultFew is the reference zrcheckafew: progressions are short enough
// (n_ap <= ZSHORT, or n_ap*ca <= ZFEW) to enumerate every term directly.
type DefaultFew struct{}

func (DefaultFew) CheckFew(d uint64, si int, a uint64, za []uint64, b uint64, zb []uint64, ainvb, binv uint64, n uint64, zmax ZMax128, sink Sink) {
	m := a * b
	for _, z1 := range za {
		for _, z2 := range zb {
			r := combineOne(a, z1, b, z2, ainvb)
			walkProgression(m, r, si, zmax, sink)
		}
	}
}

// DefaultLift is the reference zrchecklift: it hands every za-progression
// to its FewChecker with the trivial auxiliary modulus b=1, so every term
// up to zmax is enumerated directly. It folds in no further moduli and
// does not narrow the progression first.
type DefaultLift struct {
	Few FewChecker
}

// NewDefaultLift returns a DefaultLift delegating to the given FewChecker
// once a progression has been narrowed far enough to enumerate directly;
// passing nil uses DefaultFew.
func NewDefaultLift(few FewChecker) DefaultLift {
	if few == nil {
		few = DefaultFew{}
	}
	return DefaultLift{Few: few}
}

func (l DefaultLift) CheckLift(d uint64, si int, ki int, a uint64, za []uint64, zmax ZMax128, sink Sink) {
	few := l.Few
	if few == nil {
		few = DefaultFew{}
	}
	// With no auxiliary modulus folded in yet, b=1 degenerates the CRT
	// combine to the identity and the "few" path enumerates every term of
	// every za-progression directly; this is the same fallback the real
	// system reaches once its own splitting has narrowed enough that no
	// further lift pays for itself.
	few.CheckFew(d, si, a, za, 1, []uint64{0}, 0, 0, ^uint64(0), zmax, sink)
}
