// Package cuberoot extracts cube roots of k modulo a prime power on the
// fly, for the phases of the worker driver that fall outside the
// precomputed cube-root table's range.
package cuberoot

import (
	"math/big"
	"math/bits"
	"math/rand"
)

// ModP returns every residue r with r^3 ≡ a (mod p), for p an odd prime not
// dividing a. There are 0, 1, or 3 such residues. The zero-residue case
// (a ≡ 0 mod p) is excluded by construction elsewhere: callers never pass
// a prime p dividing k, and every a handled here is k reduced mod p.
func ModP(a, p uint64) []uint64 {
	a %= p
	if a == 0 {
		return []uint64{0}
	}
	if p == 3 {
		return []uint64{a % 3}
	}

	pm1 := p - 1
	if pm1%3 != 0 {
		// gcd(3, p-1) = 1: cubing is a bijection, the root is unique.
		e := modInverseUint(3, pm1)
		return []uint64{powMod(a, e, p)}
	}

	// p ≡ 1 (mod 3): the cube map is 3-to-1 on the subgroup it covers.
	// a must lie in the index-3 image subgroup (Euler's-criterion analogue
	// for cubes) or it has no cube root at all.
	if powMod(a, pm1/3, p) != 1 {
		return nil
	}

	s, t := 0, pm1
	for t%3 == 0 {
		t /= 3
		s++
	}
	root, ok := liftCubeRoot(a, p, t, s)
	if !ok {
		return nil
	}
	w := primitiveCubeRootOfUnity(p, t, s)
	return []uint64{root, mulMod(root, w, p), mulMod(root, mulMod(w, w, p), p)}
}

// ModPE Hensel-lifts every cube root mod p up to a cube root mod p^e. Each
// level gains one p-adic digit (modulus m -> m*p), standard Newton lifting
// for x^3 - a.
func ModPE(a, p uint64, e int) []uint64 {
	roots := ModP(a, p)
	if len(roots) == 0 || e <= 1 {
		return roots
	}
	modulus := p
	out := roots
	for level := 1; level < e; level++ {
		nextModulus := modulus * p
		lifted := make([]uint64, 0, len(out))
		for _, r := range out {
			lr := hensel(a, p, r, modulus, nextModulus)
			lifted = append(lifted, lr)
		}
		out = lifted
		modulus = nextModulus
	}
	return out
}

// hensel lifts a single root r (with r^3 ≡ a mod m) to a root mod m*p,
// using f(x) = x^3 - a and f'(x) = 3x^2 as the Newton step.
func hensel(a, p, r, m, mp uint64) uint64 {
	bm := new(big.Int).SetUint64(mp)
	br := new(big.Int).SetUint64(r)
	ba := new(big.Int).SetUint64(a)

	fr := new(big.Int).Exp(br, big.NewInt(3), bm)
	fr.Sub(fr, ba)
	fr.Mod(fr, bm)

	dfr := new(big.Int).Mul(big.NewInt(3), new(big.Int).Mul(br, br))
	dfr.Mod(dfr, bm)

	dfrInv := new(big.Int).ModInverse(dfr, new(big.Int).SetUint64(p))
	if dfrInv == nil {
		// 3r ≡ 0 (mod p): this root branch doesn't lift uniquely, keep it
		// unchanged, the search will simply not find solutions through it.
		return r
	}

	// f(r) is a multiple of m; the digit to correct is (f(r)/m) / f'(r) mod p.
	fr.Quo(fr, new(big.Int).SetUint64(m))
	delta := new(big.Int).Mul(fr, dfrInv)
	delta.Mod(delta, new(big.Int).SetUint64(p))
	correction := new(big.Int).Mul(delta, new(big.Int).SetUint64(m))

	result := new(big.Int).Sub(br, correction)
	result.Mod(result, bm)
	return result.Uint64()
}

func liftCubeRoot(a, p, t uint64, s int) (uint64, bool) {
	g := findNonCubicResidue(p, t)
	c := powMod(g, t, p)
	mod3s := pow64(3, s)

	var mT uint64
	if t > 1 {
		mT = mulMod(mod3s, modInverseUint(mod3s%t, t), t*mod3s)
	}
	m3 := mulMod(t, modInverseUint(t%mod3s, mod3s), t*mod3s)

	aT := powMod(a, mT, p)
	a3 := powMod(a, m3, p)

	var eT uint64
	if t > 1 {
		eT = modInverseUint(3, t)
	}
	xT := powMod(aT, eT, p)

	cInv := modInverseUint(c, p)
	gen3 := powMod(c, mod3s/3, p)

	cur := a3
	var j uint64
	pow3i := uint64(1)
	for i := 0; i < s; i++ {
		e2 := powMod(cur, pow64(3, s-1-i), p)
		var digit uint64
		val := uint64(1)
		found := false
		for d := uint64(0); d < 3; d++ {
			if val == e2 {
				digit = d
				found = true
				break
			}
			val = mulMod(val, gen3, p)
		}
		if !found {
			return 0, false
		}
		j += digit * pow3i
		cur = mulMod(cur, powMod(cInv, digit*pow3i, p), p)
		pow3i *= 3
	}
	if j%3 != 0 {
		return 0, false
	}
	x3 := powMod(c, j/3, p)
	return mulMod(x3, xT, p), true
}

func primitiveCubeRootOfUnity(p, t uint64, s int) uint64 {
	g := findNonCubicResidue(p, t)
	c := powMod(g, t, p)
	return powMod(c, pow64(3, s-1), p)
}

func findNonCubicResidue(p, t uint64) uint64 {
	pm1 := p - 1
	rng := rand.New(rand.NewSource(int64(p)))
	for {
		g := 2 + rng.Uint64()%(p-3)
		if powMod(g, pm1/3, p) != 1 {
			return g
		}
	}
}

func pow64(base uint64, exp int) uint64 {
	r := uint64(1)
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

func powMod(base, exp, m uint64) uint64 {
	result := uint64(1) % m
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, m)
		}
		base = mulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// mulMod computes x*y mod m for m up to 64 bits, via a 128-bit product and
// math/bits.Div64 rather than math/big, so this stays in the same
// allocation-free style as the modmath package.
func mulMod(x, y, m uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	if hi == 0 {
		return lo % m
	}
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}

func modInverseUint(a, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	ba := new(big.Int).SetUint64(a % m)
	bm := new(big.Int).SetUint64(m)
	inv := new(big.Int).ModInverse(ba, bm)
	if inv == nil {
		return 0
	}
	return inv.Uint64()
}
