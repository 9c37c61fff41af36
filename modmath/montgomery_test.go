package modmath_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakehand-port/cubesearch/modmath"
)

var testModuli = []uint64{3, 9, 97, 1000003, 9223372036854775783, 1152921504606584833}

func TestMontRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, q := range testModuli {
		p := modmath.NewMontParams(q)
		for i := 0; i < 100; i++ {
			a := rng.Uint64() % q
			mont := modmath.ToMont(a, p)
			back := modmath.FromMont(mont, p)
			require.Equal(t, a, back, "q=%d a=%d", q, a)
		}
	}
}

func TestMulMontMatchesSchoolbook(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, q := range testModuli {
		p := modmath.NewMontParams(q)
		for i := 0; i < 100; i++ {
			x := rng.Uint64() % q
			y := rng.Uint64() % q

			mx := modmath.ToMont(x, p)
			my := modmath.ToMont(y, p)
			gotMont := modmath.MulMont(mx, my, p)
			got := modmath.FromMont(gotMont, p)

			want := mulModRef(x, y, q)
			require.Equal(t, want, got, "q=%d x=%d y=%d", q, x, y)
		}
	}
}

func TestInvMont(t *testing.T) {
	primes := []uint64{97, 1000003, 9223372036854775783}
	for _, q := range primes {
		p := modmath.NewMontParams(q)
		for a := uint64(1); a < 50; a++ {
			ma := modmath.ToMont(a, p)
			inv := modmath.InvMont(ma, p)
			prod := modmath.FromMont(modmath.MulMont(ma, inv, p), p)
			require.Equal(t, uint64(1), prod, "q=%d a=%d", q, a)
		}
	}
}

func TestBatchInvMatchesElementwise(t *testing.T) {
	q := uint64(1000003)
	p := modmath.NewMontParams(q)

	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{1, 2, 7, 64, 200, 256} {
		vals := make([]uint64, n)
		for i := range vals {
			vals[i] = 1 + rng.Uint64()%(q-1)
		}
		batch := modmath.BatchInv(vals, p)
		for i, v := range vals {
			mv := modmath.ToMont(v, p)
			inv := modmath.InvMont(mv, p)
			want := modmath.FromMont(inv, p)
			require.Equal(t, want, batch[i], "n=%d i=%d", n, i)
		}
	}
}

func TestBarrettReduction(t *testing.T) {
	moduli := []uint64{9, 18, 126, 162, 8191}
	rng := rand.New(rand.NewSource(4))
	for _, q := range moduli {
		u := modmath.BRedParams(q)
		for i := 0; i < 200; i++ {
			x := rng.Uint64() % q
			y := rng.Uint64() % q
			got := modmath.BRed(x, y, q, u)
			require.Equal(t, mulModRef(x, y, q), got, "q=%d x=%d y=%d", q, x, y)
		}
	}
}

func TestCRed(t *testing.T) {
	require.Equal(t, uint64(0), modmath.CRed(9, 9))
	require.Equal(t, uint64(3), modmath.CRed(3, 9))
	require.Equal(t, uint64(5), modmath.CRed(14, 9))
}

func mulModRef(x, y, q uint64) uint64 {
	bx := new(big.Int).SetUint64(x)
	by := new(big.Int).SetUint64(y)
	bq := new(big.Int).SetUint64(q)
	return bx.Mul(bx, by).Mod(bx, bq).Uint64()
}
