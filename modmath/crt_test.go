package modmath_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snakehand-port/cubesearch/modmath"
)

func TestCRTPairCombine(t *testing.T) {
	cases := []struct{ d1, d2 uint64 }{
		{5, 7}, {9, 16}, {1000003, 97}, {162, 1000003},
	}
	for _, c := range cases {
		pair := modmath.NewCRTPair(c.d1, c.d2)
		for z1 := uint64(0); z1 < c.d1; z1++ {
			for z2 := uint64(0); z2 < c.d2; z2++ {
				got := pair.Combine(z1, z2)
				require.Less(t, got, c.d1*c.d2)
				require.Equal(t, z1, got%c.d1, "d1=%d d2=%d z1=%d z2=%d", c.d1, c.d2, z1, z2)
				require.Equal(t, z2, got%c.d2, "d1=%d d2=%d z1=%d z2=%d", c.d1, c.d2, z1, z2)
			}
			if c.d1*c.d2 > 2000 {
				break
			}
		}
	}
}

func TestCRT128Combine(t *testing.T) {
	d1 := uint64(9223372036854775783)
	d2 := uint64(1152921504606584833)
	pair := modmath.NewCRT128(modmath.NewMontParams(d1), modmath.NewMontParams(d2))

	z1 := uint64(12345)
	z2 := uint64(987654321)
	hi, lo := pair.Combine(z1, z2)

	full := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	full.Or(full, new(big.Int).SetUint64(lo))

	bd1 := new(big.Int).SetUint64(d1)
	bd2 := new(big.Int).SetUint64(d2)

	gotMod1 := new(big.Int).Mod(full, bd1).Uint64()
	gotMod2 := new(big.Int).Mod(full, bd2).Uint64()

	require.Equal(t, z1, gotMod1)
	require.Equal(t, z2, gotMod2)
}
