package tables

import "sort"

// divisorsOf returns every positive divisor of n, ascending.
func divisorsOf(n uint64) []uint64 {
	var out []uint64
	for d := uint64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if od := n / d; od != d {
				out = append(out, od)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// buildKdtab populates kdtab: one KdRec per divisor m of k (the admissible
// gcd(d,k) values), carrying the cube roots of k mod m. Index 0 is always
// m=1 (d coprime to k), matching ProcdCoprime's "kdtab index 0"
// convention.
func buildKdtab(k uint64) []KdRec {
	ms := divisorsOf(k)
	out := make([]KdRec, 0, len(ms))
	for _, m := range ms {
		out = append(out, KdRec{D: m, Roots: cubeRootsModM(k, m)})
	}
	return out
}
