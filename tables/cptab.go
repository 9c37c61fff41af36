package tables

// buildCptab returns every prime in [2, limit], ascending, via a plain
// sieve of Eratosthenes. This is the load-time prime cache (cptab),
// ordered and indexed by position, kept independent of the runtime prime
// feeder in package sieve.
func buildCptab(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}
	sieve := make([]bool, limit+1)
	var out []uint64
	for p := uint64(2); p <= limit; p++ {
		if sieve[p] {
			continue
		}
		out = append(out, p)
		if p > limit/p {
			continue
		}
		for m := p * p; m <= limit; m += p {
			sieve[m] = true
		}
	}
	return out
}
