// Package sieve implements the prime feeder: a stream of strictly
// increasing uint64 primes terminated by the sentinel 2^64-1. This is
// intentionally the thinnest package in the tree (DESIGN.md's Open
// Question #4): a segmented sieve of Eratosthenes is the standard way to
// produce primes over a bounded range without materializing a full sieve
// array up to pmax when pmax is large.
package sieve

import "math"

// Sentinel is the end-of-stream marker for the prime feed: a stream of
// 64-bit primes ends with 2^64-1.
const Sentinel = ^uint64(0)

// segmentSize bounds the memory used by each sieve pass; primes up to
// ~10^12 are comfortably reachable with a segment this size without the
// base-primes sieve itself needing special treatment.
const segmentSize = 1 << 20

// Feeder produces every prime in [lo, hi] in increasing order via Next,
// using a segmented sieve of Eratosthenes so memory use stays bounded
// regardless of hi.
type Feeder struct {
	lo, hi     uint64
	base       []uint64 // primes up to sqrt(hi), used to sieve each segment
	segStart   uint64
	segEnd     uint64
	seg        []bool
	cursor     uint64
	exhausted  bool
	firstBatch bool
}

// NewFeeder returns a Feeder over every prime p with lo <= p <= hi.
func NewFeeder(lo, hi uint64) *Feeder {
	if lo < 2 {
		lo = 2
	}
	f := &Feeder{lo: lo, hi: hi, firstBatch: true}
	if lo > hi {
		f.exhausted = true
		return f
	}
	limit := uint64(math.Sqrt(float64(hi))) + 1
	f.base = simpleSieve(limit)
	f.segStart = lo
	f.cursor = lo
	return f
}

// Next returns the next prime in range, and false once the stream is
// exhausted (the caller is expected to push Sentinel at that point, not
// this package, since Sentinel is a pipe-wire concept rather than a prime).
func (f *Feeder) Next() (uint64, bool) {
	for {
		if f.exhausted {
			return 0, false
		}
		if f.seg == nil || f.cursor > f.segEnd {
			if !f.advanceSegment() {
				f.exhausted = true
				return 0, false
			}
		}
		for f.cursor <= f.segEnd {
			idx := f.cursor - f.segStart
			p := f.cursor
			f.cursor++
			if !f.seg[idx] {
				return p, true
			}
		}
	}
}

func (f *Feeder) advanceSegment() bool {
	start := f.segStart
	if !f.firstBatch {
		start = f.segEnd + 1
	}
	f.firstBatch = false
	if start > f.hi {
		return false
	}
	end := start + segmentSize - 1
	if end > f.hi {
		end = f.hi
	}
	f.seg = make([]bool, end-start+1)
	for _, p := range f.base {
		if p*p > end {
			break
		}
		first := ((start + p - 1) / p) * p
		if first < p*p {
			first = p * p
		}
		for m := first; m <= end; m += p {
			f.seg[m-start] = true
		}
	}
	f.segStart, f.segEnd, f.cursor = start, end, start
	return true
}

// simpleSieve returns every prime <= limit via a plain (unsegmented) sieve
// of Eratosthenes, used to produce the base primes a segmented sieve needs.
func simpleSieve(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var out []uint64
	for p := uint64(2); p <= limit; p++ {
		if composite[p] {
			continue
		}
		out = append(out, p)
		if p > limit/p {
			continue
		}
		for m := p * p; m <= limit; m += p {
			composite[m] = true
		}
	}
	return out
}
