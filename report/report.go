// Package report implements the run's reporting contract: one line per
// prime carrying the aggregate counters pcnt (primes processed), ccnt
// (divisors of k fanned out over, i.e. "checks"), dcnt (admissible d's
// emitted) and rcnt (candidate z's reported), plus an optional cross-check
// against totals supplied on the command line. It also implements
// check.Sink so the progression checkers in package check can report hits
// directly into the same counters.
package report

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Counters holds the four aggregate run counters as atomics so every
// worker goroutine can update them concurrently without a lock — simpler
// than giving each worker its own slot and merging at shutdown, and it
// gives the same externally-visible totals.
type Counters struct {
	Pcnt, Ccnt, Dcnt, Rcnt atomic.Uint64
}

// Snapshot is an immutable copy of Counters for comparison/printing.
type Snapshot struct {
	Pcnt, Ccnt, Dcnt, Rcnt uint64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Pcnt: c.Pcnt.Load(),
		Ccnt: c.Ccnt.Load(),
		Dcnt: c.Dcnt.Load(),
		Rcnt: c.Rcnt.Load(),
	}
}

// AddPrime, AddCheck, AddDivisor, AddCandidate increment the corresponding
// counter; each worker calls these as it processes a prime, fans out over
// kdtab divisors, emits an admissible d, or reports a candidate z.
func (c *Counters) AddPrime(n uint64)     { c.Pcnt.Add(n) }
func (c *Counters) AddCheck(n uint64)     { c.Ccnt.Add(n) }
func (c *Counters) AddDivisor(n uint64)   { c.Dcnt.Add(n) }
func (c *Counters) AddCandidate(n uint64) { c.Rcnt.Add(n) }

// Sink implements check.Sink: every candidate z reported by a checker
// increments Rcnt and is written to the underlying writer as one line.
// Sink is safe for concurrent use by multiple worker goroutines sharing
// one Counters.
type Sink struct {
	Counters *Counters
	W        io.Writer
}

// Candidate implements check.Sink.
func (s Sink) Candidate(d, z uint64, negative bool) {
	s.Counters.AddCandidate(1)
	if s.W == nil {
		return
	}
	sign := ""
	if negative {
		sign = "-"
	}
	fmt.Fprintf(s.W, "candidate d=%d z=%s%d\n", d, sign, z)
}

// Logger writes the one-line-per-prime progress report, and optionally
// cross-checks a resumed/comparison run's expected totals against what
// was actually produced.
type Logger struct {
	W io.Writer
}

// LogPrime writes one progress line for prime p using plain
// fmt.Printf-style formatting rather than a structured log framework.
func (l Logger) LogPrime(p uint64, c Snapshot) {
	if l.W == nil {
		return
	}
	fmt.Fprintf(l.W, "p=%d pcnt=%d ccnt=%d dcnt=%d rcnt=%d\n", p, c.Pcnt, c.Ccnt, c.Dcnt, c.Rcnt)
}

// CrossCheck compares a resumed or repeated run's actual totals against
// the expected totals supplied on the command line: if pcnt/ccnt/dcnt/rcnt
// were all supplied, the run cross-checks totals and flags any mismatch.
func CrossCheck(expected, actual Snapshot) error {
	if expected == (Snapshot{}) {
		return nil
	}
	if expected != actual {
		return fmt.Errorf("report: counter mismatch: expected %+v, got %+v", expected, actual)
	}
	return nil
}
