// Package config implements the command-line surface: "program-name
// cores k pmin pmax dmax zmax [options]", including the p0×q / p0×r
// subprime-mode spelling of pmin/pmax, zmax's 128-bit decimal parsing,
// and the fatal validation checks a run requires before it can start. The
// six mandatory positionals are parsed manually (the CLI surface is
// fixed-position, not flag-based); the optional developer-facing
// checkpoint path uses the flag package, mirroring the teacher's own
// flag.Bool("short", ...) style in examples/ring/vOLE/main.go.
package config

import (
	"flag"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/snakehand-port/cubesearch/report"
)

// Config is the fully validated, parsed command line.
type Config struct {
	Cores int
	K     uint64

	Pmin, Pmax uint64
	Dmax       uint64
	ZmaxHi     uint64
	ZmaxLo     uint64

	// SubprimeP0 is nonzero when pmin/pmax were spelled "p0×q"/"p0×r",
	// selecting subprime mode.
	SubprimeP0 uint64

	// PhaseLimit is the optional trailing integer in [1,6]; defaults to 6
	// (full search). Any value below 6 makes the run precompute-only: the
	// tables are loaded and reported and no search phase runs, so phases
	// are not restricted one by one. It also lifts the zmax lower-bound
	// check.
	PhaseLimit int

	// Expect holds cross-check totals supplied via pcnt=/ccnt=/dcnt=/rcnt=
	// trailing tokens; the zero value means "no cross-check requested"
	// (report.CrossCheck treats it the same way).
	Expect report.Snapshot

	CheckpointPath string
}

// zminMultiplier is the required "zmax >= 3.847322101863072639 * dmax"
// lower bound, 1/(2^(1/3)-1) to 19 significant digits.
const zminMultiplier = "3.847322101863072639"

// Parse parses and validates args (excluding the program name), returning
// a fully validated Config or a fatal configuration error. Configuration
// errors are reported to stderr and exit the process non-zero; this
// function returns the error, main decides how to exit.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("cubesearch", flag.ContinueOnError)
	checkpointPath := fs.String("checkpoint", "", "checkpoint file path")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	rest := fs.Args()
	if len(rest) < 6 {
		return nil, fmt.Errorf("config: usage: cubesearch cores k pmin pmax dmax zmax [options]")
	}

	cores, err := strconv.Atoi(rest[0])
	if err != nil || cores < 0 {
		return nil, fmt.Errorf("config: cores must be a non-negative integer, got %q", rest[0])
	}

	k, err := strconv.ParseUint(rest[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: k must be a positive integer, got %q", rest[1])
	}
	if k == 0 || k > 1000 {
		return nil, fmt.Errorf("config: k=%d must be in [1,1000]", k)
	}
	if m := k % 9; m != 3 && m != 6 {
		return nil, fmt.Errorf("config: k=%d must be ≡ 3 or 6 (mod 9)", k)
	}

	dmax, err := strconv.ParseUint(rest[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config: dmax must be a 64-bit unsigned integer, got %q", rest[4])
	}

	pmin, p0min, err := parseBoundToken(rest[2])
	if err != nil {
		return nil, fmt.Errorf("config: pmin: %w", err)
	}
	pmax, p0max, err := parseBoundToken(rest[3])
	if err != nil {
		return nil, fmt.Errorf("config: pmax: %w", err)
	}
	var p0 uint64
	switch {
	case p0min == 0 && p0max == 0:
		// ordinary mode, no subprime spelling used.
	case p0min != 0 && p0max != 0:
		if p0min != p0max {
			return nil, fmt.Errorf("config: subprime outer prime differs between pmin (%d) and pmax (%d)", p0min, p0max)
		}
		p0 = p0min
	default:
		return nil, fmt.Errorf("config: subprime mode requires both pmin and pmax spelled as p0×q")
	}
	if p0 != 0 {
		lim := isqrtBig(dmax)
		if p0 > lim {
			return nil, fmt.Errorf("config: subprime outer prime p0=%d exceeds sqrt(dmax)=%d", p0, lim)
		}
		if k%p0 == 0 {
			return nil, fmt.Errorf("config: subprime outer prime p0=%d divides k=%d", p0, k)
		}
	}

	zmaxHi, zmaxLo, err := parseZmax(rest[5])
	if err != nil {
		return nil, fmt.Errorf("config: zmax: %w", err)
	}

	cfg := &Config{
		Cores: cores, K: k,
		Pmin: pmin, Pmax: pmax, Dmax: dmax,
		ZmaxHi: zmaxHi, ZmaxLo: zmaxLo,
		SubprimeP0:     p0,
		PhaseLimit:     6,
		CheckpointPath: *checkpointPath,
	}

	tail := rest[6:]
	for _, tok := range tail {
		if n, err := strconv.Atoi(tok); err == nil {
			if n < 1 || n > 6 {
				return nil, fmt.Errorf("config: options must be in [1,6], got %d", n)
			}
			cfg.PhaseLimit = n
			continue
		}
		if err := applyExpectToken(&cfg.Expect, tok); err != nil {
			return nil, err
		}
	}

	if err := cfg.validateOrdering(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateOrdering() error {
	if c.Pmin < 2 || c.Pmin > c.Pmax || c.Pmax > c.Dmax {
		return fmt.Errorf("config: require 2 <= pmin <= pmax <= dmax, got pmin=%d pmax=%d dmax=%d", c.Pmin, c.Pmax, c.Dmax)
	}
	if c.ZmaxHi == 0 && c.ZmaxLo < c.Dmax {
		return fmt.Errorf("config: require dmax <= zmax, got dmax=%d zmax=%d", c.Dmax, c.ZmaxLo)
	}
	if c.PhaseLimit == 6 {
		if !zmaxAtLeastBound(c.ZmaxHi, c.ZmaxLo, c.Dmax) {
			return fmt.Errorf("config: zmax must be >= %s * dmax (got dmax=%d); pass a restricted options value to bypass for a precompute-only run", zminMultiplier, c.Dmax)
		}
	}
	return nil
}

// zmaxAtLeastBound reports whether the 128-bit (hi,lo) value is at least
// zminMultiplier * dmax, computed via math/big.Float at a precision well
// above the 19 significant digits in zminMultiplier.
func zmaxAtLeastBound(hi, lo, dmax uint64) bool {
	const prec = 128
	zmax := new(big.Float).SetPrec(prec).SetInt(u128(hi, lo))
	mult, _, err := big.ParseFloat(zminMultiplier, 10, prec, big.ToNearestEven)
	if err != nil {
		return true
	}
	bound := new(big.Float).SetPrec(prec).Mul(mult, new(big.Float).SetPrec(prec).SetUint64(dmax))
	return zmax.Cmp(bound) >= 0
}

func u128(hi, lo uint64) *big.Int {
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	return v
}

// parseZmax parses zmax as an unsigned decimal integer that may exceed 64
// bits, split into (hi, lo) 64-bit words.
func parseZmax(s string) (hi, lo uint64, err error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return 0, 0, fmt.Errorf("not a non-negative integer: %q", s)
	}
	if v.BitLen() > 128 {
		return 0, 0, fmt.Errorf("exceeds 128 bits: %q", s)
	}
	mask64 := new(big.Int).SetUint64(^uint64(0))
	loBig := new(big.Int).And(v, mask64)
	hiBig := new(big.Int).Rsh(v, 64)
	return hiBig.Uint64(), loBig.Uint64(), nil
}

// parseBoundToken parses either a plain uint64 or the "p0xq" subprime
// spelling (p0 × q), returning (value, p0) where p0 is 0 for the plain
// form. "x" is used instead of "×" for ASCII-only CLI input.
func parseBoundToken(s string) (value, p0 uint64, err error) {
	if i := strings.IndexAny(s, "xX"); i >= 0 {
		p0s, qs := s[:i], s[i+1:]
		p0v, err1 := strconv.ParseUint(p0s, 10, 64)
		qv, err2 := strconv.ParseUint(qs, 10, 64)
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("invalid p0×q token %q", s)
		}
		return p0v * qv, p0v, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("not an integer: %q", s)
	}
	return v, 0, nil
}

func applyExpectToken(exp *report.Snapshot, tok string) error {
	eq := strings.IndexByte(tok, '=')
	if eq < 0 {
		return fmt.Errorf("config: unrecognized trailing argument %q", tok)
	}
	key, val := tok[:eq], tok[eq+1:]
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s must be an integer, got %q", key, val)
	}
	switch key {
	case "pcnt":
		exp.Pcnt = n
	case "ccnt":
		exp.Ccnt = n
	case "dcnt":
		exp.Dcnt = n
	case "rcnt":
		exp.Rcnt = n
	default:
		return fmt.Errorf("config: unrecognized trailing argument %q", tok)
	}
	return nil
}

func isqrtBig(n uint64) uint64 {
	v := new(big.Int).Sqrt(new(big.Int).SetUint64(n))
	return v.Uint64()
}
