// Command cubesearch searches for representations k = x^3 + y^3 + z^3 by
// enumerating admissible divisors d = x+y and walking the resulting
// arithmetic progressions for z. See SPEC_FULL.md for the full module
// layout this wires together.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/snakehand-port/cubesearch/check"
	"github.com/snakehand-port/cubesearch/checkpoint"
	"github.com/snakehand-port/cubesearch/config"
	"github.com/snakehand-port/cubesearch/coordinator"
	"github.com/snakehand-port/cubesearch/diagnostics"
	"github.com/snakehand-port/cubesearch/phase"
	"github.com/snakehand-port/cubesearch/report"
	"github.com/snakehand-port/cubesearch/sieve"
	"github.com/snakehand-port/cubesearch/tables"
	"github.com/snakehand-port/cubesearch/worker"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code, keeping main itself free of any
// control flow so os.Exit can't skip deferred cleanup (the teacher's own
// cmd-style entry points follow the same run()-returns-int shape).
func run() int {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cores := diagnostics.ResolveCores(cfg.Cores)
	diagnostics.Capture(cores).Write(os.Stdout)

	tb, err := tables.LoadTables(cfg.K, cfg.Dmax, cfg.Pmin, cfg.Pmax)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tables:", err)
		return 1
	}

	if cfg.PhaseLimit < 6 {
		// The restricted [options] tail selects a precompute-only
		// diagnostic run: tables are built and reported, no search is run.
		fmt.Fprintf(os.Stdout, "tables loaded: cpmax=%d cdmin=%d sdmin=%d pdmin=%d bpmin=%d (options=%d, search skipped)\n",
			tb.Cpmax, tb.Cdmin, tb.Sdmin, tb.Pdmin, tb.Bpmin, cfg.PhaseLimit)
		return 0
	}

	counters := &report.Counters{}
	sink := report.Sink{Counters: counters, W: os.Stdout}
	disp := phase.NewDispatcher(tb, check.DefaultOne{}, check.DefaultFew{}, check.NewDefaultLift(nil), sink, cfg.ZmaxHi, cfg.ZmaxLo)

	drivers := make([]*worker.Driver, cores)
	for i := range drivers {
		drivers[i] = worker.NewDriver(tb, disp, counters)
		drivers[i].P0 = cfg.SubprimeP0
	}

	if cfg.SubprimeP0 != 0 {
		runSubprime(drivers[0], cfg)
		final := counters.Snapshot()
		report.Logger{W: os.Stdout}.LogPrime(cfg.Pmax, final)
		if err := report.CrossCheck(cfg.Expect, final); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	from := cfg.Pmin
	if cfg.CheckpointPath != "" {
		if resumed, ok := loadResume(cfg); ok {
			from = resumed
		}
	}

	timings := &report.Timings{}
	coord := coordinator.New(drivers, counters, report.Logger{W: os.Stdout})
	coord.Pmin, coord.Pmax, coord.Dmax = cfg.Pmin, cfg.Pmax, cfg.Dmax
	coord.ZmaxHi, coord.ZmaxLo = cfg.ZmaxHi, cfg.ZmaxLo
	coord.CheckpointPath = cfg.CheckpointPath
	coord.CheckpointEvery = 10000
	coord.Timings = timings

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := coord.Run(ctx, from); err != nil {
		fmt.Fprintln(os.Stderr, "search:", err)
		return 1
	}

	final := counters.Snapshot()
	report.Logger{W: os.Stdout}.LogPrime(cfg.Pmax, final)
	_ = timings.WriteSummary(os.Stdout)
	if err := report.CrossCheck(cfg.Expect, final); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// runSubprime drives subprime (p0×q) mode on a single driver: p0 is
// fixed for the whole run, so there is only one outer root set to share,
// and the inner primes q (the sieve feed over [pmin/p0, pmax/p0]) are
// processed serially. Unlike the ordinary N-worker coordinator, subprime
// mode runs are small enough (bounded by q's range, not d's) that the
// extra complexity of a sharded worker pool isn't grounded in anything
// the teacher or pack shows for a comparably narrow sweep.
func runSubprime(d *worker.Driver, cfg *config.Config) {
	p0Roots := d.P0Roots()
	qMin, qMax := cfg.Pmin/cfg.SubprimeP0, cfg.Pmax/cfg.SubprimeP0
	f := sieve.NewFeeder(qMin, qMax)
	for {
		q, ok := f.Next()
		if !ok {
			break
		}
		d.ProcessSubprime(q, p0Roots)
	}
}

// loadResume loads an existing checkpoint, if any, and validates it
// against cfg's parameters. A missing checkpoint file is not an error —
// the run simply starts from cfg.Pmin.
func loadResume(cfg *config.Config) (uint64, bool) {
	s, err := checkpoint.Load(cfg.CheckpointPath)
	if err != nil {
		return 0, false
	}
	next, err := checkpoint.Resume(s, cfg.Pmin, cfg.Pmax, cfg.Dmax, cfg.ZmaxHi, cfg.ZmaxLo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "checkpoint:", err, "— starting fresh")
		return 0, false
	}
	return next, true
}
