package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/snakehand-port/cubesearch/checkpoint"
	"github.com/snakehand-port/cubesearch/report"
	"github.com/snakehand-port/cubesearch/sieve"
	"github.com/snakehand-port/cubesearch/worker"
)

// queueDepth bounds each worker's input channel; deep enough that the
// feeder rarely blocks on a single slow worker without unbounded buffering.
const queueDepth = 64

// Coordinator runs the prime feeder and a fixed pool of worker goroutines,
// each driven by its own *worker.Driver but sharing the same underlying
// tables, dispatcher and counters read-only.
type Coordinator struct {
	Drivers  []*worker.Driver
	Counters *report.Counters
	Logger   report.Logger

	// Timings, when non-nil, records each prime's processing wall time.
	Timings *report.Timings

	// CheckpointPath, when non-empty, is written after every
	// CheckpointEvery primes the feeder hands out (0 disables periodic
	// checkpointing), and once more, marking the range complete, when Run
	// finishes without cancellation or a worker error.
	CheckpointPath  string
	CheckpointEvery uint64

	Pmin, Pmax, Dmax, ZmaxHi, ZmaxLo uint64
}

// New builds a Coordinator over drivers, one per worker goroutine; all
// drivers must share the same *tables.Tables, *phase.Dispatcher and
// *report.Counters (the caller constructs them, this package only
// schedules work across them).
func New(drivers []*worker.Driver, counters *report.Counters, logger report.Logger) *Coordinator {
	return &Coordinator{Drivers: drivers, Counters: counters, Logger: logger}
}

// Run feeds every prime in [from, c.Pmax] to the worker pool and blocks
// until either the feeder is exhausted, ctx is cancelled, or a worker
// panics while processing a prime (recovered and returned as an error
// rather than silently dropping work).
func (c *Coordinator) Run(ctx context.Context, from uint64) error {
	n := len(c.Drivers)
	if n == 0 {
		return fmt.Errorf("coordinator: no workers configured")
	}
	feeder := sieve.NewFeeder(from, c.Pmax)

	// runCtx is cancelled the moment any worker exits abnormally, so that
	// siblings and the feeder stop promptly rather than draining the rest
	// of the prime range.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chans := make([]chan uint64, n)
	for i := range chans {
		chans[i] = make(chan uint64, queueDepth)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := c.Drivers[i]
			for p := range chans[i] {
				start := time.Now()
				err := processRecovered(d, p)
				if c.Timings != nil {
					c.Timings.Record(time.Since(start).Seconds())
				}
				if err != nil {
					select {
					case errCh <- err:
					default:
					}
					cancel()
				}
			}
		}(i)
	}

	var fed uint64
feedLoop:
	for {
		p, ok := feeder.Next()
		if !ok {
			break
		}
		select {
		case <-runCtx.Done():
			break feedLoop
		default:
		}
		shard := ShardOf(p, n)
		select {
		case chans[shard] <- p:
		case <-runCtx.Done():
			break feedLoop
		}
		fed++
		if c.Logger.W != nil {
			c.Logger.LogPrime(p, c.Counters.Snapshot())
		}
		if c.CheckpointEvery > 0 && c.CheckpointPath != "" && fed%c.CheckpointEvery == 0 {
			c.saveCheckpoint(p)
		}
	}
	for _, ch := range chans {
		close(ch)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	if c.CheckpointPath != "" && ctx.Err() == nil {
		c.saveCheckpoint(sieve.Sentinel)
	}
	return ctx.Err()
}

func (c *Coordinator) saveCheckpoint(lastPrime uint64) {
	s := checkpoint.New(c.Pmin, c.Pmax, c.Dmax, c.ZmaxHi, c.ZmaxLo, 0, lastPrime)
	_ = checkpoint.Save(c.CheckpointPath, s)
}

// processRecovered runs one Process call, converting a panic into an error
// instead of bringing down the whole worker goroutine: an arithmetic
// invariant failure panics, and the coordinator surfaces it rather than
// masking it.
func processRecovered(d *worker.Driver, p uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("coordinator: worker panic processing prime %d: %v", p, r)
		}
	}()
	d.Process(p)
	return nil
}
