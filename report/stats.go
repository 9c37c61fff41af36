package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/montanaflynn/stats"
)

// Timings collects per-prime processing durations (in seconds) so a run
// can print a mean/median/p95 summary at shutdown, supplementing the bare
// pcnt/ccnt/dcnt/rcnt counters with the kind of profiling summary real
// search runs of this kind publish.
type Timings struct {
	mu      sync.Mutex
	samples []float64
}

// Record appends one observation.
func (t *Timings) Record(seconds float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, seconds)
}

// Summary computes mean, median and p95 of every recorded sample via
// github.com/montanaflynn/stats, matching the teacher's go.mod direct
// dependency on that package.
func (t *Timings) Summary() (mean, median, p95 float64, err error) {
	t.mu.Lock()
	samples := append([]float64(nil), t.samples...)
	t.mu.Unlock()

	if len(samples) == 0 {
		return 0, 0, 0, nil
	}
	if mean, err = stats.Mean(samples); err != nil {
		return 0, 0, 0, fmt.Errorf("report: mean: %w", err)
	}
	if median, err = stats.Median(samples); err != nil {
		return 0, 0, 0, fmt.Errorf("report: median: %w", err)
	}
	if p95, err = stats.Percentile(samples, 95); err != nil {
		return 0, 0, 0, fmt.Errorf("report: p95: %w", err)
	}
	return mean, median, p95, nil
}

// WriteSummary prints the timing summary to w, one line, or nothing if no
// samples were recorded.
func (t *Timings) WriteSummary(w io.Writer) error {
	mean, median, p95, err := t.Summary()
	if err != nil {
		return err
	}
	if mean == 0 && median == 0 && p95 == 0 {
		return nil
	}
	fmt.Fprintf(w, "timings: mean=%.6fs median=%.6fs p95=%.6fs\n", mean, median, p95)
	return nil
}
