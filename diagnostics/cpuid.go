// Package diagnostics prints a one-time startup capability report: CPU
// features relevant to the batch-inverse width worth using, GOMAXPROCS,
// and the worker count "cores=0 means use all logical processors"
// resolved to.
package diagnostics

import (
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Report is a snapshot of the run's execution environment.
type Report struct {
	Cores       int
	GOMAXPROCS  int
	HasADX      bool
	HasBMI2     bool
	BrandName   string
	LogicalCPUs int
}

// Capture builds a Report for a run that resolved to the given worker
// count (post "0 means all logical processors" resolution).
func Capture(resolvedCores int) Report {
	return Report{
		Cores:       resolvedCores,
		GOMAXPROCS:  runtime.GOMAXPROCS(0),
		HasADX:      cpuid.CPU.Supports(cpuid.ADX),
		HasBMI2:     cpuid.CPU.Supports(cpuid.BMI2),
		BrandName:   cpuid.CPU.BrandName,
		LogicalCPUs: cpuid.CPU.LogicalCores,
	}
}

// Write prints the report as a single log line.
func (r Report) Write(w io.Writer) {
	fmt.Fprintf(w, "diagnostics: cores=%d gomaxprocs=%d cpu=%q logical=%d adx=%t bmi2=%t\n",
		r.Cores, r.GOMAXPROCS, r.BrandName, r.LogicalCPUs, r.HasADX, r.HasBMI2)
}

// ResolveCores resolves the cores setting: a non-negative integer where 0
// means use all logical processors.
func ResolveCores(requested int) int {
	if requested > 0 {
		return requested
	}
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
