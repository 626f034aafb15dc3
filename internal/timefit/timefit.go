package timefit

import (
	"errors"
	"time"
)

// Sample is one timed run of a workload at a fixed iteration count.
type Sample struct {
	Iterations int
	Elapsed    time.Duration
}

// Options controls the measurement schedule in Bench.
type Options struct {
	// TimeBudget bounds the cumulative time spent collecting samples.
	// At least two samples are always collected, even over budget.
	TimeBudget time.Duration
	// MaxIterations caps the doubling schedule.
	MaxIterations int
}

// DefaultOptions matches the historical benchmark behavior: roughly one
// second of sampling per test.
func DefaultOptions() Options {
	return Options{
		TimeBudget:    time.Second,
		MaxIterations: 1 << 24,
	}
}

var (
	// ErrTooFewSamples is returned when fewer than two distinct
	// iteration counts were measured.
	ErrTooFewSamples = errors.New("timefit: need at least two samples")
)

// Fit estimates elapsed ≈ slope*iterations + bias by least squares,
// weighting each sample by its iteration count so that the large,
// steady-state runs dominate and warm-up noise in the early samples
// cancels out. Slope and bias are in seconds.
func Fit(samples []Sample) (slope, bias float64, err error) {
	if len(samples) < 2 {
		return 0, 0, ErrTooFewSamples
	}

	var wsum, xmean, ymean float64
	for _, s := range samples {
		w := float64(s.Iterations)
		wsum += w
		xmean += w * float64(s.Iterations)
		ymean += w * s.Elapsed.Seconds()
	}
	xmean /= wsum
	ymean /= wsum

	var num, den float64
	for _, s := range samples {
		w := float64(s.Iterations)
		dx := float64(s.Iterations) - xmean
		num += w * dx * (s.Elapsed.Seconds() - ymean)
		den += w * dx * dx
	}
	if den == 0 {
		return 0, 0, ErrTooFewSamples
	}

	slope = num / den
	bias = ymean - slope*xmean
	return slope, bias, nil
}

// Bench runs workload at geometrically increasing iteration counts,
// collects (count, elapsed) pairs and fits a line through them. The
// workload is called once untimed first to absorb one-time setup cost.
func Bench(workload func(iterations int), opts Options) (slope, bias float64, err error) {
	samples, err := Collect(workload, opts)
	if err != nil {
		return 0, 0, err
	}
	return Fit(samples)
}

// Collect gathers the raw timing samples used by Bench. Iteration counts
// in the result are strictly increasing.
func Collect(workload func(iterations int), opts Options) ([]Sample, error) {
	if opts.TimeBudget <= 0 {
		opts.TimeBudget = DefaultOptions().TimeBudget
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}

	// Warm-up pass, untimed.
	workload(1)

	var samples []Sample
	var spent time.Duration
	for iters := 1; iters <= opts.MaxIterations; iters *= 2 {
		start := time.Now()
		workload(iters)
		elapsed := time.Since(start)
		if elapsed < 0 {
			elapsed = 0
		}
		samples = append(samples, Sample{Iterations: iters, Elapsed: elapsed})
		spent += elapsed
		if spent > opts.TimeBudget && len(samples) >= 2 {
			break
		}
	}
	if len(samples) < 2 {
		return nil, ErrTooFewSamples
	}
	return samples, nil
}

// Rate converts a fitted slope into the reported metric. When inverse is
// false the metric is time per operation (coefficient * slope); when true
// it is operations per time (coefficient / slope). Timing noise can drive
// the fitted slope negative; both forms report 0 then, never a negative
// rate.
func Rate(coefficient, slope float64, inverse bool) float64 {
	if slope <= 0 {
		return 0
	}
	if inverse {
		return coefficient / slope
	}
	return coefficient * slope
}
