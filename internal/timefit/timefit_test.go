package timefit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_ExactLine(t *testing.T) {
	// elapsed = 5us*iter + 20us
	var samples []Sample
	for _, n := range []int{1, 2, 4, 8, 16, 32} {
		samples = append(samples, Sample{
			Iterations: n,
			Elapsed:    time.Duration(n)*5*time.Microsecond + 20*time.Microsecond,
		})
	}

	slope, bias, err := Fit(samples)
	require.NoError(t, err)
	assert.InDelta(t, 5e-6, slope, 1e-9)
	assert.InDelta(t, 20e-6, bias, 1e-9)
}

func TestFit_WeightsFavorLargeCounts(t *testing.T) {
	// A wildly noisy first sample should barely move the fit when the
	// later samples agree on the line elapsed = 10us*iter.
	samples := []Sample{
		{Iterations: 1, Elapsed: 500 * time.Microsecond}, // warm-up junk
		{Iterations: 64, Elapsed: 640 * time.Microsecond},
		{Iterations: 128, Elapsed: 1280 * time.Microsecond},
		{Iterations: 256, Elapsed: 2560 * time.Microsecond},
	}

	slope, _, err := Fit(samples)
	require.NoError(t, err)
	assert.InDelta(t, 10e-6, slope, 0.5e-6)
}

func TestFit_TooFewSamples(t *testing.T) {
	_, _, err := Fit(nil)
	assert.ErrorIs(t, err, ErrTooFewSamples)

	_, _, err = Fit([]Sample{{Iterations: 1, Elapsed: time.Millisecond}})
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestBench_RecoversSyntheticCost(t *testing.T) {
	// Synthetic workload with a known per-call cost and fixed overhead,
	// implemented with a spin wait so timer granularity does not blur it.
	const (
		perCall  = 200 * time.Microsecond
		overhead = 2 * time.Millisecond
	)
	workload := func(iters int) {
		deadline := time.Now().Add(overhead + time.Duration(iters)*perCall)
		for time.Now().Before(deadline) {
		}
	}

	slope, bias, err := Bench(workload, Options{TimeBudget: 300 * time.Millisecond})
	require.NoError(t, err)

	assert.InDelta(t, perCall.Seconds(), slope, 0.3*perCall.Seconds(),
		"slope should recover the per-call cost")
	assert.InDelta(t, overhead.Seconds(), bias, overhead.Seconds(),
		"bias should be in the neighborhood of the fixed overhead")
}

func TestCollect_MonotoneSchedule(t *testing.T) {
	samples, err := Collect(func(int) {}, Options{TimeBudget: 10 * time.Millisecond, MaxIterations: 64})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(samples), 2)

	for i := 1; i < len(samples); i++ {
		assert.Greater(t, samples[i].Iterations, samples[i-1].Iterations)
		assert.GreaterOrEqual(t, samples[i].Elapsed, time.Duration(0))
	}
}

func TestRate(t *testing.T) {
	assert.InDelta(t, 2e-3, Rate(1e3, 2e-6, false), 1e-9) // time per op
	assert.InDelta(t, 5e8, Rate(1e3, 2e-6, true), 1)      // ops per time
	assert.Equal(t, 0.0, Rate(100, 0, true))
}

func TestRate_NegativeSlopeReportsZero(t *testing.T) {
	// A noisy fit can produce a negative slope; the reported rate must
	// never go negative in either form.
	assert.Equal(t, 0.0, Rate(1e6, -1e-8, false))
	assert.Equal(t, 0.0, Rate(1e6, -1e-8, true))
	assert.Equal(t, 0.0, Rate(1e6, 0, false))
}
