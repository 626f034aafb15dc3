package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platdiag/internal/history"
)

func TestMonitor_RunsOnTicker(t *testing.T) {
	var calls atomic.Int64
	m := New(Config{Interval: 10 * time.Millisecond}, func(ctx context.Context) ([]history.Result, error) {
		calls.Add(1)
		return []history.Result{{Name: "t", Value: float64(calls.Load())}}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Start(ctx))

	// One immediate pass plus at least a few ticks.
	assert.GreaterOrEqual(t, calls.Load(), int64(3))
	assert.Equal(t, float64(calls.Load()), testutil.ToFloat64(m.Metrics.ResultValue.WithLabelValues("t", "")))
}

func TestMonitor_CountsErrors(t *testing.T) {
	m := New(Config{Interval: time.Hour}, func(ctx context.Context) ([]history.Result, error) {
		return nil, errors.New("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	require.NoError(t, m.Start(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Metrics.RunErrorsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Metrics.RunsTotal))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Interval: time.Minute}.Validate())
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Interval: -time.Second}.Validate())
}
