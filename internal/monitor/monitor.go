// Package monitor re-runs the diagnostic suite on an interval and
// serves the latest results as Prometheus metrics.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"platdiag/internal/history"
	"platdiag/internal/metrics"
)

// Runner executes one pass of the diagnostics and returns its results.
type Runner func(ctx context.Context) ([]history.Result, error)

// Config holds the monitor settings.
type Config struct {
	Interval time.Duration
	Listen   string
}

// Monitor owns the ticker loop and the metrics endpoint.
type Monitor struct {
	cfg     Config
	run     Runner
	Metrics *metrics.Metrics
}

// New builds a monitor around run.
func New(cfg Config, run Runner) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &Monitor{cfg: cfg, run: run, Metrics: metrics.New()}
}

// Start runs one pass immediately, then one per interval until ctx is
// cancelled. When cfg.Listen is non-empty the metrics endpoint is served
// for the duration.
func (m *Monitor) Start(ctx context.Context) error {
	var srv *http.Server
	if m.cfg.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Metrics.Handler())
		srv = &http.Server{Addr: m.cfg.Listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("monitor: metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	m.runOnce(ctx)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) {
	start := time.Now()
	results, err := m.run(ctx)
	if err != nil {
		log.Printf("monitor: suite run failed: %v", err)
		m.Metrics.ObserveError()
		return
	}
	m.Metrics.Observe(results, time.Since(start))
	log.Printf("monitor: suite run completed, %d results in %v", len(results), time.Since(start))
}

// Validate checks the configuration before starting.
func (c Config) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("monitor: interval must be non-negative, got %v", c.Interval)
	}
	return nil
}
