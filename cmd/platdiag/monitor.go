package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"platdiag/internal/gfx"
	"platdiag/internal/history"
	"platdiag/internal/monitor"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	monitorInterval time.Duration
	monitorListen   string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Re-run the benchmark suite periodically and export metrics",
	Long: `Runs the glbench suite once per interval and exports the latest
results as Prometheus gauges on /metrics. SIGINT or SIGTERM stops the
loop and shuts the endpoint down gracefully.`,
	SilenceUsage: true,
	RunE:         runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "Time between suite runs (default from config)")
	monitorCmd.Flags().StringVar(&monitorListen, "listen", "", "Metrics listen address (default from config)")
}

// monitorConfig resolves flags against configured defaults.
func monitorConfig() monitor.Config {
	cfg := monitor.Config{Interval: monitorInterval, Listen: monitorListen}
	if cfg.Interval == 0 {
		cfg.Interval = viper.GetDuration("monitor.interval")
	}
	if cfg.Listen == "" {
		cfg.Listen = viper.GetString("monitor.listen")
	}
	return cfg
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg := monitorConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	suite := gfx.NewSuite(viper.GetInt("glbench.width"), viper.GetInt("glbench.height"))
	runner := func(ctx context.Context) ([]history.Result, error) {
		results, err := suite.Run(io.Discard, nil, 0, glbenchOptions())
		if err != nil {
			return nil, err
		}
		return toHistory(results), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Monitoring every %v, metrics on %s\n", cfg.Interval, cfg.Listen)
	return monitor.New(cfg, runner).Start(ctx)
}
