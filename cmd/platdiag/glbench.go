package main

import (
	"fmt"
	"strings"
	"time"

	"platdiag/internal/gfx"
	"platdiag/internal/history"
	"platdiag/internal/timefit"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	glbenchFilters  []string
	glbenchDuration int
	glbenchSave     bool
)

// glbenchOptions allows shortening the timing schedule in tests.
var glbenchOptions = timefit.DefaultOptions

var glbenchCmd = &cobra.Command{
	Use:   "glbench",
	Short: "Run throughput micro-benchmarks (clear, fill, texture, triangle)",
	Long: `Measures the per-iteration cost of a fixed list of software rendering
workloads with a doubling-schedule timing estimator and reports each as a
"name: value" line. -t filters tests by name substring and may repeat;
-d loops the whole suite for at least the given number of seconds.`,
	SilenceUsage: true,
	RunE:         runGlbench,
}

func init() {
	rootCmd.AddCommand(glbenchCmd)
	glbenchCmd.Flags().StringArrayVarP(&glbenchFilters, "test", "t", nil, "Run only tests whose name contains this substring (repeatable)")
	glbenchCmd.Flags().IntVarP(&glbenchDuration, "duration", "d", 0, "Loop the suite for at least this many seconds")
	glbenchCmd.Flags().BoolVar(&glbenchSave, "save", false, "Save results to history")
}

func runGlbench(cmd *cobra.Command, args []string) error {
	suite := gfx.NewSuite(viper.GetInt("glbench.width"), viper.GetInt("glbench.height"))

	results, err := suite.Run(cmd.OutOrStdout(), glbenchFilters,
		time.Duration(glbenchDuration)*time.Second, glbenchOptions())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tests matched.")
		return nil
	}

	if glbenchSave {
		store, err := history.NewStore(viper.GetString("history.path"))
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(history.Run{Tool: "glbench", Results: toHistory(results)})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved as run %d\n", id)
	}
	return nil
}

func toHistory(results []gfx.Result) []history.Result {
	out := make([]history.Result, len(results))
	for i, r := range results {
		out[i] = history.Result{Name: r.Name, Value: r.Value, Unit: resultUnit(r.Name)}
	}
	return out
}

// resultUnit derives the reporting unit from the historical test naming
// convention.
func resultUnit(name string) string {
	switch {
	case strings.HasPrefix(name, "us_"):
		return "us"
	case strings.HasPrefix(name, "mpixels_sec_"):
		return "Mpixel/s"
	case strings.HasPrefix(name, "mtri_sec_"):
		return "Mtri/s"
	default:
		return ""
	}
}
