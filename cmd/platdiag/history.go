package main

import (
	"fmt"

	"platdiag/internal/history"
	"platdiag/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyTool      string
	historyThreshold float64
)

// openStore allows mocking storage in tests.
var openStore = history.NewStore

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored diagnostic runs",
}

var historyListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List stored runs and their results",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(viper.GetString("history.path"))
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.LoadAll(historyTool)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s run %d (%s)\n",
				ui.Header(run.Tool), run.ID, run.Timestamp.Format("2006-01-02 15:04:05"))
			ui.ResultTable(cmd.OutOrStdout(), run)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

var historyCompareCmd = &cobra.Command{
	Use:          "compare",
	Short:        "Compare the two most recent runs and flag regressions",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(viper.GetString("history.path"))
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.LoadAll(historyTool)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			fmt.Fprintln(cmd.OutOrStdout(), "Need at least two stored runs to compare.")
			return nil
		}

		prev, curr := runs[len(runs)-2], runs[len(runs)-1]
		comps := history.Compare(prev, curr, historyThreshold)
		ui.ComparisonTable(cmd.OutOrStdout(), comps)

		regressed := 0
		for _, c := range comps {
			if c.Regressed {
				regressed++
			}
		}
		if regressed > 0 {
			return fmt.Errorf("history: %d test(s) regressed beyond %.1f%%", regressed, historyThreshold)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyCompareCmd)

	historyCmd.PersistentFlags().StringVar(&historyTool, "tool", "glbench", "Diagnostic tool to inspect (empty for all)")
	historyCompareCmd.Flags().Float64Var(&historyThreshold, "threshold", 10.0, "Percentage drop flagged as a regression")
}
