package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"platdiag/internal/history"
)

// ResultTable writes one stored run as an aligned table.
func ResultTable(w io.Writer, run history.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TEST\tVALUE\tUNIT")
	for _, r := range run.Results {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", r.Name, r.Value, r.Unit)
	}
	tw.Flush()
}

// ComparisonTable writes the regression comparison between two runs.
func ComparisonTable(w io.Writer, comps []history.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TEST\tPREV\tCURR\tDIFF %\tSTATUS")
	for _, c := range comps {
		status := "PASS"
		if c.Regressed {
			status = regressStyle.Render("REGRESSED")
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%+.2f%%\t%s\n", c.Name, c.Prev, c.Curr, c.Diff, status)
	}
	tw.Flush()
}
