package main

import (
	"fmt"

	"platdiag/internal/ui"

	"github.com/spf13/cobra"
)

// stubCmd is the trivial always-pass diagnostic used to validate the
// harness wiring end to end.
var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Trivial always-pass diagnostic",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Passed())
	},
}

func init() {
	rootCmd.AddCommand(stubCmd)
}
