package main

import (
	"platdiag/internal/fanout"

	"github.com/spf13/cobra"
)

// hackbenchWorkerCmd is the process-mode worker entry point. The parent
// re-executes this binary with the channel descriptors inherited as
// extra files; users never run it by hand.
var hackbenchWorkerCmd = &cobra.Command{
	Use:                "hackbench-worker",
	Short:              "Internal hackbench worker process",
	Hidden:             true,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fanout.WorkerMain(args)
	},
}

func init() {
	rootCmd.AddCommand(hackbenchWorkerCmd)
}
