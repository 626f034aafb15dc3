package main

import (
	"fmt"

	"platdiag/internal/drm"

	"github.com/spf13/cobra"
)

// openDevice allows mocking device discovery in tests.
var openDevice = drm.Open

var gbmtestCmd = &cobra.Command{
	Use:   "gbmtest",
	Short: "Buffer allocation conformance test against a DRM node",
	Long: `Exercises dumb-buffer allocation on the first available DRM render or
card node: capability query, alloc/free, a size sweep, mmap write and
readback, PRIME export/import and destroy. Every subtest runs regardless
of earlier failures; the final verdict is the conjunction of all checks.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			return fmt.Errorf("gbmtest: %w", err)
		}
		defer dev.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Using device %s\n", dev.Name())
		if !drm.Conformance(cmd.OutOrStdout(), dev) {
			return fmt.Errorf("gbmtest: conformance checks failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gbmtestCmd)
}
