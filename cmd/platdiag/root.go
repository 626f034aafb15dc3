package main

import (
	"fmt"
	"os"

	"platdiag/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "platdiag",
	Short: "Platform diagnostics: scheduler, graphics and buffer tests",
	Long: `platdiag bundles the classic platform diagnostic programs as one
binary: the hackbench scheduler/IPC stress test, the glbench throughput
micro-benchmarks, the gbmtest buffer conformance test and a stub check.
Results can be stored and compared across runs to catch regressions.`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "platdiag: panic while running command: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		// Default behavior: interactive diagnostic picker.
		RunInteractive(cmd.OutOrStdout())
	}
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Load(cfgFile)
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", f)
	}
}
