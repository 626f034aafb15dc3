package main

import (
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// askOne allows mocking prompts in tests.
var askOne = survey.AskOne

// interactiveCmd makes the picker reachable by name as well as from the
// bare root command.
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Pick diagnostics to run from a menu",
	Run: func(cmd *cobra.Command, args []string) {
		RunInteractive(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive prompts for a set of diagnostics and runs them in
// order. A failing diagnostic is reported and does not stop the rest.
func RunInteractive(w io.Writer) {
	prompt := &survey.MultiSelect{
		Message: "Select diagnostics to run:",
		Options: []string{"stub", "glbench", "gbmtest", "hackbench"},
		Default: []string{"stub"},
	}

	var selected []string
	if err := askOne(prompt, &selected); err != nil {
		fmt.Fprintf(w, "Cancelled: %v\n", err)
		return
	}

	for _, name := range selected {
		fmt.Fprintf(w, "\n=== %s ===\n", name)
		if err := runDiagnostic(name); err != nil {
			fmt.Fprintf(w, "%s failed: %v\n", name, err)
		}
	}
}

// runDiagnostic executes one subcommand by name with default arguments.
func runDiagnostic(name string) error {
	cmd, _, err := rootCmd.Find([]string{name})
	if err != nil {
		return err
	}
	if cmd.RunE != nil {
		return cmd.RunE(cmd, nil)
	}
	if cmd.Run != nil {
		cmd.Run(cmd, nil)
		return nil
	}
	return fmt.Errorf("%s is not runnable", name)
}
