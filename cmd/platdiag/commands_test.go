package main

import (
	"bytes"

	"github.com/spf13/cobra"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	root.SetArgs(nil)
	root.SetOut(nil)
	root.SetErr(nil)
	return buf.String(), err
}
