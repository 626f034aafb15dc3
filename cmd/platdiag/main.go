package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

func main() {
	// A crashed diagnostic must still exit non-zero with a usable trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "platdiag: panic: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	Execute()
}
