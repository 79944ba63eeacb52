// Package main is the entry point for the nixdeck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands"
	"github.com/thoreinstein/nixdeck/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		exitErr := errors.Classify(err)
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
}
