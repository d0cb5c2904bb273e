// ABOUTME: Entry point for coursetrack CLI application.
// ABOUTME: Loads .env, executes the root command and reports failures.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/harper/coursetrack/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("could not load .env: %v", err)))
	}

	if err := Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		}
		os.Exit(1)
	}
}
