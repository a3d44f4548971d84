package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrison/specdox/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Failing tests were already narrated
		if !errors.Is(err, cmd.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
