package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrTestsFailed is returned when the narrated run was not successful.
var ErrTestsFailed = errors.New("tests failed")

// NewRootCommand creates and returns the root cobra command for specdox
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specdox",
		Short: "Narrate go test runs as a specification",
		Long: `specdox turns the output of go test into a readable specification.

Test names become sentences: TestStack with a subtest "pushes onto the top"
reads as

  Stack
  - pushes onto the top

Doc comments on test functions replace the generated sentences, and
runnable examples can be included with --spec-examples.

Configuration is loaded from .specdox/config.yaml if present.
CLI flags and SPECDOX_* environment variables override it.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main reports errors, and stays quiet for failing tests
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .specdox/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewFormatCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand prints the build version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the specdox version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "specdox version %s\n", Version)
		},
	}
}
