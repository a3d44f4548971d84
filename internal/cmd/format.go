package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/specdox/internal/journal"
)

// NewFormatCommand creates the format command
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [file|-]",
		Short: "Narrate a recorded go test -json stream",
		Long: `Narrate an existing go test -json event stream.

The stream is read from the given file, from standard input when the
argument is -, or from the latest journal when no argument is given.

Examples:
  go test -json ./... | specdox format -
  specdox format .specdox/journal/run-20260115-093000-1a2b3c4d.jsonl
  specdox format --spec-color`,
		Args: cobra.MaximumNArgs(1),
	}

	n := newNarration(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		host, err := n.setup(cmd)
		if err != nil {
			return err
		}

		var in io.Reader
		if len(args) == 1 && args[0] == "-" {
			in = cmd.InOrStdin()
		} else {
			path := journal.Latest(n.cfg.JournalDir)
			if len(args) == 1 {
				path = args[0]
			}
			f, err := os.Open(path)
			if len(args) == 0 && errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no journal found in %s; run specdox run --journal first", n.cfg.JournalDir)
			}
			if err != nil {
				return fmt.Errorf("failed to open event stream: %w", err)
			}
			defer f.Close()
			in = f
			n.log.Debugf("formatting %s", path)
		}

		result, err := host.Run(cmd.Context(), in)
		if err != nil {
			return err
		}
		return n.finish(cmd, result)
	}

	return cmd
}
