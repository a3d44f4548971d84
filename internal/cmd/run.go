package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/specdox/internal/display"
	"github.com/harrison/specdox/internal/journal"
	"github.com/harrison/specdox/internal/runner"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [-- go test args]",
		Short: "Run go test and narrate the results",
		Long: `Run go test -json and narrate the results as a specification.

Everything after -- is passed to go test unchanged. Without arguments the
packages ./... are tested.

Examples:
  specdox run
  specdox run -- -run TestStack ./internal/...
  specdox run --spec-examples --spec-color
  specdox run --with-spec=false -v     # plain go test -v style output
  specdox run --journal                # keep the events for specdox format
  specdox run --markdown SPEC.md --html spec.html`,
		Args: cobra.ArbitraryArgs,
	}

	n := newNarration(cmd)
	cmd.Flags().Bool("journal", false, "Store the raw event stream under the journal directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		host, err := n.setup(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{"./..."}
		}

		var j *journal.Journal
		var tee io.Writer
		if keep, _ := cmd.Flags().GetBool("journal"); keep {
			j = journal.New(n.cfg.JournalDir)
			tee = j
		}

		ctx := cmd.Context()
		n.log.Debugf("running %s test -json %v", n.cfg.GoCommand, args)

		result, err := runner.GoTest(ctx, host, n.cfg.GoCommand, args, cmd.ErrOrStderr(), tee)
		if err != nil {
			return err
		}

		if j != nil {
			path, err := j.Save(ctx)
			if err != nil {
				display.WarnJournalNotSaved(err).Display(cmd.ErrOrStderr(), nil)
			} else {
				n.log.LogInfo("journal saved to " + path)
			}
		}

		return n.finish(cmd, result)
	}

	return cmd
}
