package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/specdox/internal/config"
	"github.com/harrison/specdox/internal/display"
	"github.com/harrison/specdox/internal/logger"
	"github.com/harrison/specdox/internal/models"
	"github.com/harrison/specdox/internal/report"
	"github.com/harrison/specdox/internal/runner"
	"github.com/harrison/specdox/internal/source"
	"github.com/harrison/specdox/internal/spec"
)

// narration holds the plugins and flags shared by run and format.
type narration struct {
	spec    *spec.Spec
	report  *report.Report
	plugins []runner.Plugin
	verbose int

	cfg      *config.Config
	log      *logger.ConsoleLogger
	resolver *source.Resolver
}

func newNarration(cmd *cobra.Command) *narration {
	n := &narration{
		spec:   spec.New(spec.Defaults{Enabled: true}, os.Getenv),
		report: report.New(),
	}
	n.spec.AddListener(n.report)
	n.plugins = []runner.Plugin{n.spec, n.report}

	for _, p := range n.plugins {
		p.Options(cmd.Flags())
	}
	cmd.Flags().CountVarP(&n.verbose, "verbose", "v", "Increase host verbosity (repeat for more)")
	cmd.Flags().String("journal-dir", "", "Directory for run journals (default: .specdox/journal)")

	return n
}

// setup loads the configuration, merges flags and builds the host.
func (n *narration) setup(cmd *cobra.Command) (*runner.Host, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	n.cfg = cfg
	n.log = logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	out := cmd.OutOrStdout()
	n.spec.ApplyDefaults(spec.Defaults{
		Color:    cfg.ColorEnabled(fd(out)),
		Examples: cfg.Examples,
	}, cmd.Flags())

	if !n.spec.Enabled() && n.spec.ExamplesEnabled() {
		n.log.Warnf("examples are only narrated with --with-spec")
	}

	var lookup runner.SourceLookup
	if cfg.DocComments || n.spec.ExamplesEnabled() {
		n.resolver = source.NewResolver(&source.ExecCommandRunner{}, cfg.GoCommand, n.log)
		lookup = sourceLookup{resolver: n.resolver, docComments: cfg.DocComments}
	}

	n.log.Debugf("config: color=%s examples=%t doc_comments=%t go=%s",
		cfg.Color, n.spec.ExamplesEnabled(), cfg.DocComments, cfg.GoCommand)

	return runner.NewHost(out, n.plugins, runner.Options{Verbosity: 1 + n.verbose}, lookup, n.log), nil
}

// finish shows warnings about the run and maps failures to ErrTestsFailed.
func (n *narration) finish(cmd *cobra.Command, result *models.Result) error {
	stderr := cmd.ErrOrStderr()
	colorize := display.Palette(n.cfg.ColorEnabled(fd(stderr)))(display.Yellow)

	if result.TestsRun == 0 {
		display.WarnNoTests().Display(stderr, colorize)
	}
	if missing := n.resolver.Missing(); len(missing) > 0 && n.spec.ExamplesEnabled() {
		display.WarnMissingSource(missing).Display(stderr, colorize)
	}

	if !result.WasSuccessful() {
		return ErrTestsFailed
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(config.FindProjectRoot("."))
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()

	var colorPtr *string
	if flags.Changed("spec-color") {
		on, _ := flags.GetBool("spec-color")
		mode := config.ColorNever
		if on {
			mode = config.ColorAlways
		}
		colorPtr = &mode
	}

	var examplesPtr *bool
	if flags.Changed("spec-examples") {
		examples, _ := flags.GetBool("spec-examples")
		examplesPtr = &examples
	}

	var logLevelPtr *string
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		logLevelPtr = &level
	}

	var journalDirPtr *string
	if flags.Changed("journal-dir") {
		dir, _ := flags.GetString("journal-dir")
		journalDirPtr = &dir
	}

	cfg.MergeWithFlags(colorPtr, examplesPtr, logLevelPtr, journalDirPtr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sourceLookup hides doc comments when they are turned off, keeping
// examples available.
type sourceLookup struct {
	resolver    *source.Resolver
	docComments bool
}

func (l sourceLookup) Lookup(ctx context.Context, importPath string) *models.SourceInfo {
	info := l.resolver.Lookup(ctx, importPath)
	if info == nil || l.docComments {
		return info
	}
	stripped := *info
	stripped.Docs = nil
	stripped.PackageDoc = ""
	return &stripped
}

// fd returns the descriptor behind w, or an invalid one for non-files.
func fd(w io.Writer) uintptr {
	if f, ok := w.(*os.File); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}
