// Package spec narrates a test run as a specification.
//
// A test like
//
//	func TestFoobar(t *testing.T) {
//		t.Run("can be automatically documented", ...)
//		t.Run("is a singleton", ...)
//	}
//
// is printed as
//
//	Foobar
//	- can be automatically documented
//	- is a singleton
//
// Top-level tests without subtests are grouped under their package name,
// TestFoobar_IsASingleton style tests under Foobar, unnamed subtests read
// "holds for case #NN", and a doc comment on the test function replaces the
// generated name. Runnable examples contribute their documented statements
// when examples are enabled.
package spec

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/harrison/specdox/internal/describe"
	"github.com/harrison/specdox/internal/display"
	"github.com/harrison/specdox/internal/models"
	"github.com/harrison/specdox/internal/runner"
)

// Score puts the plugin ahead of plugins that handle skipped tests.
const Score = 1100

// Environment variables providing flag defaults.
const (
	EnvColor    = "SPECDOX_COLOR"
	EnvExamples = "SPECDOX_EXAMPLES"
)

// Statuses printed after a spec.
const (
	StatusFailed     = "FAILED"
	StatusError      = "ERROR"
	StatusSkipped    = "SKIPPED"
	StatusDeprecated = "DEPRECATED"
)

// Defaults seed the plugin's flags before the environment is consulted.
type Defaults struct {
	Enabled  bool
	Color    bool
	Examples bool
}

// Listener is told about every spec line the plugin prints.
type Listener interface {
	SpecPrinted(context, spec, status string)
}

// Spec is the specification plugin.
type Spec struct {
	runner.BasePlugin

	enabled  bool
	color    bool
	examples bool
	getenv   func(string) string

	colorize       func(display.Color) display.Colorizer
	stream         *display.SpecStream
	currentContext any
	contextTitle   string
	listeners      []Listener
}

// New creates the plugin. getenv defaults to os.Getenv.
func New(defaults Defaults, getenv func(string) string) *Spec {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Spec{
		enabled:  defaults.Enabled,
		color:    defaults.Color,
		examples: defaults.Examples,
		getenv:   getenv,
		colorize: display.Palette(false),
	}
}

// AddListener registers l for spec lines.
func (s *Spec) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Spec) Name() string  { return "spec" }
func (s *Spec) Score() int    { return Score }
func (s *Spec) Enabled() bool { return s.enabled }

// Options registers --with-spec, --spec-color and --spec-examples.
func (s *Spec) Options(flags *pflag.FlagSet) {
	flags.BoolVar(&s.enabled, "with-spec", s.enabled,
		"Narrate the run as a specification")
	flags.BoolVar(&s.color, "spec-color", s.envBool(EnvColor, s.color),
		"Show colored (red/green) output for specifications ["+EnvColor+"]")
	flags.BoolVar(&s.examples, "spec-examples", s.envBool(EnvExamples, s.examples),
		"Include runnable examples in specifications ["+EnvExamples+"]")
}

// ApplyDefaults re-seeds the color and example flags the user left unset.
// The environment still takes precedence over d.
func (s *Spec) ApplyDefaults(d Defaults, flags *pflag.FlagSet) {
	if !flags.Changed("spec-color") {
		s.color = s.envBool(EnvColor, d.Color)
	}
	if !flags.Changed("spec-examples") {
		s.examples = s.envBool(EnvExamples, d.Examples)
	}
}

// Configure raises the host verbosity so the host produces per-test output
// the plugin can suppress, and selects the color palette.
func (s *Spec) Configure(opts *runner.Options) error {
	if s.enabled && opts.Verbosity < 2 {
		opts.Verbosity = 2
	}
	s.colorize = display.Palette(s.color)
	return nil
}

// ExamplesEnabled reports whether example specs are printed.
func (s *Spec) ExamplesEnabled() bool {
	return s.examples
}

func (s *Spec) Begin() {
	s.currentContext = nil
	s.contextTitle = ""
}

// SetOutputStream wraps the host writer; the host writes through the
// returned stream so its own output can be switched off.
func (s *Spec) SetOutputStream(w io.Writer) io.Writer {
	s.stream = display.NewSpecStream(w)
	return s.stream
}

// BeforeTest prints the test's context when it differs from the previous
// one and silences the host while the test is reported.
func (s *Spec) BeforeTest(tc *models.TestCase) {
	context := describe.TestContext(tc)
	if context != s.currentContext {
		s.printContext(context)
		s.currentContext = context
	}
	s.stream.Off()
}

func (s *Spec) AddSuccess(tc *models.TestCase) {
	s.printSpec(display.Green, tc, "")
}

func (s *Spec) AddFailure(tc *models.TestCase, err error) {
	s.printSpec(display.Red, tc, StatusFailed)
}

// AddError tells skipped and deprecated tests apart from real errors.
func (s *Spec) AddError(tc *models.TestCase, err error) {
	rules := []describe.Rule[func()]{
		{Match: describe.ErrorAs[*models.DeprecatedError](), Describe: s.printer(display.Yellow, tc, StatusDeprecated)},
		{Match: describe.ErrorAs[*models.SkipError](), Describe: s.printer(display.Yellow, tc, StatusSkipped)},
		{Match: describe.Always, Describe: s.printer(display.Red, tc, StatusError)},
	}
	if report, ok := describe.Dispatch(rules, err); ok {
		report()
	}
}

// AfterTest starts capturing, so whatever the host prints after the last
// test (its summary) can be shown in Finalize.
func (s *Spec) AfterTest(tc *models.TestCase) {
	s.stream.Capture()
}

// Finalize prints what was captured after the tests and reports the first
// failed write of the run.
func (s *Spec) Finalize(result *models.Result) error {
	s.stream.On()
	if err := s.stream.Writeln(s.stream.Captured()); err != nil {
		return err
	}
	return s.stream.Err()
}

func (s *Spec) printer(color display.Color, tc *models.TestCase, status string) func(any) func() {
	return func(any) func() {
		return func() { s.printSpec(color, tc, status) }
	}
}

func (s *Spec) printContext(context any) {
	if _, ok := context.(describe.ExampleContext); ok && !s.examples {
		return
	}
	s.contextTitle = describe.ContextDescription(context)
	s.stream.PrintContext(context)
}

func (s *Spec) printSpec(color display.Color, tc *models.TestCase, status string) {
	if tc.Kind() == models.KindExample && !s.examples {
		return
	}
	for _, spec := range s.stream.PrintSpec(s.colorize(color), tc, status) {
		for _, l := range s.listeners {
			l.SpecPrinted(s.contextTitle, spec, status)
		}
	}
}

func (s *Spec) envBool(name string, fallback bool) bool {
	v := strings.TrimSpace(s.getenv(name))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		// any other non-empty value switches the option on
		return true
	}
	return b
}
