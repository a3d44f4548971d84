// Package runner hosts plugins around a `go test -json` event stream.
//
// The host turns test2json events into the lifecycle a test framework gives
// its plugins: Begin, then for every finished test BeforeTest, one of
// AddSuccess/AddFailure/AddError, and AfterTest, and finally Finalize with
// the run's result. Tests are handed to plugins when their outcome is
// known, so output can be deferred until then.
package runner

import (
	"io"
	"sort"

	"github.com/spf13/pflag"

	"github.com/harrison/specdox/internal/models"
)

// Options are host settings plugins may adjust in Configure.
type Options struct {
	// Verbosity selects the host's own per-test output: 0 prints nothing,
	// 1 prints one status character per test, 2 and above print each
	// test's output lines.
	Verbosity int
}

// Plugin is the contract between the host and its plugins.
type Plugin interface {
	Name() string
	// Score orders plugins: higher scores run first.
	Score() int
	// Options registers the plugin's command-line flags.
	Options(flags *pflag.FlagSet)
	// Configure is called once flags are parsed.
	Configure(opts *Options) error
	Enabled() bool

	Begin()
	// SetOutputStream may wrap the host writer. The returned writer is
	// what the host (and later plugins) write to.
	SetOutputStream(w io.Writer) io.Writer
	BeforeTest(tc *models.TestCase)
	AddSuccess(tc *models.TestCase)
	AddFailure(tc *models.TestCase, err error)
	AddError(tc *models.TestCase, err error)
	AfterTest(tc *models.TestCase)
	Finalize(result *models.Result) error
}

// BasePlugin implements every hook as a no-op. Embed it and override the
// hooks you need.
type BasePlugin struct{}

func (BasePlugin) Options(*pflag.FlagSet)                {}
func (BasePlugin) Configure(*Options) error              { return nil }
func (BasePlugin) Begin()                                {}
func (BasePlugin) SetOutputStream(w io.Writer) io.Writer { return w }
func (BasePlugin) BeforeTest(*models.TestCase)           {}
func (BasePlugin) AddSuccess(*models.TestCase)           {}
func (BasePlugin) AddFailure(*models.TestCase, error)    {}
func (BasePlugin) AddError(*models.TestCase, error)      {}
func (BasePlugin) AfterTest(*models.TestCase)            {}
func (BasePlugin) Finalize(*models.Result) error         { return nil }

// SortPlugins orders plugins by descending score, keeping registration
// order for equal scores.
func SortPlugins(plugins []Plugin) {
	sort.SliceStable(plugins, func(i, j int) bool {
		return plugins[i].Score() > plugins[j].Score()
	})
}

// Enabled filters plugins down to the enabled ones.
func Enabled(plugins []Plugin) []Plugin {
	var out []Plugin
	for _, p := range plugins {
		if p.Enabled() {
			out = append(out, p)
		}
	}
	return out
}
