package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harrison/specdox/internal/models"
)

// Names given to the synthetic tests standing in for package failures.
const (
	BuildFailedTest = "[build failed]"
	SetupFailedTest = "[setup failed]"
)

// SourceLookup finds doc comments and examples for a package.
type SourceLookup interface {
	Lookup(ctx context.Context, importPath string) *models.SourceInfo
}

// Logger receives host diagnostics.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// outcome is how a finished test is reported to plugins.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeError
)

type testState struct {
	output         []string
	children       int
	failedChildren int
}

type packageState struct {
	tests       map[string]*testState
	output      []string // package-level output, outside of any test
	buildOutput []string
	failedTests int
}

func (ps *packageState) test(name string) *testState {
	st, ok := ps.tests[name]
	if !ok {
		st = &testState{}
		ps.tests[name] = st
	}
	return st
}

// Host replays a test2json stream as plugin lifecycle calls.
// A Host is single use and is driven from one goroutine.
type Host struct {
	plugins []Plugin
	active  []Plugin
	opts    Options
	out     io.Writer
	stream  io.Writer
	lookup  SourceLookup
	logger  Logger
	now     func() time.Time

	packages     map[string]*packageState
	summaryLines []string
	writeErr     error
	result       models.Result
	first, last  time.Time
}

// NewHost creates a host writing to out. lookup and logger may be nil.
func NewHost(out io.Writer, plugins []Plugin, opts Options, lookup SourceLookup, logger Logger) *Host {
	return &Host{
		plugins:  plugins,
		opts:     opts,
		out:      out,
		lookup:   lookup,
		logger:   logger,
		now:      time.Now,
		packages: make(map[string]*packageState),
	}
}

// Options returns the host options as adjusted by plugins.
func (h *Host) Options() Options {
	return h.opts
}

// Run configures the plugins, consumes events from r until EOF and returns
// the result of the run. Plugin errors from Finalize are returned together
// with the result.
func (h *Host) Run(ctx context.Context, r io.Reader) (*models.Result, error) {
	for _, p := range h.plugins {
		if err := p.Configure(&h.opts); err != nil {
			return nil, fmt.Errorf("failed to configure plugin %s: %w", p.Name(), err)
		}
	}
	h.active = Enabled(h.plugins)
	SortPlugins(h.active)

	for _, p := range h.active {
		p.Begin()
	}
	h.stream = h.out
	for _, p := range h.active {
		h.stream = p.SetOutputStream(h.stream)
	}

	started := h.now()
	if err := h.consume(ctx, r); err != nil {
		return nil, err
	}

	h.result.Duration = h.last.Sub(h.first)
	if h.first.IsZero() || h.last.IsZero() {
		h.result.Duration = h.now().Sub(started)
	}

	h.writeSummary()

	errs := []error{h.writeErr}
	for _, p := range h.active {
		if err := p.Finalize(&h.result); err != nil {
			errs = append(errs, fmt.Errorf("plugin %s: %w", p.Name(), err))
		}
	}

	result := h.result
	return &result, errors.Join(errs...)
}

func (h *Host) consume(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			h.handleLine(ctx, line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read test events: %w", err)
		}
	}
}

// handleLine decodes one JSON event. Anything else is forwarded as raw output.
func (h *Host) handleLine(ctx context.Context, line []byte) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return
	}

	var ev models.Event
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &ev) != nil || ev.Action == "" {
		h.writeRaw(string(trimmed) + "\n")
		return
	}
	h.handleEvent(ctx, ev)
}

func (h *Host) handleEvent(ctx context.Context, ev models.Event) {
	if !ev.Time.IsZero() {
		if h.first.IsZero() {
			h.first = ev.Time
		}
		h.last = ev.Time
	}

	switch ev.Action {
	case models.ActionBuildOutput:
		ps := h.pkg(ev.ImportPath)
		ps.buildOutput = append(ps.buildOutput, ev.Output)
		return
	case models.ActionBuildFail:
		h.debugf("build failed for %s", ev.ImportPath)
		return
	}

	if ev.IsPackageEvent() {
		h.handlePackageEvent(ctx, ev)
		return
	}

	ps := h.pkg(ev.Package)
	switch ev.Action {
	case models.ActionRun:
		ps.test(ev.Test)
		if parent := models.ParentName(ev.Test); parent != "" {
			ps.test(parent).children++
		}
	case models.ActionOutput:
		st := ps.test(ev.Test)
		st.output = append(st.output, ev.Output)
	case models.ActionPass, models.ActionFail, models.ActionSkip:
		h.finishTest(ctx, ps, ev)
	}
}

func (h *Host) handlePackageEvent(ctx context.Context, ev models.Event) {
	ps := h.pkg(ev.Package)

	switch ev.Action {
	case models.ActionOutput:
		if isSummaryLine(ev.Output) {
			h.summaryLines = append(h.summaryLines, strings.TrimRight(ev.Output, "\n"))
			return
		}
		ps.output = append(ps.output, ev.Output)
		h.writeRaw(ev.Output)
	case models.ActionFail:
		if ev.FailedBuild == "" && ps.failedTests > 0 {
			return
		}
		tc := &models.TestCase{Package: ev.Package, Name: SetupFailedTest, Output: ps.output, Elapsed: ev.Duration()}
		if ev.FailedBuild != "" {
			tc.Name = BuildFailedTest
			tc.Output = h.pkg(ev.FailedBuild).buildOutput
		}
		h.report(tc, outcomeError, &models.BuildError{Package: ev.Package})
	}
}

func (h *Host) finishTest(ctx context.Context, ps *packageState, ev models.Event) {
	st := ps.test(ev.Test)
	delete(ps.tests, ev.Test)

	if ev.Action == models.ActionFail {
		ps.failedTests++
		if parent := models.ParentName(ev.Test); parent != "" {
			ps.test(parent).failedChildren++
		}
	}

	// Tests with subtests are contexts. They only become a reportable test
	// when they failed on their own.
	if st.children > 0 && (ev.Action != models.ActionFail || st.failedChildren > 0) {
		return
	}

	tc := &models.TestCase{
		Package: ev.Package,
		Name:    ev.Test,
		Output:  st.output,
		Elapsed: ev.Duration(),
	}
	if h.lookup != nil {
		tc.Source = h.lookup.Lookup(ctx, ev.Package)
	}

	switch ev.Action {
	case models.ActionPass:
		h.report(tc, outcomeSuccess, nil)
	case models.ActionFail:
		if msg, ok := panicMessage(st.output); ok {
			h.report(tc, outcomeError, &models.PanicError{Message: msg})
		} else {
			h.report(tc, outcomeFailure, errors.New(firstLogLine(st.output, "test failed")))
		}
	case models.ActionSkip:
		reason := firstLogLine(st.output, "")
		if note, ok := tc.Deprecation(); ok {
			if reason == "" {
				reason = note
			}
			h.report(tc, outcomeError, &models.DeprecatedError{Reason: reason})
		} else if strings.HasPrefix(strings.ToLower(reason), "deprecated") {
			h.report(tc, outcomeError, &models.DeprecatedError{Reason: reason})
		} else {
			h.report(tc, outcomeError, &models.SkipError{Reason: reason})
		}
	}
}

// report runs the lifecycle hooks of one finished test.
func (h *Host) report(tc *models.TestCase, o outcome, err error) {
	for _, p := range h.active {
		p.BeforeTest(tc)
	}

	h.writeProgress(tc, o, err)
	h.result.TestsRun++

	switch o {
	case outcomeSuccess:
		for _, p := range h.active {
			p.AddSuccess(tc)
		}
	case outcomeFailure:
		h.result.Failures = append(h.result.Failures, models.Failure{Test: tc, Err: err})
		for _, p := range h.active {
			p.AddFailure(tc, err)
		}
	case outcomeError:
		var skip *models.SkipError
		var deprecated *models.DeprecatedError
		switch {
		case errors.As(err, &deprecated):
			h.result.Deprecated++
		case errors.As(err, &skip):
			h.result.Skipped++
		default:
			h.result.Errors = append(h.result.Errors, models.Failure{Test: tc, Err: err})
		}
		for _, p := range h.active {
			p.AddError(tc, err)
		}
	}

	for _, p := range h.active {
		p.AfterTest(tc)
	}
}

func (h *Host) pkg(importPath string) *packageState {
	ps, ok := h.packages[importPath]
	if !ok {
		ps = &packageState{tests: make(map[string]*testState)}
		h.packages[importPath] = ps
	}
	return ps
}

// writeRaw keeps going after a failed write and remembers the first error
// for Run to return.
func (h *Host) writeRaw(text string) {
	if _, err := io.WriteString(h.stream, text); err != nil && h.writeErr == nil {
		h.writeErr = fmt.Errorf("failed to write output: %w", err)
	}
}

func (h *Host) debugf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Debugf(format, args...)
	}
}

// isSummaryLine matches the per-package result lines go test prints.
func isSummaryLine(line string) bool {
	for _, prefix := range []string{"ok  \t", "FAIL\t", "?   \t"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
