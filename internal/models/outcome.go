package models

import (
	"fmt"
	"time"
)

// SkipError reports a test that called t.Skip.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	if e.Reason == "" {
		return "skipped"
	}
	return "skipped: " + e.Reason
}

// DeprecatedError reports a test skipped because it is deprecated.
type DeprecatedError struct {
	Reason string
}

func (e *DeprecatedError) Error() string {
	return "deprecated: " + e.Reason
}

// PanicError reports a test that panicked.
type PanicError struct {
	Message string
}

func (e *PanicError) Error() string {
	return "panic: " + e.Message
}

// BuildError reports a package that failed to build or whose test binary
// failed outside of any test.
type BuildError struct {
	Package string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("package %s failed outside of its tests", e.Package)
}

// Failure is a reported failure or error together with its test.
type Failure struct {
	Test *TestCase
	Err  error // nil for plain assertion failures
}

// Result aggregates the outcome of a run.
type Result struct {
	TestsRun   int           // Tests that reached a terminal state
	Failures   []Failure     // Tests that failed
	Errors     []Failure     // Tests that panicked, or packages that did not build
	Skipped    int           // Tests skipped with t.Skip
	Deprecated int           // Tests skipped as deprecated
	Duration   time.Duration // Wall time between first and last event
}

// WasSuccessful reports whether no test failed or errored.
func (r *Result) WasSuccessful() bool {
	return len(r.Failures) == 0 && len(r.Errors) == 0
}
