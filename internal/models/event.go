package models

import (
	"strings"
	"time"
)

// Actions reported by test2json.
const (
	ActionStart       = "start"
	ActionRun         = "run"
	ActionPause       = "pause"
	ActionCont        = "cont"
	ActionPass        = "pass"
	ActionBench       = "bench"
	ActionFail        = "fail"
	ActionOutput      = "output"
	ActionSkip        = "skip"
	ActionBuildOutput = "build-output"
	ActionBuildFail   = "build-fail"
)

// Event is one record of the `go test -json` stream.
type Event struct {
	Time        time.Time `json:"Time,omitempty"`        // When the event happened
	Action      string    `json:"Action"`                // One of the Action* constants
	Package     string    `json:"Package,omitempty"`     // Import path of the package under test
	Test        string    `json:"Test,omitempty"`        // Full test name (TestFoo/sub), empty for package events
	Elapsed     float64   `json:"Elapsed,omitempty"`     // Seconds, set on pass/fail/skip
	Output      string    `json:"Output,omitempty"`      // Raw output line, including the newline
	ImportPath  string    `json:"ImportPath,omitempty"`  // Set on build-output and build-fail
	FailedBuild string    `json:"FailedBuild,omitempty"` // Package whose build failed, on package fail
}

// IsTerminal reports whether the event concludes a test or a package.
func (e Event) IsTerminal() bool {
	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		return true
	}
	return false
}

// IsPackageEvent reports whether the event belongs to the package rather
// than to a single test.
func (e Event) IsPackageEvent() bool {
	return e.Test == ""
}

// Duration converts Elapsed into a time.Duration.
func (e Event) Duration() time.Duration {
	return time.Duration(e.Elapsed * float64(time.Second))
}

// ParentName returns the name of the test that started this subtest, or
// "" for top-level tests.
func ParentName(test string) string {
	i := strings.LastIndexByte(test, '/')
	if i < 0 {
		return ""
	}
	return test[:i]
}
