package runner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/specdox/internal/models"
)

const (
	heavyRule = "======================================================================"
	lightRule = "----------------------------------------------------------------------"
)

// logLocation matches the file:line prefix testing adds to t.Log output.
var logLocation = regexp.MustCompile(`^\S+\.go:\d+: `)

// writeProgress writes the host's own per-test line. With the spec plugin
// active the stream is switched off at this point, so it is discarded.
func (h *Host) writeProgress(tc *models.TestCase, o outcome, err error) {
	switch {
	case h.opts.Verbosity >= 2:
		if len(tc.Output) > 0 {
			h.writeRaw(tc.CombinedOutput())
			return
		}
		h.writeRaw(fmt.Sprintf("--- %s: %s (%.2fs)\n", statusWord(o, err), tc.Name, tc.Elapsed.Seconds()))
	case h.opts.Verbosity == 1:
		h.writeRaw(statusChar(o, err))
	}
}

func statusWord(o outcome, err error) string {
	switch o {
	case outcomeSuccess:
		return "PASS"
	case outcomeFailure:
		return "FAIL"
	}
	var skip *models.SkipError
	var deprecated *models.DeprecatedError
	if errors.As(err, &skip) || errors.As(err, &deprecated) {
		return "SKIP"
	}
	return "ERROR"
}

func statusChar(o outcome, err error) string {
	switch statusWord(o, err) {
	case "PASS":
		return "."
	case "FAIL":
		return "F"
	case "SKIP":
		var deprecated *models.DeprecatedError
		if errors.As(err, &deprecated) {
			return "D"
		}
		return "S"
	default:
		return "E"
	}
}

// writeSummary prints failure details, package result lines and the totals.
func (h *Host) writeSummary() {
	if h.opts.Verbosity == 1 && h.result.TestsRun > 0 {
		h.writeRaw("\n")
	}

	for _, f := range h.result.Errors {
		h.writeFailure("ERROR", f)
	}
	for _, f := range h.result.Failures {
		h.writeFailure("FAIL", f)
	}

	for _, line := range h.summaryLines {
		h.writeRaw(line + "\n")
	}

	r := h.result
	h.writeRaw(lightRule + "\n")
	plural := "s"
	if r.TestsRun == 1 {
		plural = ""
	}
	h.writeRaw(fmt.Sprintf("Ran %d test%s in %.3fs\n\n", r.TestsRun, plural, r.Duration.Seconds()))

	var infos []string
	if !r.WasSuccessful() {
		if n := len(r.Failures); n > 0 {
			infos = append(infos, fmt.Sprintf("failures=%d", n))
		}
		if n := len(r.Errors); n > 0 {
			infos = append(infos, fmt.Sprintf("errors=%d", n))
		}
	}
	if r.Skipped > 0 {
		infos = append(infos, fmt.Sprintf("skipped=%d", r.Skipped))
	}
	if r.Deprecated > 0 {
		infos = append(infos, fmt.Sprintf("deprecated=%d", r.Deprecated))
	}

	status := "OK"
	if !r.WasSuccessful() {
		status = "FAILED"
	}
	if len(infos) > 0 {
		status += " (" + strings.Join(infos, ", ") + ")"
	}
	h.writeRaw(status + "\n")
}

func (h *Host) writeFailure(flavour string, f models.Failure) {
	h.writeRaw(heavyRule + "\n")
	h.writeRaw(fmt.Sprintf("%s: %s (%s)\n", flavour, f.Test.Name, f.Test.Package))
	h.writeRaw(lightRule + "\n")

	body := strings.TrimRight(f.Test.CombinedOutput(), "\n")
	if body == "" && f.Err != nil {
		body = f.Err.Error()
	}
	h.writeRaw(body + "\n\n")
}

// panicMessage returns the message of the first "panic:" line in output.
func panicMessage(output []string) (string, bool) {
	for _, line := range output {
		trimmed := strings.TrimSpace(line)
		if msg, ok := strings.CutPrefix(trimmed, "panic: "); ok {
			return strings.TrimSuffix(msg, " [recovered]"), true
		}
	}
	return "", false
}

// firstLogLine returns the first line a test logged, without its file:line
// prefix and ignoring the framing lines go test adds.
func firstLogLine(output []string, fallback string) string {
	for _, line := range output {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "=== ") || strings.HasPrefix(trimmed, "--- ") {
			continue
		}
		return logLocation.ReplaceAllString(trimmed, "")
	}
	return fallback
}
