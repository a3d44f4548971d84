package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/specdox/internal/models"
)

func filled() *Report {
	r := New()
	r.Begin()
	r.SpecPrinted("Stack", "pushes onto the top", "")
	r.SpecPrinted("Stack", "pops from an empty stack", "FAILED")
	r.SpecPrinted("Queue_utils", "drains in order", "SKIPPED")
	return r
}

func TestMarkdownGroupsSpecsUnderContexts(t *testing.T) {
	md := string(filled().Markdown(nil))

	assert.Equal(t, strings.Join([]string{
		"# Specification",
		"",
		"## Stack",
		"",
		"- [x] pushes onto the top",
		"- [ ] pops from an empty stack (FAILED)",
		"",
		`## Queue\_utils`,
		"",
		"- [ ] drains in order (SKIPPED)",
		"",
	}, "\n"), md)
}

func TestMarkdownSummary(t *testing.T) {
	result := &models.Result{
		TestsRun: 3,
		Failures: []models.Failure{{Err: errors.New("boom")}},
		Skipped:  1,
	}

	md := string(filled().Markdown(result))
	assert.Contains(t, md, "_3 tests, 1 failed, 1 skipped_")
}

func TestMarkdownStartsNewSectionWhenContextReturns(t *testing.T) {
	r := New()
	r.SpecPrinted("A", "one", "")
	r.SpecPrinted("B", "two", "")
	r.SpecPrinted("A", "three", "")

	assert.Equal(t, 3, strings.Count(string(r.Markdown(nil)), "## "))
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain words", "plain words"},
		{"a_b", `a\_b`},
		{"[x]", `\[x\]`},
		{"<b>", `\<b\>`},
		{"#1", `\#1`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escape(tt.in))
		})
	}
}

func TestHTMLRendersTaskList(t *testing.T) {
	r := filled()
	page, err := r.HTML(r.Markdown(nil))
	require.NoError(t, err)

	html := string(page)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Specification</title>")
	assert.Contains(t, html, "<h2>Stack</h2>")
	assert.Contains(t, html, `checked="" disabled="" type="checkbox"`)
	assert.Contains(t, html, "pops from an empty stack (FAILED)")
	assert.Contains(t, html, "Queue_utils")
}

func TestEnabledFollowsFlags(t *testing.T) {
	r := New()
	assert.False(t, r.Enabled())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	r.Options(flags)
	require.NoError(t, flags.Parse([]string{"--markdown", "spec.md"}))

	assert.True(t, r.Enabled())
	assert.Equal(t, "spec.md", r.MarkdownPath)
}

func TestFinalizeWritesFiles(t *testing.T) {
	dir := t.TempDir()
	r := filled()
	r.MarkdownPath = filepath.Join(dir, "out", "spec.md")
	r.HTMLPath = filepath.Join(dir, "spec.html")

	require.NoError(t, r.Finalize(&models.Result{TestsRun: 3}))

	md, err := os.ReadFile(r.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "- [x] pushes onto the top")

	html, err := os.ReadFile(r.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h2>Stack</h2>")
}

func TestBeginResets(t *testing.T) {
	r := filled()
	r.Begin()
	assert.Equal(t, "# Specification\n", string(r.Markdown(nil)))
}
