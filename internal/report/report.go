// Package report turns the printed specification into a document: Markdown
// with task-list items, and optionally HTML rendered with goldmark.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/spf13/pflag"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/specdox/internal/filelock"
	"github.com/harrison/specdox/internal/models"
	"github.com/harrison/specdox/internal/runner"
)

// Score runs the report after the spec plugin.
const Score = 100

// DefaultTitle heads every document.
const DefaultTitle = "Specification"

type item struct {
	spec   string
	status string
}

type section struct {
	title string
	items []item
}

// Report collects specification lines and writes them out in Finalize.
// It listens to the spec plugin and is itself a host plugin.
type Report struct {
	runner.BasePlugin

	Title        string
	MarkdownPath string
	HTMLPath     string

	sections []section
	markdown goldmark.Markdown
}

// New creates an empty report.
func New() *Report {
	return &Report{
		Title:    DefaultTitle,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (r *Report) Name() string { return "report" }
func (r *Report) Score() int   { return Score }

// Enabled is true when at least one output file was requested.
func (r *Report) Enabled() bool {
	return r.MarkdownPath != "" || r.HTMLPath != ""
}

// Options registers --markdown and --html.
func (r *Report) Options(flags *pflag.FlagSet) {
	flags.StringVar(&r.MarkdownPath, "markdown", r.MarkdownPath, "Write the specification as Markdown to this file")
	flags.StringVar(&r.HTMLPath, "html", r.HTMLPath, "Write the specification as HTML to this file")
}

// Begin forgets anything collected earlier.
func (r *Report) Begin() {
	r.sections = nil
}

// SpecPrinted records one line under its context.
func (r *Report) SpecPrinted(context, spec, status string) {
	if n := len(r.sections); n == 0 || r.sections[n-1].title != context {
		r.sections = append(r.sections, section{title: context})
	}
	last := &r.sections[len(r.sections)-1]
	last.items = append(last.items, item{spec: spec, status: status})
}

// Finalize writes the requested files.
func (r *Report) Finalize(result *models.Result) error {
	md := r.Markdown(result)

	if r.MarkdownPath != "" {
		if err := filelock.AtomicWrite(r.MarkdownPath, md); err != nil {
			return fmt.Errorf("failed to write markdown report: %w", err)
		}
	}
	if r.HTMLPath != "" {
		page, err := r.HTML(md)
		if err != nil {
			return err
		}
		if err := filelock.LockAndWrite(context.Background(), r.HTMLPath, page); err != nil {
			return fmt.Errorf("failed to write html report: %w", err)
		}
	}
	return nil
}

// Markdown renders the collected specification.
func (r *Report) Markdown(result *models.Result) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n", escape(r.Title))

	if result != nil {
		fmt.Fprintf(&b, "\n_%s_\n", summaryLine(result))
	}

	for _, s := range r.sections {
		title := s.title
		if title == "" {
			title = "(no context)"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", escape(title))
		for _, it := range s.items {
			box := " "
			if it.status == "" {
				box = "x"
			}
			line := escape(it.spec)
			if it.status != "" {
				line += " (" + it.status + ")"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", box, line)
		}
	}
	return b.Bytes()
}

// HTML converts Markdown into a standalone page.
func (r *Report) HTML(md []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := r.markdown.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("failed to render html report: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(r.Title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func summaryLine(result *models.Result) string {
	parts := []string{fmt.Sprintf("%d tests", result.TestsRun)}
	if n := len(result.Failures); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if n := len(result.Errors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", n))
	}
	if result.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", result.Skipped))
	}
	if result.Deprecated > 0 {
		parts = append(parts, fmt.Sprintf("%d deprecated", result.Deprecated))
	}
	return strings.Join(parts, ", ")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
