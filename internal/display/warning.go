package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Packages   []string // Related packages (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow when colorize is non-nil.
func (w Warning) Display(out io.Writer, colorize Colorizer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Packages) > 0 {
		b.WriteString("    ")
		if len(w.Packages) == 1 {
			b.WriteString("Affected package:\n")
		} else {
			b.WriteString("Affected packages:\n")
		}
		for i, pkg := range w.Packages {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, pkg)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	text := b.String()
	if colorize != nil {
		text = colorize(text)
	}
	fmt.Fprint(out, text)
}

// WarnNoTests is shown when a run reported no tests at all.
func WarnNoTests() Warning {
	return Warning{
		Title:      "No tests were run",
		Message:    "The event stream did not contain any test results.",
		Suggestion: "Check the package pattern and -run filter passed to go test.",
	}
}

// WarnMissingSource is shown when doc comments or examples could not be
// read for some packages.
func WarnMissingSource(packages []string) Warning {
	return Warning{
		Title:      "Source not found",
		Message:    "Generated names were used where doc comments or examples were expected.",
		Packages:   packages,
		Suggestion: "Run specdox from inside the module that owns these packages.",
	}
}

// WarnJournalNotSaved is shown when --journal could not store the run.
func WarnJournalNotSaved(err error) Warning {
	return Warning{
		Title:   "Journal not saved",
		Message: err.Error(),
	}
}
