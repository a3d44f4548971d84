package display

import (
	"strings"

	"github.com/fatih/color"
)

// Color names a specification color.
type Color string

const (
	Green  Color = "green"
	Red    Color = "red"
	Yellow Color = "yellow"
)

// palette maps colors to bold terminal attributes.
var palette = map[Color][]color.Attribute{
	Green:  {color.Bold, color.FgGreen},
	Red:    {color.Bold, color.FgRed},
	Yellow: {color.Bold, color.FgYellow},
}

// Colorizer turns plain text into displayed text.
type Colorizer func(text string) string

// Plain leaves text untouched.
func Plain(text string) string {
	return text
}

// InColor colors every line of text separately, keeping line endings
// outside of the escape sequences. Unknown colors return text unchanged.
func InColor(c Color, text string) string {
	attrs, ok := palette[c]
	if !ok {
		return text
	}

	painter := color.New(attrs...)
	painter.EnableColor()

	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		b.WriteString(painter.Sprint(body))
		if len(body) != len(line) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Palette returns a function handing out Colorizers for each color. When
// enabled is false every Colorizer is Plain.
func Palette(enabled bool) func(Color) Colorizer {
	if !enabled {
		return func(Color) Colorizer { return Plain }
	}
	return func(c Color) Colorizer {
		return func(text string) string { return InColor(c, text) }
	}
}
