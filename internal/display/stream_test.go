package display

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/specdox/internal/describe"
	"github.com/harrison/specdox/internal/models"
)

func TestOutputStreamSwitching(t *testing.T) {
	var on, off bytes.Buffer
	stream := NewOutputStream(&on, &off)

	fmt.Fprint(stream, "visible ")
	stream.Off()
	fmt.Fprint(stream, "hidden")
	stream.On()
	require.NoError(t, stream.Writeln("again"))

	assert.Equal(t, "visible again\n", on.String())
	assert.Equal(t, "hidden", off.String())
}

func TestOutputStreamCapture(t *testing.T) {
	var on bytes.Buffer
	stream := NewOutputStream(&on, nil)

	stream.Capture()
	fmt.Fprint(stream, "coverage: 11.1% of statements\n")
	stream.Off()
	fmt.Fprint(stream, "hidden")
	stream.Capture()
	fmt.Fprint(stream, "Ran 2 tests")

	assert.Equal(t, "coverage: 11.1% of statements\nRan 2 tests", stream.Captured(),
		"captures accumulate until read")
	assert.Empty(t, on.String())

	stream.On()
	require.NoError(t, stream.Writeln(stream.Captured()))
	assert.Equal(t, "coverage: 11.1% of statements\nRan 2 tests\n", on.String())
}

func TestOutputStreamCaptureAfterRead(t *testing.T) {
	stream := NewOutputStream(&bytes.Buffer{}, nil)

	stream.Capture()
	fmt.Fprint(stream, "old")
	assert.Equal(t, "old", stream.Captured())

	stream.Capture()
	fmt.Fprint(stream, "new")
	assert.Equal(t, "new", stream.Captured(), "reading empties the next capture")
}

func TestSpecStreamPrintTextSwitchesOff(t *testing.T) {
	var on bytes.Buffer
	stream := NewSpecStream(&on)

	stream.PrintLine("Foobar")
	fmt.Fprint(stream, "--- PASS: TestFoobar")

	assert.Equal(t, "Foobar\n", on.String())
}

func TestSpecStreamPrintContext(t *testing.T) {
	var on bytes.Buffer
	stream := NewSpecStream(&on)

	stream.PrintContext(describe.FuncContext{Name: "TestFoobar"})

	assert.Equal(t, "\nFoobar\n", on.String())
}

func TestSpecStreamPrintSpec(t *testing.T) {
	tests := []struct {
		name   string
		test   string
		status string
		want   string
	}{
		{"success", "TestFoobar/is_a_singleton", "", "- is a singleton\n"},
		{"failure", "TestFoobar/is_a_singleton", "FAILED", "- is a singleton (FAILED)\n"},
		{"skip", "TestSlowThings", "SKIPPED", "- slow things (SKIPPED)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var on bytes.Buffer
			stream := NewSpecStream(&on)

			specs := stream.PrintSpec(Plain, &models.TestCase{Name: tt.test}, tt.status)

			assert.Equal(t, tt.want, on.String())
			assert.Len(t, specs, 1)
		})
	}
}

func TestSpecStreamPrintSpecMultipleLines(t *testing.T) {
	var on bytes.Buffer
	stream := NewSpecStream(&on)
	tc := &models.TestCase{
		Name: "ExampleSum",
		Source: &models.SourceInfo{Examples: map[string][]string{
			"ExampleSum": {"Sum(2, 3) returns 5", "Sum() is zero"},
		}},
	}

	stream.PrintSpec(Plain, tc, "")

	assert.Equal(t, "- Sum(2, 3) returns 5\n- Sum() is zero\n", on.String())
}

func TestInColor(t *testing.T) {
	out := InColor(Green, "one\ntwo\n")

	lines := strings.SplitAfter(out, "\n")
	require.Len(t, lines, 3)
	for _, line := range lines[:2] {
		assert.True(t, strings.HasPrefix(line, "\x1b["), "line should start with an escape: %q", line)
		assert.True(t, strings.HasSuffix(line, "m\n"), "reset should precede the newline: %q", line)
	}
	assert.Contains(t, lines[0], "one")
	assert.Contains(t, lines[1], "two")
	assert.Equal(t, "", lines[2])
}

func TestInColorUnknownColor(t *testing.T) {
	assert.Equal(t, "text", InColor(Color("purple"), "text"))
}

func TestPalette(t *testing.T) {
	plain := Palette(false)
	assert.Equal(t, "- ok", plain(Green)("- ok"))

	colored := Palette(true)
	assert.NotEqual(t, "- ok", colored(Red)("- ok"))
	assert.Contains(t, colored(Red)("- ok"), "- ok")
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("closed pipe") }

func TestSpecStreamKeepsFirstWriteError(t *testing.T) {
	stream := NewSpecStream(brokenWriter{})

	assert.EqualError(t, stream.PrintLine("Foobar"), "closed pipe")
	stream.PrintLine("again")
	assert.EqualError(t, stream.Err(), "closed pipe")
}
