package display

import (
	"bytes"
	"io"

	"github.com/harrison/specdox/internal/describe"
	"github.com/harrison/specdox/internal/models"
)

// OutputStream forwards writes to whichever target is currently selected:
// the on writer, the off writer or an internal capture buffer.
// It is not safe for concurrent use; the host drives it from one goroutine.
type OutputStream struct {
	on      io.Writer
	off     io.Writer
	capture bytes.Buffer
	read    bool
	current io.Writer
}

// NewOutputStream creates a stream that starts switched on.
func NewOutputStream(on, off io.Writer) *OutputStream {
	if off == nil {
		off = io.Discard
	}
	return &OutputStream{on: on, off: off, current: on}
}

// On routes writes to the on writer.
func (s *OutputStream) On() { s.current = s.on }

// Off routes writes to the off writer.
func (s *OutputStream) Off() { s.current = s.off }

// Capture routes writes into the capture buffer. Captured text accumulates
// across captures until it is read with Captured.
func (s *OutputStream) Capture() {
	if s.read {
		s.capture.Reset()
		s.read = false
	}
	s.current = &s.capture
}

// Captured returns everything captured since it was last read.
func (s *OutputStream) Captured() string {
	s.read = true
	return s.capture.String()
}

// Write implements io.Writer.
func (s *OutputStream) Write(p []byte) (int, error) {
	return s.current.Write(p)
}

// Writeln writes text followed by a newline.
func (s *OutputStream) Writeln(text string) error {
	_, err := io.WriteString(s.current, text+"\n")
	return err
}

// SpecStream prints contexts and specifications over an OutputStream.
type SpecStream struct {
	*OutputStream
	err error
}

// NewSpecStream wraps the host writer. Off output is discarded.
func NewSpecStream(on io.Writer) *SpecStream {
	return &SpecStream{OutputStream: NewOutputStream(on, io.Discard)}
}

// PrintText writes text to the on writer and switches the stream off.
// The first failed write is kept for Err.
func (s *SpecStream) PrintText(text string) error {
	s.On()
	_, err := io.WriteString(s.current, text)
	s.Off()
	if err != nil && s.err == nil {
		s.err = err
	}
	return err
}

// PrintLine writes line and a newline.
func (s *SpecStream) PrintLine(line string) error {
	return s.PrintText(line + "\n")
}

// Err returns the first error PrintText ran into.
func (s *SpecStream) Err() error {
	return s.err
}

// PrintContext prints a blank line followed by the context title.
func (s *SpecStream) PrintContext(context any) {
	s.PrintLine("\n" + describe.ContextDescription(context))
}

// PrintSpec prints one "- spec" line per description of tc, with the status
// in parentheses when given. It returns the descriptions it printed.
func (s *SpecStream) PrintSpec(colorize Colorizer, tc *models.TestCase, status string) []string {
	specs := describe.TestDescription(tc)
	for _, spec := range specs {
		line := "- " + spec
		if status != "" {
			line += " (" + status + ")"
		}
		s.PrintLine(colorize(line))
	}
	return specs
}
