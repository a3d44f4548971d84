// Package display owns everything specdox writes to the terminal while a
// test run is narrated.
//
// # Output Stream
//
// OutputStream is a writer that can be switched between three targets:
//
//	stream := display.NewOutputStream(os.Stdout, io.Discard)
//	stream.Off()      // host chatter is dropped while a test runs
//	stream.Capture()  // text after the last test is kept for later
//	stream.On()
//	fmt.Fprint(os.Stdout, stream.Captured())
//
// SpecStream adds the specification printers used by the spec plugin. Every
// print switches the stream on for the duration of the write and off again,
// so only specification lines reach the terminal while tests run.
//
// # Colors
//
// InColor wraps each line separately so the color survives pagers such as
// less -R:
//
//	display.InColor(display.Green, "- pushes onto the stack\n")
//
// Colors are rendered with fatih/color and are forced on: callers decide
// whether to colorize at all (see Colorizer).
package display
