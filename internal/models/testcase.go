package models

import (
	"strings"
	"time"
)

// Kind classifies a test by the shape of its name.
type Kind int

const (
	// KindFunction is a top-level TestXxx without subtests.
	KindFunction Kind = iota
	// KindMethod is a top-level TestContext_Spec function.
	KindMethod
	// KindSubtest is a leaf subtest (TestXxx/name).
	KindSubtest
	// KindExample is a runnable ExampleXxx.
	KindExample
)

// String returns a readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindSubtest:
		return "subtest"
	case KindExample:
		return "example"
	default:
		return "unknown"
	}
}

// TestCase is a finished test as handed to plugins.
type TestCase struct {
	Package string        // Import path of the package
	Name    string        // Full test name as reported by go test
	Output  []string      // Output lines captured while the test ran
	Elapsed time.Duration // Run time reported by go test
	Source  *SourceInfo   // Doc comments and examples of the package (nil when unavailable)
}

// Path splits the test name into its subtest elements.
func (t *TestCase) Path() []string {
	return strings.Split(t.Name, "/")
}

// Root returns the top-level function name.
func (t *TestCase) Root() string {
	return t.Path()[0]
}

// Leaf returns the last element of the test name.
func (t *TestCase) Leaf() string {
	p := t.Path()
	return p[len(p)-1]
}

// Kind classifies the test.
func (t *TestCase) Kind() Kind {
	switch {
	case strings.HasPrefix(t.Name, "Example"):
		return KindExample
	case strings.Contains(t.Name, "/"):
		return KindSubtest
	case strings.Contains(strings.TrimPrefix(t.Name, "Test"), "_"):
		return KindMethod
	default:
		return KindFunction
	}
}

// Doc returns the doc comment of the test's top-level function, if known.
func (t *TestCase) Doc() string {
	if t.Source == nil {
		return ""
	}
	return t.Source.Docs[t.Root()]
}

// Deprecation returns the note of a "Deprecated:" paragraph on the test's
// top-level function.
func (t *TestCase) Deprecation() (string, bool) {
	if t.Source == nil {
		return "", false
	}
	note, ok := t.Source.Deprecated[t.Root()]
	return note, ok
}

// CombinedOutput joins the captured output lines.
func (t *TestCase) CombinedOutput() string {
	return strings.Join(t.Output, "")
}

// SourceInfo is what the source scanner learned about a package's tests.
type SourceInfo struct {
	Dir        string              // Package directory on disk
	PackageDoc string              // Synopsis of the package doc comment
	Docs       map[string]string   // Function name -> first paragraph of its doc comment
	Examples   map[string][]string // Example function name -> specification lines
	Deprecated map[string]string   // Function name -> text of its "Deprecated:" paragraph
}
