package describe

import (
	"path"
	"strings"

	"github.com/harrison/specdox/internal/models"
)

// Context subjects. All of them are comparable so the plugin can tell when
// the context changes.
type (
	// PackageContext groups top-level tests that have no subtests.
	PackageContext struct {
		ImportPath string
		Doc        string
	}

	// FuncContext is a Test function that owns subtests or methods.
	// Package keeps equally named functions of different packages apart.
	FuncContext struct {
		Package string
		Name    string
		Doc     string
	}

	// GroupContext is a subtest that owns further subtests.
	GroupContext struct {
		Parent any
		Name   string
	}

	// ExampleContext holds the specifications of one runnable example.
	ExampleContext struct {
		Package string
		Name    string
		Doc     string
	}
)

// Test subjects.
type (
	// FunctionCase is a top-level test without subtests.
	FunctionCase struct {
		Name string
		Doc  string
	}

	// MethodCase is a TestContext_Spec function.
	MethodCase struct {
		Context string
		Name    string
		Doc     string
	}

	// SubtestCase is a leaf subtest.
	SubtestCase struct {
		Name string
	}

	// ExampleCase is a runnable example and the specs derived from its body.
	ExampleCase struct {
		Name  string
		Specs []string
	}
)

// TestSubject classifies tc into one of the test subjects.
func TestSubject(tc *models.TestCase) any {
	switch tc.Kind() {
	case models.KindExample:
		var specs []string
		if tc.Source != nil {
			specs = tc.Source.Examples[tc.Name]
		}
		return ExampleCase{Name: tc.Name, Specs: specs}
	case models.KindSubtest:
		return SubtestCase{Name: tc.Leaf()}
	case models.KindMethod:
		ctx, name := splitMethod(tc.Name)
		return MethodCase{Context: ctx, Name: name, Doc: tc.Doc()}
	default:
		return FunctionCase{Name: tc.Name, Doc: tc.Doc()}
	}
}

// TestContext returns the context subject a test is printed under.
// Subtests (including unnamed, generated ones) live under their parent,
// examples set up their own context, method-style tests live under the
// function name before the underscore and everything else under its package.
func TestContext(tc *models.TestCase) any {
	switch tc.Kind() {
	case models.KindExample:
		return ExampleContext{Package: tc.Package, Name: tc.Name, Doc: tc.Doc()}
	case models.KindSubtest:
		p := tc.Path()
		return contextFor(tc.Package, p[:len(p)-1], tc.Doc())
	case models.KindMethod:
		ctx, _ := splitMethod(tc.Name)
		doc := ""
		if tc.Source != nil {
			doc = tc.Source.Docs[ctx]
		}
		return FuncContext{Package: tc.Package, Name: ctx, Doc: doc}
	default:
		doc := ""
		if tc.Source != nil {
			doc = tc.Source.PackageDoc
		}
		return PackageContext{ImportPath: tc.Package, Doc: doc}
	}
}

func contextFor(pkg string, p []string, doc string) any {
	if len(p) == 1 {
		return FuncContext{Package: pkg, Name: p[0], Doc: doc}
	}
	return GroupContext{Parent: contextFor(pkg, p[:len(p)-1], doc), Name: p[len(p)-1]}
}

// splitMethod splits TestFoobar_IsASingleton into TestFoobar and IsASingleton.
func splitMethod(name string) (string, string) {
	i := strings.IndexByte(name, '_')
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// packageName returns the last element of an import path, without the
// external test package suffix.
func packageName(importPath string) string {
	return strings.TrimSuffix(path.Base(importPath), "_test")
}
