// Package source reads a package's _test.go files to find doc comments that
// override generated test names and to turn runnable examples into
// specification lines.
package source

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/printer"
	"go/token"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/harrison/specdox/internal/models"
)

// Scan parses the _test.go files in dir.
func Scan(dir string) (*models.SourceInfo, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_test.go"))
	if err != nil {
		return nil, fmt.Errorf("failed to list test files in %s: %w", dir, err)
	}
	sort.Strings(paths)

	info := &models.SourceInfo{
		Dir:        dir,
		Docs:       make(map[string]string),
		Examples:   make(map[string][]string),
		Deprecated: make(map[string]string),
	}

	fset := token.NewFileSet()
	var files []*ast.File
	for _, path := range paths {
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		files = append(files, f)

		if info.PackageDoc == "" && f.Doc != nil {
			info.PackageDoc = packageSynopsis(f.Name.Name, f.Doc.Text())
		}

		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Doc == nil {
				continue
			}
			name := fn.Name.Name
			if !strings.HasPrefix(name, "Test") && !strings.HasPrefix(name, "Example") {
				continue
			}
			text := fn.Doc.Text()
			if d := funcSynopsis(name, text); d != "" {
				info.Docs[name] = d
			}
			if note, ok := deprecationNote(text); ok {
				info.Deprecated[name] = note
			}
		}
	}

	for _, ex := range doc.Examples(files...) {
		body, ok := ex.Code.(*ast.BlockStmt)
		if !ok {
			// whole-file examples have no single body to narrate
			continue
		}
		specs := exampleSpecs(fset, ex, body)
		if len(specs) > 0 {
			info.Examples["Example"+ex.Name] = specs
		}
	}

	return info, nil
}

// exampleSpecs derives one line per statement that documents itself with a
// trailing comment, plus a "returns" line for the statement that prints the
// example's output.
func exampleSpecs(fset *token.FileSet, ex *doc.Example, body *ast.BlockStmt) []string {
	printIdx := -1
	if ex.Output != "" && !ex.EmptyOutput {
		printIdx = lastPrintStmt(body.List)
	}

	var specs []string
	for i, stmt := range body.List {
		src := nodeSource(fset, stmt)

		if comment := trailingComment(fset, ex.Comments, stmt); comment != "" {
			specs = append(specs, src+" "+comment)
			continue
		}

		if i == printIdx {
			subject := printedSource(fset, stmt.(*ast.ExprStmt).X.(*ast.CallExpr))
			specs = append(specs, subject+" returns "+foldLines(ex.Output))
		}
	}

	// Output without any print call to point at: describe the example itself.
	if printIdx < 0 && ex.Output != "" && !ex.EmptyOutput {
		specs = append(specs, exampleSubject(ex.Name)+" returns "+foldLines(ex.Output))
	}

	return specs
}

// lastPrintStmt finds the last fmt.Print* call among stmts.
func lastPrintStmt(stmts []ast.Stmt) int {
	for i := len(stmts) - 1; i >= 0; i-- {
		expr, ok := stmts[i].(*ast.ExprStmt)
		if !ok {
			continue
		}
		call, ok := expr.X.(*ast.CallExpr)
		if !ok {
			continue
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			continue
		}
		pkg, ok := sel.X.(*ast.Ident)
		if ok && pkg.Name == "fmt" && strings.HasPrefix(sel.Sel.Name, "Print") {
			return i
		}
	}
	return -1
}

// printedSource renders the printed arguments of a fmt.Print* call. The
// format string of Printf is not part of what is printed.
func printedSource(fset *token.FileSet, call *ast.CallExpr) string {
	args := call.Args
	if call.Fun.(*ast.SelectorExpr).Sel.Name == "Printf" && len(args) > 0 {
		args = args[1:]
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, nodeSource(fset, arg))
	}
	return strings.Join(parts, ", ")
}

// trailingComment returns the text of a comment that starts on the line a
// statement ends on, excluding the output marker.
func trailingComment(fset *token.FileSet, comments []*ast.CommentGroup, stmt ast.Stmt) string {
	line := fset.Position(stmt.End()).Line
	for _, cg := range comments {
		if cg.Pos() < stmt.End() || fset.Position(cg.Pos()).Line != line {
			continue
		}
		text := strings.TrimSpace(cg.Text())
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, "output:") || strings.HasPrefix(lower, "unordered output:") {
			return ""
		}
		return text
	}
	return ""
}

func nodeSource(fset *token.FileSet, node ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return ""
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

func foldLines(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}

// exampleSubject turns the example name Stack_Push into Stack.Push.
func exampleSubject(name string) string {
	if name == "" {
		return "package"
	}
	return strings.ReplaceAll(name, "_", ".")
}

// funcSynopsis returns the first paragraph of a doc comment on one line,
// without the leading function name and the final period.
func funcSynopsis(name, text string) string {
	s := firstParagraph(text)
	if strings.HasPrefix(s, deprecatedPrefix) {
		return ""
	}
	if rest, ok := strings.CutPrefix(s, name+" "); ok {
		s = rest
	}
	return strings.TrimSuffix(s, ".")
}

const deprecatedPrefix = "Deprecated:"

// deprecationNote finds the paragraph opening with "Deprecated:", the
// convention go doc and staticcheck understand.
func deprecationNote(text string) (string, bool) {
	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(para), deprecatedPrefix); ok {
			return strings.Join(strings.Fields(rest), " "), true
		}
	}
	return "", false
}

// packageSynopsis strips the conventional "Package name" opening.
func packageSynopsis(pkg, text string) string {
	s := firstParagraph(text)
	for _, prefix := range []string{"Package " + pkg + " ", "Package " + strings.TrimSuffix(pkg, "_test") + " "} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = upperFirst(rest)
			break
		}
	}
	return strings.TrimSuffix(s, ".")
}

func firstParagraph(text string) string {
	para, _, _ := strings.Cut(strings.TrimSpace(text), "\n\n")
	return strings.Join(strings.Fields(para), " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
