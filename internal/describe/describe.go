package describe

import (
	"strings"

	"github.com/harrison/specdox/internal/models"
	"github.com/harrison/specdox/internal/naming"
)

// contextRules is built on demand: GroupContext recurses through
// ContextDescription, which a package-level table could not reference.
func contextRules() []Rule[string] {
	return []Rule[string]{
		{Match: Is[PackageContext](), Describe: func(s any) string {
			c := s.(PackageContext)
			return orElse(c.Doc, func() string {
				return naming.Capitalize(naming.UnderscoredToSpec(packageName(c.ImportPath)))
			})
		}},
		{Match: Is[FuncContext](), Describe: func(s any) string {
			c := s.(FuncContext)
			return orElse(c.Doc, func() string { return funcTitle(c.Name) })
		}},
		{Match: Is[GroupContext](), Describe: func(s any) string {
			c := s.(GroupContext)
			return ContextDescription(c.Parent) + " " + naming.SubtestToSpec(c.Name)
		}},
		{Match: Is[ExampleContext](), Describe: func(s any) string {
			c := s.(ExampleContext)
			return orElse(c.Doc, func() string { return exampleTitle(c.Name) })
		}},
	}
}

var testRules = []Rule[[]string]{
	{Match: Is[MethodCase](), Describe: func(s any) []string {
		m := s.(MethodCase)
		return []string{orElse(m.Doc, func() string { return naming.FuncToSpec(m.Name) })}
	}},
	{Match: Is[FunctionCase](), Describe: func(s any) []string {
		f := s.(FunctionCase)
		return []string{orElse(f.Doc, func() string { return naming.FuncToSpec(f.Name) })}
	}},
	{Match: Is[ExampleCase](), Describe: func(s any) []string {
		return s.(ExampleCase).Specs
	}},
	{Match: Is[SubtestCase](), Describe: func(s any) []string {
		return []string{naming.SubtestToSpec(s.(SubtestCase).Name)}
	}},
}

// ContextDescription returns the title printed above the specs of a
// context. Unknown subjects yield "".
func ContextDescription(context any) string {
	desc, _ := Dispatch(contextRules(), context)
	return desc
}

// TestDescription returns the specification lines of a test. Most tests
// yield exactly one; examples yield one per documented statement, possibly
// none.
func TestDescription(tc *models.TestCase) []string {
	specs, _ := Dispatch(testRules, TestSubject(tc))
	var out []string
	for _, s := range specs {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// funcTitle renders TestStack as "Stack" and the method-style
// TestStack_Push as "Stack push".
func funcTitle(name string) string {
	prefix, method := splitMethod(name)
	var words []string
	if s := naming.CamelCaseToSpec(prefix); s != "" {
		words = append(words, s)
	}
	if method != "" {
		words = append(words, naming.FuncToSpec(method))
	}
	return strings.Join(words, " ")
}

func orElse(doc string, fallback func() string) string {
	if doc != "" {
		return doc
	}
	return fallback()
}

// exampleTitle renders ExampleStack_Push as "Example Stack.Push" and the
// package example as "Package example".
func exampleTitle(name string) string {
	rest := strings.TrimPrefix(name, "Example")
	if rest == "" {
		return "Package example"
	}
	return "Example " + strings.ReplaceAll(strings.TrimPrefix(rest, "_"), "_", ".")
}
