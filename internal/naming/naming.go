// Package naming turns identifier-style test names into prose.
//
// Go test names come in two shapes: CamelCase function names such as
// TestFoobar or TestFoobar_IsASingleton, and subtest names where go test has
// already rewritten spaces to underscores (can_be_automatically_documented).
// The helpers here undo both conventions.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// contractions are applied in order by CompleteEnglish.
var contractions = []struct {
	from string
	to   string
}{
	{"dont", "don't"},
	{"doesnt", "doesn't"},
	{"wont", "won't"},
	{"wasnt", "wasn't"},
}

// generatedSubtest matches the names go test assigns to unnamed subtests.
var generatedSubtest = regexp.MustCompile(`^#\d+$`)

// RemoveLeading removes needle from the start of s if it is there.
func RemoveLeading(needle, s string) string {
	return strings.TrimPrefix(s, needle)
}

// RemoveTrailing removes needle from the end of s if it is there.
func RemoveTrailing(needle, s string) string {
	return strings.TrimSuffix(s, needle)
}

// RemoveLeadingAndTrailing strips needle from both ends, trailing first.
func RemoveLeadingAndTrailing(needle, s string) string {
	return RemoveLeading(needle, RemoveTrailing(needle, s))
}

// CamelToWords converts CamelCase into "Normal case": every upper-case letter
// after the first character becomes a space followed by its lower-case form.
//
//	CamelToWords("CaseWithSpec") == "Case with spec"
func CamelToWords(s string) string {
	if s == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(s)

	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteRune(first)
	for _, r := range s[size:] {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CompleteEnglish restores the apostrophe in common contractions.
// Matching is by plain substring, so "doesnt" inside a longer word is
// rewritten too.
func CompleteEnglish(s string) string {
	for _, c := range contractions {
		s = strings.ReplaceAll(s, c.from, c.to)
	}
	return s
}

// UnderscoreToWords replaces underscores with spaces.
func UnderscoreToWords(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// UnderscoredToSpec converts a snake_case name into a specification line.
func UnderscoredToSpec(name string) string {
	name = RemoveLeading("test_", name)
	name = RemoveTrailing("_test", name)
	return CompleteEnglish(UnderscoreToWords(name))
}

// CamelCaseToSpec converts a CamelCase type or function name into a context
// title, dropping a leading and trailing "Test".
func CamelCaseToSpec(name string) string {
	return CamelToWords(RemoveLeadingAndTrailing("Test", name))
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// IsGeneratedSubtest reports whether name is one go test made up for a
// subtest started with an empty name (#00, #01, ...).
func IsGeneratedSubtest(name string) bool {
	return generatedSubtest.MatchString(name)
}

// SubtestToSpec converts one subtest path element into a specification line.
func SubtestToSpec(name string) string {
	if IsGeneratedSubtest(name) {
		return "holds for case " + name
	}
	return UnderscoredToSpec(name)
}

// FuncToSpec converts a Go test function name (or the part of it after the
// context separator) into a lower-case specification line.
func FuncToSpec(name string) string {
	name = RemoveLeading("Test", name)
	if strings.Contains(name, "_") && !hasUpper(name) {
		return UnderscoredToSpec(name)
	}
	words := CamelToWords(name)
	return CompleteEnglish(strings.ToLower(UnderscoreToWords(words)))
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
