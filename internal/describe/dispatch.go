// Package describe chooses a naming strategy for a test or a context by
// looking at its shape and produces the prose printed for it.
package describe

import "errors"

// Rule pairs a matcher with the function producing a value for subjects it
// accepts.
type Rule[T any] struct {
	Match    func(subject any) bool
	Describe func(subject any) T
}

// Dispatch walks the table in order and applies the first rule whose matcher
// accepts subject. ok is false when nothing matched.
func Dispatch[T any](table []Rule[T], subject any) (result T, ok bool) {
	for _, rule := range table {
		if rule.Match(subject) {
			return rule.Describe(subject), true
		}
	}
	return result, false
}

// Is matches subjects whose dynamic type is S.
func Is[S any]() func(any) bool {
	return func(subject any) bool {
		_, ok := subject.(S)
		return ok
	}
}

// ErrorAs matches error subjects that unwrap to E.
func ErrorAs[E error]() func(any) bool {
	return func(subject any) bool {
		err, ok := subject.(error)
		if !ok {
			return false
		}
		var target E
		return errors.As(err, &target)
	}
}

// Always matches everything. Put it last.
func Always(any) bool {
	return true
}
