// Package conditional selects a result from a fixed tuple of values with an
// ordered list of rules. Each rule position is either a wildcard or an exact value;
// the first matching rule wins and a default covers the rest.
//
// Example:
//
//	data, ok := conditional.New2[process.State, process.Actor, StateData](state, actor).
//	    Cond(conditional.Exact[process.State]("preauthorized"), conditional.Exact(process.ActorProvider), acceptOrDecline).
//	    Cond(conditional.Exact[process.State]("reviewed"), conditional.Any[process.Actor](), showReviews).
//	    Default(plain).
//	    Resolve()
package conditional

import "fmt"

// Match is one position of a rule: either the wildcard or an exact value.
type Match[T comparable] struct {
	value T
	exact bool
}

// Any returns the wildcard, which matches every value.
func Any[T comparable]() Match[T] {
	return Match[T]{}
}

// Exact returns a Match for exactly v.
func Exact[T comparable](v T) Match[T] {
	return Match[T]{value: v, exact: true}
}

// IsWildcard reports whether m matches everything.
func (m Match[T]) IsWildcard() bool {
	return !m.exact
}

// Matches reports whether v satisfies m.
func (m Match[T]) Matches(v T) bool {
	return !m.exact || m.value == v
}

func (m Match[T]) String() string {
	if !m.exact {
		return "*"
	}

	return fmt.Sprintf("%v", m.value)
}
