package conditional

import (
	"errors"
	"fmt"
	"slices"

	"github.com/amp-labs/txprocess/optional"
)

// ErrArityMismatch is the panic value when a rule's length differs from the
// reference tuple's.
var ErrArityMismatch = errors.New("condition arity does not match reference tuple")

// ErrNilRule is the panic value when Cond or Default is given a nil function.
var ErrNilRule = errors.New("rule function is nil")

// Resolver matches rules against a reference tuple of N values of one type. Build
// one per decision: chain Cond and Default, then call Resolve once.
type Resolver[T comparable, R any] struct {
	values   []T
	matched  optional.Value[func() R]
	fallback optional.Value[func() R]
}

// New creates a Resolver for the given reference tuple.
func New[T comparable, R any](values ...T) *Resolver[T, R] {
	return &Resolver[T, R]{
		values: slices.Clone(values),
	}
}

// Cond registers fn for the rule conds. The rule matches when every position is a
// wildcard or equals the reference value there. Only the first matching rule is
// kept, so specific rules must come before general ones. A rule of the wrong
// length or a nil fn is a programming error and panics.
func (r *Resolver[T, R]) Cond(conds []Match[T], fn func() R) *Resolver[T, R] {
	if len(conds) != len(r.values) {
		panic(fmt.Errorf("%w: rule has %d values, reference tuple has %d", ErrArityMismatch, len(conds), len(r.values)))
	}

	mustRule(fn)

	if r.matched.NonEmpty() {
		return r
	}

	for i, cond := range conds {
		if !cond.Matches(r.values[i]) {
			return r
		}
	}

	r.matched = optional.Some(fn)

	return r
}

// Default sets the fallback used when no rule matched. A later call replaces an
// earlier one.
func (r *Resolver[T, R]) Default(fn func() R) *Resolver[T, R] {
	mustRule(fn)

	r.fallback = optional.Some(fn)

	return r
}

// Resolve runs the first matching rule's function, or else the default. The
// second result is false when neither exists.
func (r *Resolver[T, R]) Resolve() (R, bool) {
	return resolve(r.matched, r.fallback)
}

func resolve[R any](matched, fallback optional.Value[func() R]) (R, bool) {
	if fn, ok := matched.Get(); ok {
		return fn(), true
	}

	if fn, ok := fallback.Get(); ok {
		return fn(), true
	}

	var zero R

	return zero, false
}

// Resolver2 is a Resolver over a pair of values of different types, typically a
// (state, role) combination.
type Resolver2[A, B comparable, R any] struct {
	first    A
	second   B
	matched  optional.Value[func() R]
	fallback optional.Value[func() R]
}

// New2 creates a Resolver2 for the reference pair (first, second).
func New2[A, B comparable, R any](first A, second B) *Resolver2[A, B, R] {
	return &Resolver2[A, B, R]{first: first, second: second}
}

// Cond registers fn for the rule (a, b). First match wins and a nil fn panics, as
// for Resolver.Cond.
func (r *Resolver2[A, B, R]) Cond(a Match[A], b Match[B], fn func() R) *Resolver2[A, B, R] {
	mustRule(fn)

	if r.matched.Empty() && a.Matches(r.first) && b.Matches(r.second) {
		r.matched = optional.Some(fn)
	}

	return r
}

// Default sets the fallback used when no rule matched.
func (r *Resolver2[A, B, R]) Default(fn func() R) *Resolver2[A, B, R] {
	mustRule(fn)

	r.fallback = optional.Some(fn)

	return r
}

// Resolve runs the first matching rule's function, or else the default.
func (r *Resolver2[A, B, R]) Resolve() (R, bool) {
	return resolve(r.matched, r.fallback)
}

func mustRule[R any](fn func() R) {
	if fn == nil {
		panic(ErrNilRule)
	}
}
