// Package set provides a small set of string-like values that remembers
// insertion order. State and transition names are the intended elements.
package set

import (
	"iter"
	"slices"

	"facette.io/natsort"
)

// Set is a collection of unique elements. Entries come back in the order they
// were first added; SortedEntries uses natural ordering.
// A Set is not safe for concurrent mutation. Once built, concurrent reads are fine.
type Set[T ~string] struct {
	index    map[T]struct{}
	elements []T
}

// New creates a Set holding the given elements. Duplicates are dropped.
func New[T ~string](elements ...T) *Set[T] {
	s := &Set[T]{
		index: make(map[T]struct{}, len(elements)),
	}

	s.AddAll(elements...)

	return s
}

// Add adds a single element. Returns true if the element was not already present.
func (s *Set[T]) Add(element T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}

	if _, found := s.index[element]; found {
		return false
	}

	s.index[element] = struct{}{}
	s.elements = append(s.elements, element)

	return true
}

// AddAll adds multiple elements.
func (s *Set[T]) AddAll(elements ...T) {
	for _, element := range elements {
		s.Add(element)
	}
}

// Contains reports whether the element is in the set. A nil set contains nothing.
func (s *Set[T]) Contains(element T) bool {
	if s == nil {
		return false
	}

	_, found := s.index[element]

	return found
}

// Size returns the number of elements in the set.
func (s *Set[T]) Size() int {
	if s == nil {
		return 0
	}

	return len(s.elements)
}

// Entries returns a copy of the elements in insertion order.
func (s *Set[T]) Entries() []T {
	if s == nil {
		return nil
	}

	return slices.Clone(s.elements)
}

// SortedEntries returns the elements in natural sort order.
func (s *Set[T]) SortedEntries() []T {
	if s == nil {
		return nil
	}

	items := make([]string, len(s.elements))
	for i, element := range s.elements {
		items[i] = string(element)
	}

	natsort.Sort(items)

	out := make([]T, len(items))
	for i, item := range items {
		out[i] = T(item)
	}

	return out
}

// All iterates the elements in insertion order.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s == nil {
			return
		}

		for _, element := range s.elements {
			if !yield(element) {
				return
			}
		}
	}
}

// Union returns a new set with the elements of s followed by the new elements of other.
func (s *Set[T]) Union(other *Set[T]) *Set[T] {
	out := New(s.Entries()...)
	out.AddAll(other.Entries()...)

	return out
}
