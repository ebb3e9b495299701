// Package setutil provides a small generic set for ID and code collections.
package setutil

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of distinct values.
type Set[T cmp.Ordered] struct {
	items map[T]struct{}
}

// New creates a set holding the given values.
func New[T cmp.Ordered](values ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(values))}
	s.AddAll(values)
	return s
}

func (s *Set[T]) Add(v T) {
	s.items[v] = struct{}{}
}

func (s *Set[T]) AddAll(values []T) {
	for _, v := range values {
		s.items[v] = struct{}{}
	}
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Sorted returns the values in ascending order so callers get stable output.
func (s *Set[T]) Sorted() []T {
	out := make([]T, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Dedup returns the distinct values of in, sorted.
func Dedup[T cmp.Ordered](in []T) []T {
	return New(in...).Sorted()
}
