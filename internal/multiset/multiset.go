// Package multiset provides a counted set whose set view survives overlapping
// insert/erase pairs.
//
// Every Insert increments a signed count and every Erase decrements it, so a
// caller can undo exactly what it added even when another caller inserted the
// same element in between. The set view (Contains, Len, Items) only reports
// elements whose count is positive.
package multiset

import (
	"cmp"
	"slices"
)

// Counted is a multiset with signed multiplicities.
//
// The zero value is not usable; create one with New.
type Counted[T cmp.Ordered] struct {
	counts map[T]int
}

// New returns an empty Counted holding the given elements once each.
func New[T cmp.Ordered](items ...T) *Counted[T] {
	m := &Counted[T]{counts: make(map[T]int, len(items))}
	for _, it := range items {
		m.Insert(it)
	}
	return m
}

// Insert increments the count of v.
func (m *Counted[T]) Insert(v T) {
	m.counts[v]++
}

// Erase decrements the count of v. The count may become negative; a later
// Insert cancels it out.
func (m *Counted[T]) Erase(v T) {
	m.counts[v]--
}

// Count returns the raw multiplicity of v.
func (m *Counted[T]) Count(v T) int {
	return m.counts[v]
}

// Contains reports whether v has a positive count.
func (m *Counted[T]) Contains(v T) bool {
	return m.counts[v] > 0
}

// Len returns the number of elements with a positive count.
func (m *Counted[T]) Len() int {
	n := 0
	for _, c := range m.counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Empty reports whether no element has a positive count.
func (m *Counted[T]) Empty() bool {
	for _, c := range m.counts {
		if c > 0 {
			return false
		}
	}
	return true
}

// Items returns the elements with a positive count in ascending order.
func (m *Counted[T]) Items() []T {
	out := make([]T, 0, len(m.counts))
	for v, c := range m.counts {
		if c > 0 {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy, raw counts included.
func (m *Counted[T]) Clone() *Counted[T] {
	out := &Counted[T]{counts: make(map[T]int, len(m.counts))}
	for v, c := range m.counts {
		if c != 0 {
			out.counts[v] = c
		}
	}
	return out
}

// Equal reports whether both multisets have the same set view.
func (m *Counted[T]) Equal(other *Counted[T]) bool {
	return slices.Equal(m.Items(), other.Items())
}

// Compare orders two multisets lexicographically by their set views.
func (m *Counted[T]) Compare(other *Counted[T]) int {
	return slices.Compare(m.Items(), other.Items())
}
