// SPDX-License-Identifier: MPL-2.0

package logic

import (
	"github.com/invowk/worldc/pkg/bitset"

	"golang.org/x/exp/constraints"
)

// TimeSet records, per member, at which times of day it holds. It is the
// natural store for "area reachable at day / night / both".
type TimeSet[T constraints.Integer] struct {
	day   bitset.Set[T]
	night bitset.Set[T]
}

// NewTimeSet creates an empty TimeSet over the ordinals [0, capacity).
func NewTimeSet[T constraints.Integer](capacity int) TimeSet[T] {
	return TimeSet[T]{
		day:   bitset.New[T](capacity),
		night: bitset.New[T](capacity),
	}
}

// Add marks v as holding at the given times and reports whether anything changed.
func (s *TimeSet[T]) Add(v T, tod TimeOfDay) bool {
	changed := false
	if tod&Day != 0 {
		changed = s.day.Add(v) || changed
	}
	if tod&Night != 0 {
		changed = s.night.Add(v) || changed
	}
	return changed
}

// Get returns the times at which v holds; zero when it never holds.
func (s TimeSet[T]) Get(v T) TimeOfDay {
	var tod TimeOfDay
	if s.day.Has(v) {
		tod |= Day
	}
	if s.night.Has(v) {
		tod |= Night
	}
	return tod
}

// Holds reports whether v satisfies the qualifier q. AnyTime is satisfied
// when v holds at either time; Day and Night require that specific time.
func (s TimeSet[T]) Holds(v T, q TimeOfDay) bool {
	got := s.Get(v)
	if q == AnyTime {
		return got != 0
	}
	return got.Has(q)
}

// Day returns the set of members holding at day. The result shares storage.
func (s TimeSet[T]) Day() bitset.Set[T] { return s.day }

// Night returns the set of members holding at night. The result shares storage.
func (s TimeSet[T]) Night() bitset.Set[T] { return s.night }

// Clone returns an independent copy.
func (s TimeSet[T]) Clone() TimeSet[T] {
	return TimeSet[T]{day: s.day.Clone(), night: s.night.Clone()}
}
