// SPDX-License-Identifier: MPL-2.0

// Package bitset provides fixed-capacity membership sets over closed, densely
// numbered types such as the generated Area or FlagItem enumerations.
//
// A Set is sized once at construction from the element count of its type
// (for example AreaCount). Every element must satisfy 0 <= v < capacity;
// operations on out-of-range values panic, as an out-of-range ordinal is
// always a programming error in generated code.
package bitset

import (
	"fmt"
	"iter"
	"math/bits"

	"golang.org/x/exp/constraints"
)

const wordBits = 64

// Set is a membership set over the ordinals [0, capacity).
// The zero value is an empty set with capacity zero.
type Set[T constraints.Integer] struct {
	words    []uint64
	capacity int
}

// New creates an empty Set able to hold the ordinals [0, capacity).
func New[T constraints.Integer](capacity int) Set[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("bitset: negative capacity %d", capacity))
	}
	return Set[T]{
		words:    make([]uint64, (capacity+wordBits-1)/wordBits),
		capacity: capacity,
	}
}

// Of creates a Set of the given capacity holding vs.
func Of[T constraints.Integer](capacity int, vs ...T) Set[T] {
	s := New[T](capacity)
	for _, v := range vs {
		s.Add(v)
	}
	return s
}

// Cap returns the number of ordinals the set can hold.
func (s Set[T]) Cap() int {
	return s.capacity
}

func (s Set[T]) index(v T) (int, uint64) {
	i := int(v)
	if v < 0 || i >= s.capacity {
		panic(fmt.Sprintf("bitset: ordinal %d out of range [0, %d)", i, s.capacity))
	}
	return i / wordBits, 1 << (uint(i) % wordBits)
}

// Add inserts v. It reports whether the set changed.
func (s *Set[T]) Add(v T) bool {
	w, m := s.index(v)
	if s.words[w]&m != 0 {
		return false
	}
	s.words[w] |= m
	return true
}

// Remove deletes v. It reports whether the set changed.
func (s *Set[T]) Remove(v T) bool {
	w, m := s.index(v)
	if s.words[w]&m == 0 {
		return false
	}
	s.words[w] &^= m
	return true
}

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	w, m := s.index(v)
	return s.words[w]&m != 0
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the set has no members.
func (s Set[T]) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clear removes every member while keeping the capacity.
func (s *Set[T]) Clear() {
	clear(s.words)
}

// Clone returns an independent copy of s.
func (s Set[T]) Clone() Set[T] {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return Set[T]{words: words, capacity: s.capacity}
}

// UnionWith adds every member of o to s and reports whether s changed.
// Both sets must have the same capacity.
func (s *Set[T]) UnionWith(o Set[T]) bool {
	s.mustMatch(o)
	changed := false
	for i, w := range o.words {
		if merged := s.words[i] | w; merged != s.words[i] {
			s.words[i] = merged
			changed = true
		}
	}
	return changed
}

// IntersectWith removes every member of s that is not in o.
func (s *Set[T]) IntersectWith(o Set[T]) {
	s.mustMatch(o)
	for i, w := range o.words {
		s.words[i] &= w
	}
}

// IsSubsetOf reports whether every member of s is in o.
func (s Set[T]) IsSubsetOf(o Set[T]) bool {
	s.mustMatch(o)
	for i, w := range s.words {
		if w&^o.words[i] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether s and o have the same capacity and members.
func (s Set[T]) Equal(o Set[T]) bool {
	if s.capacity != o.capacity {
		return false
	}
	for i, w := range s.words {
		if w != o.words[i] {
			return false
		}
	}
	return true
}

// All yields the members in ascending ordinal order.
func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i, w := range s.words {
			for w != 0 {
				b := bits.TrailingZeros64(w)
				if !yield(T(i*wordBits + b)) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// Slice returns the members in ascending ordinal order.
func (s Set[T]) Slice() []T {
	out := make([]T, 0, s.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

func (s Set[T]) mustMatch(o Set[T]) {
	if s.capacity != o.capacity {
		panic(fmt.Sprintf("bitset: capacity mismatch %d != %d", s.capacity, o.capacity))
	}
}
