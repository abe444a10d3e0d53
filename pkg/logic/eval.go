// SPDX-License-Identifier: MPL-2.0

package logic

import (
	"github.com/invowk/worldc/pkg/bitset"

	"golang.org/x/exp/constraints"
)

// State is the progress a requirement is evaluated against.
type State[F, C, A, E constraints.Integer] struct {
	Inventory Inventory[F, C]
	// Areas holds the times of day each area is known to be reachable.
	Areas TimeSet[A]
	// Events holds the events already granted.
	Events bitset.Set[E]
}

// NewState creates an empty State sized for the given value counts.
func NewState[F, C, A, E constraints.Integer](flags, counters, areas, events int) State[F, C, A, E] {
	return State[F, C, A, E]{
		Inventory: NewInventory[F, C](flags, counters),
		Areas:     NewTimeSet[A](areas),
		Events:    bitset.New[E](events),
	}
}

// Eval reports whether x holds in s.
func (x Expr[F, C, A, E]) Eval(s *State[F, C, A, E]) bool {
	switch x.Op {
	case OpTrue:
		return true
	case OpFlag:
		return s.Inventory.HasFlag(x.Flag)
	case OpCount:
		return s.Inventory.HasCount(x.Counter, x.Count)
	case OpArea:
		return s.Areas.Holds(x.Area, x.Time)
	case OpEvent:
		return s.Events.Has(x.Event)
	case OpAnd:
		for _, t := range x.Terms {
			if !t.Eval(s) {
				return false
			}
		}
		return true
	case OpOr:
		for _, t := range x.Terms {
			if t.Eval(s) {
				return true
			}
		}
		return false
	case OpNot:
		return len(x.Terms) == 1 && !x.Terms[0].Eval(s)
	default:
		return false
	}
}
