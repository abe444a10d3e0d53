// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

const (
	// KeyLocation keys the requirement of a location.
	KeyLocation KeyKind = iota
	// KeyExit keys the requirement of a map exit.
	KeyExit
	// KeyEvent keys the combined requirement of an event.
	KeyEvent
	// KeyLogicExit keys the requirement of the logic exit From -> To.
	KeyLogicExit
)

type (
	// KeyKind is the kind of entity a requirement belongs to.
	KeyKind uint8

	// Key identifies one compiled requirement. ID is the location, exit or
	// event ordinal, or the origin area of a logic exit; To is the target
	// area of a logic exit and zero otherwise.
	Key struct {
		Kind KeyKind
		ID   int
		To   int
	}
)

// LocationKey returns the requirement key of location l.
func LocationKey(l int) Key { return Key{Kind: KeyLocation, ID: l} }

// ExitKey returns the requirement key of exit e.
func ExitKey(e int) Key { return Key{Kind: KeyExit, ID: e} }

// EventKey returns the requirement key of event e.
func EventKey(e int) Key { return Key{Kind: KeyEvent, ID: e} }

// LogicExitKey returns the requirement key of the logic exit from -> to.
func LogicExitKey(from, to int) Key { return Key{Kind: KeyLogicExit, ID: from, To: to} }

func (k KeyKind) String() string {
	switch k {
	case KeyLocation:
		return "Location"
	case KeyExit:
		return "Exit"
	case KeyEvent:
		return "Event"
	case KeyLogicExit:
		return "LogicExit"
	default:
		return fmt.Sprintf("KeyKind(%d)", uint8(k))
	}
}

func (k Key) String() string {
	if k.Kind == KeyLogicExit {
		return fmt.Sprintf("%s(%d, %d)", k.Kind, k.ID, k.To)
	}
	return fmt.Sprintf("%s(%d)", k.Kind, k.ID)
}

// Compare orders keys by kind, then ID, then To.
func (k Key) Compare(o Key) int {
	return cmp.Or(
		cmp.Compare(k.Kind, o.Kind),
		cmp.Compare(k.ID, o.ID),
		cmp.Compare(k.To, o.To),
	)
}

// SortedKeys returns the requirement keys of w in Compare order.
func (w *World) SortedKeys() []Key {
	return slices.SortedFunc(maps.Keys(w.Requirements), Key.Compare)
}

// Describe names the entity behind k, e.g. `location "Chest"`.
func (w *World) Describe(k Key) string {
	switch k.Kind {
	case KeyLocation:
		if k.ID >= 0 && k.ID < len(w.Locations) {
			return fmt.Sprintf("location %q", w.Locations[k.ID].Name)
		}
	case KeyExit:
		if k.ID >= 0 && k.ID < len(w.Exits) {
			return fmt.Sprintf("exit %q", w.Exits[k.ID].Name)
		}
	case KeyEvent:
		if k.ID >= 0 && k.ID < len(w.Events) {
			return fmt.Sprintf("event %q", w.Events[k.ID].Name)
		}
	case KeyLogicExit:
		if k.ID >= 0 && k.ID < len(w.Areas) && k.To >= 0 && k.To < len(w.Areas) {
			return fmt.Sprintf("logic exit %s -> %s", w.FullName(k.ID), w.FullName(k.To))
		}
	}
	return k.String()
}
