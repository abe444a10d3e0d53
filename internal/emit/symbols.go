// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"errors"

	"github.com/invowk/worldc/internal/graph"
	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/internal/naming"
)

// Generated type names.
const (
	typeRegion      = "Region"
	typeStage       = "Stage"
	typeArea        = "Area"
	typeLocation    = "Location"
	typeEvent       = "Event"
	typeExit        = "Exit"
	typeEntrance    = "Entrance"
	typeFlagItem    = "FlagItem"
	typeCounterItem = "CounterItem"
)

// enum is one closed enumeration: its constants and display names are
// indexed by ordinal.
type enum struct {
	typ    string
	doc    string
	consts []string
	names  []string
}

// symbols holds the constant name of every emitted value.
type symbols struct {
	regions, stages, areas, locations, events, exits, entrances enum
	flags, counters                                             enum
}

func (s *symbols) all() []*enum {
	return []*enum{
		&s.regions, &s.stages, &s.areas, &s.locations, &s.events,
		&s.exits, &s.entrances, &s.flags, &s.counters,
	}
}

func newEnum(typ, doc string, n int) enum {
	return enum{typ: typ, doc: doc, consts: make([]string, 0, n), names: make([]string, 0, n)}
}

func (e *enum) add(ident, name string) {
	e.consts = append(e.consts, e.typ+ident)
	e.names = append(e.names, name)
}

// newSymbols derives constant names from the entity identifiers, which the
// graph has already checked for collisions. Item identifiers are derived
// here, one namespace per kind.
func newSymbols(w *graph.World) (*symbols, error) {
	s := &symbols{
		regions:   newEnum(typeRegion, "Region is the outermost containment level of the world.", len(w.Regions)),
		stages:    newEnum(typeStage, "Stage is a named map inside a region.", len(w.Stages)),
		areas:     newEnum(typeArea, "Area is the finest reachability unit.", len(w.Areas)),
		locations: newEnum(typeLocation, "Location is a point of interest inside one area.", len(w.Locations)),
		events:    newEnum(typeEvent, "Event is a derived fact granted by one or more areas.", len(w.Events)),
		exits:     newEnum(typeExit, "Exit is a map exit from one area to an area of another stage.", len(w.Exits)),
		entrances: newEnum(typeEntrance, "Entrance is the arrival point of one or more exits.", len(w.Entrances)),
	}
	for _, r := range w.Regions {
		s.regions.add(r.Ident, r.Name)
	}
	for _, st := range w.Stages {
		s.stages.add(st.Ident, st.Name)
	}
	for i, a := range w.Areas {
		s.areas.add(a.Ident, w.FullName(i))
	}
	for _, l := range w.Locations {
		s.locations.add(l.Ident, l.Name)
	}
	for _, e := range w.Events {
		s.events.add(e.Ident, e.Name)
	}
	for _, x := range w.Exits {
		s.exits.add(x.Ident, x.Name)
	}
	for _, e := range w.Entrances {
		s.entrances.add(e.Ident, e.Name)
	}

	var flags, counters []items.Item
	if w.Items != nil {
		flags, counters = w.Items.Flags(), w.Items.Counters()
	}
	var errs []error
	s.flags, errs = itemEnum(typeFlagItem, "FlagItem is an item that is either held or not.", flags, errs)
	s.counters, errs = itemEnum(typeCounterItem, "CounterItem is an item held in a saturating count.", counters, errs)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for _, e := range s.all() {
		if len(e.consts) > MaxValues-1 {
			return nil, &TooManyValuesError{Type: e.typ, Count: len(e.consts)}
		}
	}
	return s, nil
}

func itemEnum(typ, doc string, list []items.Item, errs []error) (enum, []error) {
	e := newEnum(typ, doc, len(list))
	ns := naming.NewNamespace(lowerFirst(typ))
	ns.Reserve("Count")
	for _, it := range list {
		ident, err := ns.Add(it.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.add(ident, it.Name)
	}
	return e, errs
}
