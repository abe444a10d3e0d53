// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"github.com/invowk/worldc/internal/naming"
)

// reserved are identifiers the emitter derives for every enumeration, such
// as AreaCount.
var reserved = []string{"Count"}

func namespace(kind string) *naming.Namespace {
	ns := naming.NewNamespace(kind)
	ns.Reserve(reserved...)
	return ns
}

// identifiers derives the Go identifier of every entity. Areas are
// qualified by their stage and locations by their region, since those
// names are only unique within the owner.
func (b *builder) identifiers() {
	w := b.w
	assign := func(ns *naming.Namespace, key, ident string) string {
		if err := ns.Assign(key, ident); err != nil {
			b.diags.Add(err)
		}
		return ident
	}

	regions := namespace("region")
	for i := range w.Regions {
		r := &w.Regions[i]
		r.Ident = assign(regions, r.Name, naming.Identifier(r.Name))
	}

	stages := namespace("stage")
	for i := range w.Stages {
		s := &w.Stages[i]
		s.Ident = assign(stages, s.Name, naming.Identifier(s.Name))
	}

	areas := namespace("area")
	for i := range w.Areas {
		a := &w.Areas[i]
		a.Ident = assign(areas, w.FullName(i), naming.Join(w.Stages[a.Stage].Name, a.Name))
	}

	locations := namespace("location")
	for i := range w.Locations {
		l := &w.Locations[i]
		region := w.Regions[w.Stages[w.Areas[l.Area].Stage].Region].Name
		l.Ident = assign(locations, region+" - "+l.Name, naming.Join(region, l.Name))
	}

	events := namespace("event")
	for i := range w.Events {
		e := &w.Events[i]
		e.Ident = assign(events, e.Name, naming.Identifier(e.Name))
	}

	exits := namespace("exit")
	for i := range w.Exits {
		x := &w.Exits[i]
		x.Ident = assign(exits, x.Name, naming.Identifier(x.Name))
	}

	entrances := namespace("entrance")
	for i := range w.Entrances {
		e := &w.Entrances[i]
		e.Ident = assign(entrances, e.Name, naming.Identifier(e.Name))
	}
}
