// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"fmt"

	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/internal/loader"
	"github.com/invowk/worldc/internal/requirement"
	"github.com/invowk/worldc/pkg/logic"
)

// None marks an absent exit or entrance reference.
const None = -1

type (
	// Region is the outermost containment level.
	Region struct {
		Name      string
		Ident     string
		Ordinal   int
		TimeOfDay logic.TimeOfDay
		Stages    []int
	}

	// Stage is a named map inside a region.
	Stage struct {
		Name      string
		Ident     string
		Ordinal   int
		Region    int
		TimeOfDay logic.TimeOfDay
		Areas     []int
	}

	// Area is the finest reachability unit.
	Area struct {
		// Name is unique within the owning stage only; see FullName.
		Name      string
		Ident     string
		Ordinal   int
		Stage     int
		TimeOfDay logic.TimeOfDay
		CanSleep  bool
		Pos       loader.Pos

		Locations []int
		// Events lists the events this area can grant.
		Events         []int
		Exits          []int
		Entrances      []int
		LogicExits     []int
		LogicEntrances []int
	}

	// Location is a point of interest inside one area.
	Location struct {
		Name    string
		Ident   string
		Ordinal int
		Area    int
		Pos     loader.Pos
	}

	// Event is a derived fact granted by any of its areas.
	Event struct {
		Name    string
		Ident   string
		Ordinal int
		// Areas is empty for an event that is referenced but never defined,
		// which is only allowed when event checking is relaxed.
		Areas []int
	}

	// Exit is a map exit from one area to an area of another stage.
	Exit struct {
		Name           string
		Ident          string
		Ordinal        int
		Origin         int
		Target         int
		Entrance       int
		Disambiguation string
		// CoupledEntrance is the entrance at Origin that traversing this exit
		// backwards arrives through, or None.
		CoupledEntrance int
		Pairing         logic.Pairing
		// PairedExit is the exit on the other side of the same doorway, or None.
		PairedExit int
		// Key is the map_exits key as written.
		Key string
		Pos loader.Pos
	}

	// Entrance is the arrival point of one or more exits.
	Entrance struct {
		Name           string
		Ident          string
		Ordinal        int
		Area           int
		OriginStage    int
		Disambiguation string
		// Exits lists every exit arriving through this entrance.
		Exits []int
		// CoupledExit is the exit whose CoupledEntrance is this entrance, or None.
		CoupledExit int
	}

	// World is the resolved world model.
	World struct {
		Regions   []Region
		Stages    []Stage
		Areas     []Area
		Locations []Location
		Events    []Event
		Exits     []Exit
		Entrances []Entrance
		Items     *items.Registry

		// Requirements holds one compiled requirement per location, exit,
		// event and logic exit.
		Requirements map[Key]requirement.Expr

		stageByName map[string]int
		areaByName  map[string]int
		eventByName map[string]int
	}
)

// FullName returns the stage-qualified area name, e.g. "Skyloft - Bazaar".
func (w *World) FullName(area int) string {
	a := w.Areas[area]
	return QualifiedName(w.Stages[a.Stage].Name, a.Name)
}

// QualifiedName joins a stage and an area name.
func QualifiedName(stage, area string) string {
	return stage + " - " + area
}

// StageByName returns the stage ordinal of name.
func (w *World) StageByName(name string) (int, bool) {
	s, ok := w.stageByName[name]
	return s, ok
}

// AreaByName returns the area ordinal of a stage-qualified name.
func (w *World) AreaByName(qualified string) (int, bool) {
	a, ok := w.areaByName[qualified]
	return a, ok
}

// EventByName returns the event ordinal of name.
func (w *World) EventByName(name string) (int, bool) {
	e, ok := w.eventByName[name]
	return e, ok
}

// ExitByName returns the exit with the given display name.
func (w *World) ExitByName(name string) (int, bool) {
	for _, e := range w.Exits {
		if e.Name == name {
			return e.Ordinal, true
		}
	}
	return None, false
}

// EntranceByName returns the entrance with the given display name.
func (w *World) EntranceByName(name string) (int, bool) {
	for _, e := range w.Entrances {
		if e.Name == name {
			return e.Ordinal, true
		}
	}
	return None, false
}

// Summary returns the entity counts for logging.
func (w *World) Summary() []any {
	return []any{
		"regions", len(w.Regions),
		"stages", len(w.Stages),
		"areas", len(w.Areas),
		"locations", len(w.Locations),
		"events", len(w.Events),
		"exits", len(w.Exits),
		"entrances", len(w.Entrances),
		"requirements", len(w.Requirements),
	}
}

func (w *World) String() string {
	return fmt.Sprintf("world(%d regions, %d areas, %d exits)", len(w.Regions), len(w.Areas), len(w.Exits))
}
