// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/internal/loader"
	"github.com/invowk/worldc/internal/requirement"
	"github.com/invowk/worldc/pkg/logic"
)

type (
	// Options configures Build.
	Options struct {
		// StrictEvents rejects Event references to events no area defines.
		// When false such events are declared with an impossible requirement.
		StrictEvents bool
		// Logger receives progress and warnings. Nil discards them.
		Logger *log.Logger
	}

	builder struct {
		w     *World
		src   *loader.Sources
		opts  Options
		log   *log.Logger
		diags issue.Diagnostics

		compiler *requirement.Compiler
		global   *requirement.MacroTable
		// scopes and raw are indexed by area ordinal.
		scopes []*requirement.MacroTable
		raw    []loader.Area

		// eventTerms collects each event's per-area requirements.
		eventTerms     map[int][]requirement.Expr
		entranceByName map[string]int
	}
)

// Build resolves the loaded sources into a World. It reports every error it
// can find; structural errors stop the build before requirements are compiled.
func Build(src *loader.Sources, reg *items.Registry, opts Options) (*World, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &builder{
		w: &World{
			Items:        reg,
			Requirements: make(map[Key]requirement.Expr),
			stageByName:  make(map[string]int),
			areaByName:   make(map[string]int),
			eventByName:  make(map[string]int),
		},
		src:            src,
		opts:           opts,
		log:            logger,
		eventTerms:     make(map[int][]requirement.Expr),
		entranceByName: make(map[string]int),
	}

	b.structure()
	if err := b.diags.Err(); err != nil {
		return nil, err
	}
	b.collectEvents()

	var compilerOpts []requirement.Option
	if !opts.StrictEvents {
		compilerOpts = append(compilerOpts, requirement.WithUndefinedEvents(b.declareUndefinedEvent))
	}
	b.compiler = requirement.New(symbols{b.w}, compilerOpts...)

	b.macros()
	b.locations()
	b.eventRequirements()
	b.mapExits()
	b.logicExits()
	b.finishEvents()
	b.couple()
	b.pair()
	b.identifiers()
	if err := b.diags.Err(); err != nil {
		return nil, err
	}

	if err := Verify(b.w, opts.StrictEvents); err != nil {
		return nil, err
	}
	b.log.Debug("world graph built", b.w.Summary()...)
	return b.w, nil
}

// structure assigns region, stage and area ordinals and resolves the
// inherited time of day.
func (b *builder) structure() {
	w := b.w
	stagePos := make(map[string]loader.Pos)
	areaPos := make(map[string]loader.Pos)

	for _, rr := range b.src.World.Regions {
		region := Region{
			Name:      rr.Name,
			Ordinal:   len(w.Regions),
			TimeOfDay: b.timeOfDay(rr.TimeOfDay, logic.Both, rr.Pos),
		}

		for _, rs := range rr.Stages {
			if first, dup := stagePos[rs.Name]; dup {
				b.diags.Add(&DuplicateStageError{Name: rs.Name, Pos: rs.Pos, First: first})
				continue
			}
			stagePos[rs.Name] = rs.Pos

			stage := Stage{
				Name:      rs.Name,
				Ordinal:   len(w.Stages),
				Region:    region.Ordinal,
				TimeOfDay: b.timeOfDay(rs.TimeOfDay, region.TimeOfDay, rs.Pos),
			}
			w.stageByName[stage.Name] = stage.Ordinal

			for _, ra := range rs.Areas {
				area := Area{
					Name:      ra.Name,
					Ordinal:   len(w.Areas),
					Stage:     stage.Ordinal,
					TimeOfDay: b.timeOfDay(ra.TimeOfDay, stage.TimeOfDay, ra.Pos),
					CanSleep:  ra.CanSleep,
					Pos:       ra.Pos,
				}
				if area.CanSleep && area.TimeOfDay != logic.Both {
					b.diags.Add(&SleepTimeOfDayError{
						Area:      QualifiedName(stage.Name, area.Name),
						TimeOfDay: area.TimeOfDay,
						Pos:       ra.Pos,
					})
				}

				qualified := QualifiedName(stage.Name, area.Name)
				if first, dup := areaPos[qualified]; dup {
					b.diags.Add(&StructureError{
						Pos: ra.Pos,
						Err: fmt.Errorf("area name %q is ambiguous with the area declared at %s", qualified, first),
					})
					continue
				}
				areaPos[qualified] = ra.Pos
				w.areaByName[qualified] = area.Ordinal

				w.Areas = append(w.Areas, area)
				b.raw = append(b.raw, ra)
				stage.Areas = append(stage.Areas, area.Ordinal)
			}

			w.Stages = append(w.Stages, stage)
			region.Stages = append(region.Stages, stage.Ordinal)
		}

		w.Regions = append(w.Regions, region)
	}
}

// timeOfDay parses a declared time of day, falling back to inherited.
func (b *builder) timeOfDay(declared string, inherited logic.TimeOfDay, pos loader.Pos) logic.TimeOfDay {
	if declared == "" {
		return inherited
	}
	tod, err := logic.ParseTimeOfDay(declared)
	if err != nil {
		b.diags.Add(&StructureError{Pos: pos, Err: err})
		return inherited
	}
	return tod
}

// collectEvents assigns event ordinals in first-declaration order.
func (b *builder) collectEvents() {
	w := b.w
	for a := range w.Areas {
		for _, entry := range b.raw[a].Events {
			e, ok := w.eventByName[entry.Key]
			if !ok {
				e = len(w.Events)
				w.Events = append(w.Events, Event{Name: entry.Key, Ordinal: e})
				w.eventByName[entry.Key] = e
			}
			w.Events[e].Areas = append(w.Events[e].Areas, a)
			w.Areas[a].Events = append(w.Areas[a].Events, e)
		}
	}
}

// declareUndefinedEvent adds an event that is referenced but never granted.
func (b *builder) declareUndefinedEvent(name string) (int, bool) {
	w := b.w
	if e, ok := w.eventByName[name]; ok {
		return e, true
	}
	e := len(w.Events)
	w.Events = append(w.Events, Event{Name: name, Ordinal: e})
	w.eventByName[name] = e
	b.log.Warn("event is referenced but no area defines it", "event", name)
	return e, true
}

func (b *builder) macros() {
	global, err := requirement.NewMacroTable("global macros", nil, requirement.Global, definitions(b.src.Macros))
	if err != nil {
		b.diags.Add(err)
		global, _ = requirement.NewMacroTable("global macros", nil, requirement.Global, nil)
	}
	b.global = global
	b.diags.Add(b.compiler.Resolve(global))

	b.scopes = make([]*requirement.MacroTable, len(b.w.Areas))
	for a := range b.w.Areas {
		b.scopes[a] = global
		if len(b.raw[a].Macros) == 0 {
			continue
		}
		local, err := requirement.NewMacroTable("macros of "+b.w.FullName(a), global, b.site(a), definitions(b.raw[a].Macros))
		if err != nil {
			b.diags.Add(err)
			continue
		}
		b.scopes[a] = local
		b.diags.Add(b.compiler.Resolve(local))
	}
	b.log.Debug("macros resolved", "global", global.Len())
}

func definitions(entries []loader.Entry) []requirement.Definition {
	defs := make([]requirement.Definition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, requirement.Definition{Name: e.Key, Text: e.Value, Origin: e.Pos.String()})
	}
	return defs
}

func (b *builder) site(area int) requirement.Site {
	return requirement.AtArea(b.w.Areas[area].Stage, area)
}

// compile compiles a requirement owned by area and records failures.
func (b *builder) compile(subject string, entry loader.Entry, area int) (requirement.Expr, bool) {
	x, err := b.compiler.CompileOwned(entry.Value, b.site(area), b.scopes[area])
	if err != nil {
		b.diags.Add(&requirement.CompileError{
			Subject: subject + " in " + b.w.FullName(area),
			Origin:  entry.Pos.String(),
			Text:    entry.Value,
			Err:     err,
		})
		return requirement.Expr{}, false
	}
	return x, true
}

func (b *builder) locations() {
	w := b.w
	for a := range w.Areas {
		for _, entry := range b.raw[a].Locations {
			l := len(w.Locations)
			w.Locations = append(w.Locations, Location{Name: entry.Key, Ordinal: l, Area: a, Pos: entry.Pos})
			w.Areas[a].Locations = append(w.Areas[a].Locations, l)
			if x, ok := b.compile(fmt.Sprintf("location %q", entry.Key), entry, a); ok {
				w.Requirements[LocationKey(l)] = x
			}
		}
	}
}

// eventRequirements compiles each area's contribution to its events.
func (b *builder) eventRequirements() {
	w := b.w
	for a := range w.Areas {
		for _, entry := range b.raw[a].Events {
			e := w.eventByName[entry.Key]
			if x, ok := b.compile(fmt.Sprintf("event %q", entry.Key), entry, a); ok {
				b.eventTerms[e] = append(b.eventTerms[e], x)
			}
		}
	}
}

// finishEvents combines every event's contributions with OR. Events
// without a defining area are impossible.
func (b *builder) finishEvents() {
	for e := range b.w.Events {
		b.w.Requirements[EventKey(e)] = requirement.Or(b.eventTerms[e]...)
	}
}

func (b *builder) logicExits() {
	w := b.w
	for a := range w.Areas {
		stage := w.Stages[w.Areas[a].Stage]
		seen := make(map[int]bool)
		for _, entry := range b.raw[a].LogicExits {
			target, ok := w.areaByName[QualifiedName(stage.Name, entry.Key)]
			if !ok {
				target, ok = w.areaByName[entry.Key]
			}
			var reason string
			switch {
			case !ok:
				reason = "no area of that name in stage " + stage.Name
			case w.Areas[target].Stage != stage.Ordinal:
				reason = "logic exits must stay within stage " + stage.Name + "; use map_exits"
			case target == a:
				reason = "an area cannot be its own logic exit"
			case seen[target]:
				reason = "target already listed"
			}
			if reason != "" {
				b.diags.Add(&DanglingExitError{Origin: w.FullName(a), Key: entry.Key, Logic: true, Reason: reason, Pos: entry.Pos})
				continue
			}
			seen[target] = true

			w.Areas[a].LogicExits = append(w.Areas[a].LogicExits, target)
			if x, ok := b.compile(fmt.Sprintf("logic exit to %q", entry.Key), entry, a); ok {
				w.Requirements[LogicExitKey(a, target)] = x
			}
		}
	}

	// Logic entrances are the inverse relation, never authored.
	for a := range w.Areas {
		for _, t := range w.Areas[a].LogicExits {
			w.Areas[t].LogicEntrances = append(w.Areas[t].LogicEntrances, a)
		}
	}
}

// symbols resolves requirement references against the world under construction.
type symbols struct{ w *World }

func (s symbols) Item(name string) (items.Item, bool) {
	if s.w.Items == nil {
		return items.Item{}, false
	}
	return s.w.Items.Lookup(name)
}

// Event only finds events some area defines, so that declaring an
// undefined event never changes how a bare name resolves.
func (s symbols) Event(name string) (int, bool) {
	e, ok := s.w.eventByName[name]
	if !ok || len(s.w.Events[e].Areas) == 0 {
		return requirement.NoOrdinal, false
	}
	return e, true
}

func (s symbols) Area(stage int, name string) (int, bool) {
	if stage != requirement.NoOrdinal {
		if a, ok := s.w.areaByName[QualifiedName(s.w.Stages[stage].Name, name)]; ok {
			return a, true
		}
	}
	a, ok := s.w.areaByName[name]
	return a, ok
}
