// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"strconv"

	"github.com/invowk/worldc/internal/graph"
	"github.com/invowk/worldc/pkg/logic"
)

const (
	noExit     = "NoExit"
	noEntrance = "NoEntrance"
)

// worldGen renders WorldFile.
type worldGen struct {
	writer
	w    *graph.World
	syms *symbols
}

func generateWorld(w *graph.World, syms *symbols, opts Options) ([]byte, error) {
	g := &worldGen{w: w, syms: syms}

	g.writeLine(header)
	g.writeLine("")
	g.writeLine("package %s", opts.Package)
	g.writeLine("")
	g.open("import (")
	g.writeLine(`"fmt"`)
	g.writeLine("")
	g.writeLine("%s", strconv.Quote(opts.RuntimeImport))
	g.close(")")

	for _, e := range syms.all() {
		g.enum(e)
	}
	g.sentinels()
	g.regions()
	g.stages()
	g.areas()
	g.locations()
	g.events()
	g.exits()
	g.entrances()
	g.runtime()

	return g.source(WorldFile)
}

func (g *worldGen) enum(e *enum) {
	g.writeLine("")
	g.doc("%s", e.doc)
	g.writeLine("type %s uint16", e.typ)

	if len(e.consts) > 0 {
		g.writeLine("")
		g.open("const (")
		for i, c := range e.consts {
			g.writeLine("%s %s = %d", c, e.typ, i)
		}
		g.close(")")
	}

	names := lowerFirst(e.typ) + "Names"
	g.writeLine("")
	g.doc("%sCount is the number of %s values.", e.typ, e.typ)
	g.writeLine("const %sCount = %d", e.typ, len(e.consts))
	g.writeLine("")
	g.open("var %s = [%sCount]string{", names, e.typ)
	for i, c := range e.consts {
		g.writeLine("%s: %s,", c, strconv.Quote(e.names[i]))
	}
	g.close("}")
	g.writeLine("")
	g.doc("String returns the display name.")
	g.open("func (v %s) String() string {", e.typ)
	g.open("if int(v) < len(%s) {", names)
	g.writeLine("return %s[v]", names)
	g.close("}")
	g.writeLine(`return fmt.Sprintf("%s(%%d)", uint16(v))`, e.typ)
	g.close("}")
}

func (g *worldGen) sentinels() {
	g.writeLine("")
	g.open("const (")
	g.doc("NoExit marks an absent exit.")
	g.writeLine("%s %s = 0xFFFF", noExit, typeExit)
	g.doc("NoEntrance marks an absent entrance.")
	g.writeLine("%s %s = 0xFFFF", noEntrance, typeEntrance)
	g.close(")")
}

// scalar writes a per-value lookup table and its accessor. Entries equal
// to zero are left out of the literal.
func (g *worldGen) scalar(recv *enum, method, elem, doc string, values []string, zero string) {
	table := lowerFirst(recv.typ) + method
	g.writeLine("")
	g.open("var %s = [%sCount]%s{", table, recv.typ, elem)
	for i, v := range values {
		if v != zero {
			g.writeLine("%s: %s,", recv.consts[i], v)
		}
	}
	g.close("}")
	g.writeLine("")
	g.doc("%s", doc)
	g.writeLine("func (v %s) %s() %s { return %s[v] }", recv.typ, method, elem, table)
}

// list writes a per-value slice table and its accessor.
func (g *worldGen) list(recv *enum, method, elem, doc string, lists [][]string) {
	table := lowerFirst(recv.typ) + method
	g.writeLine("")
	g.open("var %s = [%sCount][]%s{", table, recv.typ, elem)
	for i, l := range lists {
		if len(l) == 0 {
			continue
		}
		g.open("%s: {", recv.consts[i])
		for _, v := range l {
			g.writeLine("%s,", v)
		}
		g.close("},")
	}
	g.close("}")
	g.writeLine("")
	g.doc("%s", doc)
	g.writeLine("func (v %s) %s() []%s { return %s[v] }", recv.typ, method, elem, table)
}

func refs(e *enum, ordinals []int) []string {
	out := make([]string, len(ordinals))
	for i, o := range ordinals {
		out[i] = e.consts[o]
	}
	return out
}

func ref(e *enum, ordinal int, none string) string {
	if ordinal == graph.None {
		return none
	}
	return e.consts[ordinal]
}

func timeOfDay(t logic.TimeOfDay) string {
	return "logic." + t.String()
}

func (g *worldGen) regions() {
	s := g.syms
	lists := make([][]string, len(g.w.Regions))
	for i, r := range g.w.Regions {
		lists[i] = refs(&s.stages, r.Stages)
	}
	g.list(&s.regions, "Stages", typeStage, "Stages returns the stages of the region.", lists)
}

func (g *worldGen) stages() {
	s := g.syms
	n := len(g.w.Stages)
	region, tod, areas := make([]string, n), make([]string, n), make([][]string, n)
	for i, st := range g.w.Stages {
		region[i] = s.regions.consts[st.Region]
		tod[i] = timeOfDay(st.TimeOfDay)
		areas[i] = refs(&s.areas, st.Areas)
	}
	g.scalar(&s.stages, "Region", typeRegion, "Region returns the region owning the stage.", region, "")
	g.scalar(&s.stages, "TimeOfDay", "logic.TimeOfDay", "TimeOfDay returns the stage default time of day.", tod, "")
	g.list(&s.stages, "Areas", typeArea, "Areas returns the areas of the stage.", areas)
}

func (g *worldGen) areas() {
	s := g.syms
	n := len(g.w.Areas)
	stage, tod, sleep := make([]string, n), make([]string, n), make([]string, n)
	locations, events, exits, entrances := make([][]string, n), make([][]string, n), make([][]string, n), make([][]string, n)
	logicExits, logicEntrances := make([][]string, n), make([][]string, n)
	for i, a := range g.w.Areas {
		stage[i] = s.stages.consts[a.Stage]
		tod[i] = timeOfDay(a.TimeOfDay)
		sleep[i] = strconv.FormatBool(a.CanSleep)
		locations[i] = refs(&s.locations, a.Locations)
		events[i] = refs(&s.events, a.Events)
		exits[i] = refs(&s.exits, a.Exits)
		entrances[i] = refs(&s.entrances, a.Entrances)
		logicExits[i] = refs(&s.areas, a.LogicExits)
		logicEntrances[i] = refs(&s.areas, a.LogicEntrances)
	}
	g.scalar(&s.areas, "Stage", typeStage, "Stage returns the stage owning the area.", stage, "")
	g.scalar(&s.areas, "TimeOfDay", "logic.TimeOfDay", "TimeOfDay returns the times of day possible in the area.", tod, "")
	g.scalar(&s.areas, "CanSleep", "bool", "CanSleep reports whether sleeping in the area switches the time of day.", sleep, "false")
	g.list(&s.areas, "Locations", typeLocation, "Locations returns the locations inside the area.", locations)
	g.list(&s.areas, "Events", typeEvent, "Events returns the events the area can grant.", events)
	g.list(&s.areas, "Exits", typeExit, "Exits returns the map exits leaving the area.", exits)
	g.list(&s.areas, "Entrances", typeEntrance, "Entrances returns the entrances arriving in the area.", entrances)
	g.list(&s.areas, "LogicExits", typeArea, "LogicExits returns the areas of the same stage reachable from the area.", logicExits)
	g.list(&s.areas, "LogicEntrances", typeArea, "LogicEntrances returns the areas whose logic exits lead to the area.", logicEntrances)
}

func (g *worldGen) locations() {
	s := g.syms
	area := make([]string, len(g.w.Locations))
	for i, l := range g.w.Locations {
		area[i] = s.areas.consts[l.Area]
	}
	g.scalar(&s.locations, "Area", typeArea, "Area returns the area holding the location.", area, "")
}

func (g *worldGen) events() {
	s := g.syms
	areas := make([][]string, len(g.w.Events))
	for i, e := range g.w.Events {
		areas[i] = refs(&s.areas, e.Areas)
	}
	g.list(&s.events, "Areas", typeArea, "Areas returns the areas that can grant the event.", areas)
}

func (g *worldGen) exits() {
	s := g.syms
	n := len(g.w.Exits)
	origin, target, entrance, coupled := make([]string, n), make([]string, n), make([]string, n), make([]string, n)
	pairing, paired := make([]string, n), make([]string, n)
	for i, x := range g.w.Exits {
		origin[i] = s.areas.consts[x.Origin]
		target[i] = s.areas.consts[x.Target]
		entrance[i] = s.entrances.consts[x.Entrance]
		coupled[i] = ref(&s.entrances, x.CoupledEntrance, noEntrance)
		pairing[i] = "logic." + x.Pairing.String()
		paired[i] = ref(&s.exits, x.PairedExit, noExit)
	}
	g.scalar(&s.exits, "Origin", typeArea, "Origin returns the area the exit leaves.", origin, "")
	g.scalar(&s.exits, "Target", typeArea, "Target returns the area the exit leads to.", target, "")
	g.scalar(&s.exits, "Entrance", typeEntrance, "Entrance returns the vanilla entrance of the exit.", entrance, "")
	g.scalar(&s.exits, "CoupledEntrance", typeEntrance,
		"CoupledEntrance returns the entrance at the origin that the reverse connection arrives through, or NoEntrance.", coupled, "")
	g.scalar(&s.exits, "Pairing", "logic.Pairing", "Pairing tells which side of a shared doorway the exit is.", pairing, "logic."+logic.Unpaired.String())
	g.scalar(&s.exits, "PairedExit", typeExit, "PairedExit returns the exit on the other side of the doorway, or NoExit.", paired, "")
}

func (g *worldGen) entrances() {
	s := g.syms
	n := len(g.w.Entrances)
	area, originStage, coupled := make([]string, n), make([]string, n), make([]string, n)
	exits := make([][]string, n)
	for i, e := range g.w.Entrances {
		area[i] = s.areas.consts[e.Area]
		originStage[i] = s.stages.consts[e.OriginStage]
		coupled[i] = ref(&s.exits, e.CoupledExit, noExit)
		exits[i] = refs(&s.exits, e.Exits)
	}
	g.scalar(&s.entrances, "Area", typeArea, "Area returns the area the entrance arrives in.", area, "")
	g.scalar(&s.entrances, "OriginStage", typeStage, "OriginStage returns the stage the entrance is reached from.", originStage, "")
	g.list(&s.entrances, "Exits", typeExit, "Exits returns the exits arriving through the entrance.", exits)
	g.scalar(&s.entrances, "CoupledExit", typeExit, "CoupledExit returns the exit whose coupled entrance this is, or NoExit.", coupled, "")
}

func (g *worldGen) runtime() {
	g.writeLine("")
	g.doc("Inventory is the item state of a playthrough.")
	g.writeLine("type Inventory = logic.Inventory[%s, %s]", typeFlagItem, typeCounterItem)
	g.writeLine("")
	g.doc("NewInventory returns an empty inventory sized for every item.")
	g.open("func NewInventory() Inventory {")
	g.writeLine("return logic.NewInventory[%s, %s](%sCount, %sCount)", typeFlagItem, typeCounterItem, typeFlagItem, typeCounterItem)
	g.close("}")
	g.writeLine("")
	g.doc("AreaTimes records at which times of day each area is reachable.")
	g.writeLine("type AreaTimes = logic.TimeSet[%s]", typeArea)
	g.writeLine("")
	g.doc("NewAreaTimes returns an AreaTimes with no area reachable.")
	g.open("func NewAreaTimes() AreaTimes {")
	g.writeLine("return logic.NewTimeSet[%s](%sCount)", typeArea, typeArea)
	g.close("}")
}
