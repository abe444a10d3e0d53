// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/invowk/worldc/internal/graph"
	"github.com/invowk/worldc/internal/requirement"
	"github.com/invowk/worldc/pkg/logic"
)

// inlineWidth is the longest And/Or/Not call kept on one line.
const inlineWidth = 100

// requirementKinds maps key kinds to the generated RequirementKind constants.
var requirementKinds = map[graph.KeyKind]string{
	graph.KeyLocation:  "RequirementLocation",
	graph.KeyExit:      "RequirementExit",
	graph.KeyEvent:     "RequirementEvent",
	graph.KeyLogicExit: "RequirementLogicExit",
}

func generateRequirements(w *graph.World, syms *symbols, opts Options) ([]byte, error) {
	g := &writer{}
	g.writeLine(header)
	g.writeLine("")
	g.writeLine("package %s", opts.Package)
	g.writeLine("")
	g.writeLine("import %s", strconv.Quote(opts.RuntimeImport))
	g.writeLine("")
	g.writeLine(requirementPrelude)

	g.writeLine("")
	g.doc("Requirements holds the compiled requirement of every location, exit,")
	g.doc("event and logic exit.")
	g.open("var Requirements = map[RequirementKey]Requirement{")
	for _, k := range w.SortedKeys() {
		key, err := keyLiteral(k, syms)
		if err != nil {
			return nil, err
		}
		g.writeLine("")
		g.doc("%s", w.Describe(k))
		g.writeLine("%s: %s,", key, renderExpr(w.Requirements[k], syms, g.indent))
	}
	g.close("}")

	return g.source(RequirementsFile)
}

func keyLiteral(k graph.Key, syms *symbols) (string, error) {
	kind, ok := requirementKinds[k.Kind]
	if !ok {
		return "", fmt.Errorf("emit: unknown requirement key kind %s", k.Kind)
	}
	var id string
	switch k.Kind {
	case graph.KeyLocation:
		id = syms.locations.consts[k.ID]
	case graph.KeyExit:
		id = syms.exits.consts[k.ID]
	case graph.KeyEvent:
		id = syms.events.consts[k.ID]
	case graph.KeyLogicExit:
		return fmt.Sprintf("{Kind: %s, ID: uint16(%s), To: %s}", kind, syms.areas.consts[k.ID], syms.areas.consts[k.To]), nil
	}
	return fmt.Sprintf("{Kind: %s, ID: uint16(%s)}", kind, id), nil
}

// renderExpr renders x as a Go expression built from the prelude helpers.
// Calls that do not fit inlineWidth put one term per line.
func renderExpr(x requirement.Expr, syms *symbols, depth int) string {
	switch x.Op {
	case logic.OpTrue:
		return "always"
	case logic.OpFalse:
		return "never"
	case logic.OpFlag:
		return fmt.Sprintf("flag(%s)", syms.flags.consts[x.Flag])
	case logic.OpCount:
		return fmt.Sprintf("count(%s, %d)", syms.counters.consts[x.Counter], x.Count)
	case logic.OpArea:
		return fmt.Sprintf("area(%s, %s)", syms.areas.consts[x.Area], timeOfDay(x.Time))
	case logic.OpEvent:
		return fmt.Sprintf("event(%s)", syms.events.consts[x.Event])
	}

	fn := strings.ToLower(x.Op.String())
	terms := make([]string, len(x.Terms))
	width := len(fn) + 2
	for i, t := range x.Terms {
		terms[i] = renderExpr(t, syms, depth+1)
		width += len(terms[i]) + 2
	}
	if width <= inlineWidth && !strings.Contains(strings.Join(terms, ""), "\n") {
		return fn + "(" + strings.Join(terms, ", ") + ")"
	}

	var sb strings.Builder
	pad := strings.Repeat("\t", depth+1)
	sb.WriteString(fn + "(\n")
	for _, t := range terms {
		sb.WriteString(pad + t + ",\n")
	}
	sb.WriteString(strings.Repeat("\t", depth) + ")")
	return sb.String()
}

const requirementPrelude = `// Requirement is a compiled requirement over the enumerations of this world.
type Requirement = logic.Expr[FlagItem, CounterItem, Area, Event]

// State is the progress a Requirement is evaluated against.
type State = logic.State[FlagItem, CounterItem, Area, Event]

// NewState returns an empty State sized for this world.
func NewState() State {
	return logic.NewState[FlagItem, CounterItem, Area, Event](FlagItemCount, CounterItemCount, AreaCount, EventCount)
}

// RequirementKind is the kind of entity a requirement belongs to.
type RequirementKind uint8

const (
	RequirementLocation RequirementKind = iota
	RequirementExit
	RequirementEvent
	RequirementLogicExit
)

// RequirementKey identifies one requirement. ID is the Location, Exit or
// Event ordinal, or the origin Area of a logic exit; To is the target Area
// of a logic exit.
type RequirementKey struct {
	Kind RequirementKind
	ID   uint16
	To   Area
}

// RequirementKey returns the key of the location's requirement.
func (v Location) RequirementKey() RequirementKey {
	return RequirementKey{Kind: RequirementLocation, ID: uint16(v)}
}

// RequirementKey returns the key of the exit's requirement.
func (v Exit) RequirementKey() RequirementKey {
	return RequirementKey{Kind: RequirementExit, ID: uint16(v)}
}

// RequirementKey returns the key of the event's requirement.
func (v Event) RequirementKey() RequirementKey {
	return RequirementKey{Kind: RequirementEvent, ID: uint16(v)}
}

// LogicExitKey returns the key of the logic exit from -> to.
func LogicExitKey(from, to Area) RequirementKey {
	return RequirementKey{Kind: RequirementLogicExit, ID: uint16(from), To: to}
}

// Requirement returns the requirement of the location.
func (v Location) Requirement() Requirement { return Requirements[v.RequirementKey()] }

// Requirement returns the requirement of the exit.
func (v Exit) Requirement() Requirement { return Requirements[v.RequirementKey()] }

// Requirement returns the requirement of the event.
func (v Event) Requirement() Requirement { return Requirements[v.RequirementKey()] }

var (
	always = Requirement{Op: logic.OpTrue}
	never  = Requirement{Op: logic.OpFalse}
)

func and(terms ...Requirement) Requirement { return logic.And(terms...) }

func or(terms ...Requirement) Requirement { return logic.Or(terms...) }

func not(x Requirement) Requirement { return logic.Not(x) }

func flag(f FlagItem) Requirement { return Requirement{Op: logic.OpFlag, Flag: f} }

func count(c CounterItem, n uint8) Requirement {
	return Requirement{Op: logic.OpCount, Counter: c, Count: n}
}

func area(a Area, t logic.TimeOfDay) Requirement {
	return Requirement{Op: logic.OpArea, Area: a, Time: t}
}

func event(e Event) Requirement { return Requirement{Op: logic.OpEvent, Event: e} }`
