// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"errors"
	"strings"
	"testing"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/pkg/logic"
)

// Area ordinals of the test world: stage 0 is "Forest" (Grove, Clearing),
// stage 1 is "Cave" (Entrance).
const (
	grove = iota
	clearing
	caveEntrance
)

const (
	forest = iota
	cave
)

type testSymbols struct {
	items  *items.Registry
	events map[string]int
}

func (s testSymbols) Item(name string) (items.Item, bool) { return s.items.Lookup(name) }

func (s testSymbols) Event(name string) (int, bool) {
	e, ok := s.events[name]
	return e, ok
}

func (s testSymbols) Area(stage int, name string) (int, bool) {
	local := map[int]map[string]int{
		forest: {"Grove": grove, "Clearing": clearing},
		cave:   {"Entrance": caveEntrance},
	}
	if a, ok := local[stage][name]; ok {
		return a, true
	}
	qualified := map[string]int{
		"Forest - Grove":    grove,
		"Forest - Clearing": clearing,
		"Cave - Entrance":   caveEntrance,
	}
	a, ok := qualified[name]
	return a, ok
}

func newTestCompiler(t *testing.T, opts ...Option) *Compiler {
	t.Helper()
	reg, err := items.NewRegistry([]items.Entry{
		{Name: "Axe", Kind: items.KindFlag},
		{Name: "Torch", Kind: items.KindFlag},
		{Name: "Bomb_Bag", Kind: items.KindFlag},
		{Name: "Gratitude Crystal", Kind: items.KindCounter},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return New(testSymbols{items: reg, events: map[string]int{"GotKey": 0, "Open Gate": 1}}, opts...)
}

func mustTable(t *testing.T, scope string, parent *MacroTable, site Site, defs ...Definition) *MacroTable {
	t.Helper()
	tbl, err := NewMacroTable(scope, parent, site, defs)
	if err != nil {
		t.Fatalf("NewMacroTable() error = %v", err)
	}
	return tbl
}

func TestCompiler_GroveStumpScenario(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(t)
	site := AtArea(forest, grove)
	local := mustTable(t, "Forest - Grove", nil, site, Definition{Name: "hasAxe", Text: "Item Axe"})

	got, err := c.CompileOwned("hasAxe && Area Grove (any)", site, local)
	if err != nil {
		t.Fatalf("CompileOwned() error = %v", err)
	}
	want := And(Flag(0), AreaAt(grove, logic.AnyTime))
	if !Equal(got, want) {
		t.Errorf("CompileOwned() = %s, want %s", got, want)
	}
	if got.Op != logic.OpAnd || len(got.Terms) != 2 {
		t.Errorf("owner precondition should be merged, got %s", got)
	}
}

func TestCompiler_Compile(t *testing.T) {
	t.Parallel()

	site := AtArea(forest, clearing)
	tests := []struct {
		text string
		want Expr
	}{
		{text: "Nothing", want: True()},
		{text: "Impossible", want: False()},
		{text: "Item Torch", want: Flag(1)},
		{text: "Torch", want: Flag(1)},
		{text: "Item Torch 1", want: Flag(1)},
		{text: "Item Gratitude_Crystal 15", want: Count(0, 15)},
		{text: "Gratitude_Crystal", want: Count(0, 1)},
		{text: "Event GotKey", want: Event(0)},
		{text: `"Open Gate"`, want: Event(1)},
		{text: "Grove", want: AreaAt(grove, logic.AnyTime)},
		{text: "Area Grove (night)", want: AreaAt(grove, logic.Night)},
		{text: `Area "Cave - Entrance" (day)`, want: AreaAt(caveEntrance, logic.Day)},
		{text: "Axe Torch | Bomb_Bag", want: Or(And(Flag(0), Flag(1)), Flag(2))},
		{text: "Axe && Axe && (Torch && Axe)", want: And(Flag(0), Flag(1))},
		{text: "Axe | Nothing", want: True()},
		{text: "Axe && Impossible", want: False()},
		{text: "!!Axe", want: Flag(0)},
		{text: "!Nothing", want: False()},
		{text: "!Axe", want: Not(Flag(0))},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			c := newTestCompiler(t)
			got, err := c.Compile(tt.text, site, nil)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.text, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Compile(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestCompiler_CompileOwned(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(t)
	got, err := c.CompileOwned("Torch", AtArea(cave, caveEntrance), nil)
	if err != nil {
		t.Fatalf("CompileOwned() error = %v", err)
	}
	if want := And(Flag(1), AreaAt(caveEntrance, logic.AnyTime)); !Equal(got, want) {
		t.Errorf("CompileOwned() = %s, want %s", got, want)
	}

	// An impossible requirement stays impossible.
	got, err = c.CompileOwned("Impossible", AtArea(cave, caveEntrance), nil)
	if err != nil {
		t.Fatalf("CompileOwned() error = %v", err)
	}
	if got.Op != logic.OpFalse {
		t.Errorf("CompileOwned(Impossible) = %s, want False", got)
	}

	// No owning area, no precondition.
	got, err = c.CompileOwned("Torch", Global, nil)
	if err != nil {
		t.Fatalf("CompileOwned() error = %v", err)
	}
	if !Equal(got, Flag(1)) {
		t.Errorf("CompileOwned() at global site = %s", got)
	}
}

func TestCompiler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		target   error
		category issue.Id
	}{
		{text: "Item Sword", target: ErrUnknownItem, category: issue.UnresolvedReferenceId},
		{text: "Event Missing", target: ErrUnknownEvent, category: issue.UnresolvedReferenceId},
		{text: "Area Nowhere", target: ErrUnknownArea, category: issue.UnresolvedReferenceId},
		{text: "canFly", target: ErrUnknownMacro, category: issue.UnresolvedReferenceId},
		{text: "Item Axe 2", target: ErrInvalidCount, category: issue.UnresolvedReferenceId},
		{text: "Axe &&", target: ErrSyntax, category: issue.RequirementSyntaxId},
		{text: "Area Entrance", target: ErrUnknownArea, category: issue.UnresolvedReferenceId},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			c := newTestCompiler(t)
			_, err := c.Compile(tt.text, AtArea(forest, grove), nil)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Compile(%q) error = %v, want %v", tt.text, err, tt.target)
			}
			if got := issue.CategoryOf(err); got != tt.category {
				t.Errorf("CategoryOf() = %d, want %d", got, tt.category)
			}
		})
	}
}

func TestCompiler_UndefinedEvents(t *testing.T) {
	t.Parallel()

	var declared []string
	c := newTestCompiler(t, WithUndefinedEvents(func(name string) (int, bool) {
		declared = append(declared, name)
		return 7, true
	}))

	got, err := c.Compile("Event Missing", Global, nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !Equal(got, Event(7)) {
		t.Errorf("Compile() = %s, want Event(7)", got)
	}
	// A bare name never declares an event.
	if _, err := c.Compile("Missing", Global, nil); !errors.Is(err, ErrUnknownMacro) {
		t.Errorf("bare name error = %v, want ErrUnknownMacro", err)
	}
	if len(declared) != 1 || declared[0] != "Missing" {
		t.Errorf("declared = %v", declared)
	}
}

func TestCompileError(t *testing.T) {
	t.Parallel()

	err := &CompileError{
		Subject: `location "Chest" in Forest - Grove`,
		Origin:  "world/forest.yaml:4",
		Text:    "Item Sword",
		Err:     &UnknownItemError{Name: "Sword"},
	}
	msg := err.Error()
	for _, want := range []string{"world/forest.yaml:4: ", `location "Chest"`, `"Item Sword"`, `unknown item "Sword"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if got := issue.CategoryOf(err); got != issue.UnresolvedReferenceId {
		t.Errorf("CategoryOf() = %d", got)
	}
}
