// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/loader"
	"github.com/invowk/worldc/internal/requirement"
	"github.com/invowk/worldc/pkg/logic"
)

func TestBuild_CoupledExits(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(
		region("Underground", stage("Cave", loader.Area{
			Name:     "Entrance",
			MapExits: kv("Forest - Clearing (North)", "Item Torch"),
		})),
		region("Woods", stage("Forest", loader.Area{
			Name:     "Clearing",
			MapExits: kv("Cave - Entrance (North)", "true"),
		})),
	))

	if len(w.Exits) != 2 || len(w.Entrances) != 2 {
		t.Fatalf("got %d exits and %d entrances, want 2 and 2", len(w.Exits), len(w.Entrances))
	}

	caveExit, ok := w.ExitByName("Cave - Entrance to Forest - Clearing (North)")
	if !ok {
		t.Fatal("missing exit from the cave")
	}
	forestExit, ok := w.ExitByName("Forest - Clearing to Cave - Entrance (North)")
	if !ok {
		t.Fatal("missing exit from the forest")
	}
	for _, x := range []int{caveExit, forestExit} {
		if got := w.Exits[x].Disambiguation; got != "North" {
			t.Errorf("exit %q disambiguation = %q, want North", w.Exits[x].Name, got)
		}
	}

	intoForest, ok := w.EntranceByName("Forest - Clearing from Cave (North)")
	if !ok {
		t.Fatal("missing entrance into the forest")
	}
	intoCave, ok := w.EntranceByName("Cave - Entrance from Forest (North)")
	if !ok {
		t.Fatal("missing entrance into the cave")
	}
	if w.Exits[caveExit].Entrance != intoForest || w.Exits[forestExit].Entrance != intoCave {
		t.Error("exits should arrive through the synthesized entrances")
	}
	if w.Exits[caveExit].CoupledEntrance != intoCave || w.Exits[forestExit].CoupledEntrance != intoForest {
		t.Errorf("coupled entrances = %d/%d, want %d/%d",
			w.Exits[caveExit].CoupledEntrance, w.Exits[forestExit].CoupledEntrance, intoCave, intoForest)
	}

	want := requirement.And(requirement.Flag(0), requirement.AreaAt(w.Exits[caveExit].Origin, logic.AnyTime))
	if got := w.Requirements[ExitKey(caveExit)]; !requirement.Equal(got, want) {
		t.Errorf("cave exit requirement = %s, want %s", got, want)
	}

	checkCoupling(t, w)
}

// checkCoupling asserts that every coupled entrance sits at its exit's
// origin and leads back to the exit.
func checkCoupling(t *testing.T, w *World) {
	t.Helper()
	for _, exit := range w.Exits {
		if exit.CoupledEntrance == None {
			continue
		}
		ce := w.Entrances[exit.CoupledEntrance]
		if ce.Area != exit.Origin {
			t.Errorf("exit %q: coupled entrance %q is not at the origin", exit.Name, ce.Name)
		}
		if ce.CoupledExit != exit.Ordinal {
			t.Errorf("exit %q: coupled entrance leads back to exit %d", exit.Name, ce.CoupledExit)
		}
	}
}

func TestBuild_OneWayExitAndSharedEntrance(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(
		region("Woods",
			stage("Forest",
				loader.Area{Name: "North Ridge", MapExits: kv("Lake - Shore", "Axe")},
				loader.Area{Name: "South Ridge", MapExits: kv("Lake - Shore", "Torch")},
			),
			stage("Lake", loader.Area{Name: "Shore"}),
		),
	))

	if len(w.Exits) != 2 {
		t.Fatalf("got %d exits, want 2", len(w.Exits))
	}
	if len(w.Entrances) != 1 {
		t.Fatalf("exits from one stage to the same area share an entrance, got %d", len(w.Entrances))
	}
	ent := w.Entrances[0]
	if ent.Name != "Lake - Shore from Forest" {
		t.Errorf("entrance name = %q", ent.Name)
	}
	if diff := cmp.Diff([]int{0, 1}, ent.Exits); diff != "" {
		t.Errorf("entrance exits (-want +got):\n%s", diff)
	}
	for _, exit := range w.Exits {
		if exit.CoupledEntrance != None {
			t.Errorf("exit %q should be one-way", exit.Name)
		}
	}
	if ent.CoupledExit != None {
		t.Errorf("entrance coupled to exit %d", ent.CoupledExit)
	}
}

func TestBuild_EventsCombineWithOr(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(
		region("Woods", stage("Forest",
			loader.Area{Name: "Grove", Events: kv("GotKey", "Axe")},
			loader.Area{Name: "Clearing", Events: kv("GotKey", "Item Key_Piece 3")},
			loader.Area{Name: "Gate", Locations: kv("Gate Chest", "Event GotKey")},
		)),
	))

	e, ok := w.EventByName("GotKey")
	if !ok {
		t.Fatal("GotKey not declared")
	}
	if diff := cmp.Diff([]int{0, 1}, w.Events[e].Areas); diff != "" {
		t.Errorf("event areas (-want +got):\n%s", diff)
	}

	r1 := requirement.And(requirement.Flag(1), requirement.AreaAt(0, logic.AnyTime))
	r2 := requirement.And(requirement.Count(0, 3), requirement.AreaAt(1, logic.AnyTime))
	if got, want := w.Requirements[EventKey(e)], requirement.Or(r1, r2); !requirement.Equal(got, want) {
		t.Errorf("GotKey = %s, want %s", got, want)
	}

	want := requirement.And(requirement.Event(e), requirement.AreaAt(2, logic.AnyTime))
	if got := w.Requirements[LocationKey(0)]; !requirement.Equal(got, want) {
		t.Errorf("Gate Chest = %s, want %s", got, want)
	}
}

func TestBuild_DanglingExit(t *testing.T) {
	t.Parallel()

	_, err := Build(sources(
		region("Woods", stage("Forest",
			loader.Area{Name: "Grove", MapExits: kv("Swamp - Bog (East)", "true")},
		)),
	), testItems(t), Options{StrictEvents: true})

	var dangling *DanglingExitError
	if !errors.As(err, &dangling) {
		t.Fatalf("Build() error = %v, want *DanglingExitError", err)
	}
	if dangling.Key != "Swamp - Bog (East)" || dangling.Origin != "Forest - Grove" {
		t.Errorf("dangling = %+v", dangling)
	}
	if !strings.Contains(err.Error(), `"Swamp - Bog (East)"`) {
		t.Errorf("error should name the exit key: %v", err)
	}
	if got := issue.CategoryOf(err); got != issue.DanglingExitId {
		t.Errorf("CategoryOf() = %d, want DanglingExitId", got)
	}
}

func TestBuild_LogicExits(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(
		region("Woods",
			stage("Forest",
				loader.Area{Name: "Grove", LogicExits: kv("Clearing", "Axe", "Forest - Pond", "true")},
				loader.Area{Name: "Clearing", LogicExits: kv("Grove", "true", "Pond", "Torch")},
				loader.Area{Name: "Pond"},
			),
		),
	))

	const grove, clearing, pond = 0, 1, 2
	if diff := cmp.Diff([]int{clearing, pond}, w.Areas[grove].LogicExits); diff != "" {
		t.Errorf("Grove logic exits (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{grove, clearing}, w.Areas[pond].LogicEntrances); diff != "" {
		t.Errorf("Pond logic entrances (-want +got):\n%s", diff)
	}
	if len(w.Exits) != 0 || len(w.Entrances) != 0 {
		t.Error("logic exits must not synthesize map exits or entrances")
	}

	want := requirement.And(requirement.Flag(1), requirement.AreaAt(grove, logic.AnyTime))
	if got := w.Requirements[LogicExitKey(grove, clearing)]; !requirement.Equal(got, want) {
		t.Errorf("Grove -> Clearing = %s, want %s", got, want)
	}

	checkLogicInverse(t, w)
}

// checkLogicInverse asserts that logic entrances are exactly the inverse
// of logic exits.
func checkLogicInverse(t *testing.T, w *World) {
	t.Helper()
	for a := range w.Areas {
		var want []int
		for b := range w.Areas {
			for _, target := range w.Areas[b].LogicExits {
				if target == a {
					want = append(want, b)
				}
			}
		}
		if diff := cmp.Diff(want, w.Areas[a].LogicEntrances); diff != "" {
			t.Errorf("logic entrances of %s (-want +got):\n%s", w.FullName(a), diff)
		}
	}
}

func TestBuild_LogicExitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		exits  []loader.Entry
		reason string
	}{
		{name: "unknown target", exits: kv("Nowhere", "true"), reason: "no area of that name"},
		{name: "other stage", exits: kv("Lake - Shore", "true"), reason: "within stage Forest"},
		{name: "self", exits: kv("Grove", "true"), reason: "its own logic exit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(sources(region("Woods",
				stage("Forest", loader.Area{Name: "Grove", LogicExits: tt.exits}),
				stage("Lake", loader.Area{Name: "Shore"}),
			)), testItems(t), Options{StrictEvents: true})

			var dangling *DanglingExitError
			if !errors.As(err, &dangling) || !dangling.Logic {
				t.Fatalf("Build() error = %v, want logic *DanglingExitError", err)
			}
			if !strings.Contains(dangling.Reason, tt.reason) {
				t.Errorf("reason = %q, want %q", dangling.Reason, tt.reason)
			}
		})
	}
}

func TestBuild_TimeOfDayInheritance(t *testing.T) {
	t.Parallel()

	src := sources(region("Sky",
		stage("Isles",
			loader.Area{Name: "Inherit"},
			loader.Area{Name: "Nightly", TimeOfDay: "Night"},
		),
		loader.Stage{Name: "Clouds", TimeOfDay: "Both", Areas: []loader.Area{{Name: "Above"}}},
	))
	src.World.Regions[0].TimeOfDay = "Day"

	w := mustBuild(t, src)
	got := make([]logic.TimeOfDay, len(w.Areas))
	for i, a := range w.Areas {
		got[i] = a.TimeOfDay
	}
	if diff := cmp.Diff([]logic.TimeOfDay{logic.Day, logic.Night, logic.Both}, got); diff != "" {
		t.Errorf("area times (-want +got):\n%s", diff)
	}
	if w.Regions[0].TimeOfDay != logic.Day || w.Stages[1].TimeOfDay != logic.Both {
		t.Errorf("region/stage times = %s/%s", w.Regions[0].TimeOfDay, w.Stages[1].TimeOfDay)
	}
}

func TestBuild_StructureErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    *loader.Sources
		target error
	}{
		{
			name: "sleeping at a fixed time",
			src: sources(region("Sky", stage("Isles",
				loader.Area{Name: "Inn", CanSleep: true, TimeOfDay: "Day"},
			))),
			target: ErrSleepTimeOfDay,
		},
		{
			name: "duplicate stage across regions",
			src: sources(
				region("Sky", stage("Isles", loader.Area{Name: "A"})),
				region("Sea", stage("Isles", loader.Area{Name: "B"})),
			),
			target: ErrDuplicateStage,
		},
		{
			name:   "invalid time of day",
			src:    sources(region("Sky", stage("Isles", loader.Area{Name: "A", TimeOfDay: "Dusk"}))),
			target: logic.ErrInvalidTimeOfDay,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(tt.src, testItems(t), Options{StrictEvents: true})
			if !errors.Is(err, tt.target) {
				t.Errorf("Build() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestBuild_UndefinedEvents(t *testing.T) {
	t.Parallel()

	src := sources(region("Woods", stage("Forest",
		loader.Area{Name: "Grove", Locations: kv("Chest", "Event Sunrise")},
	)))

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		_, err := Build(src, testItems(t), Options{StrictEvents: true})
		if !errors.Is(err, requirement.ErrUnknownEvent) {
			t.Errorf("Build() error = %v, want ErrUnknownEvent", err)
		}
	})

	t.Run("relaxed", func(t *testing.T) {
		t.Parallel()

		w, err := Build(src, testItems(t), Options{StrictEvents: false})
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		e, ok := w.EventByName("Sunrise")
		if !ok || len(w.Events[e].Areas) != 0 {
			t.Fatalf("Sunrise should be declared without areas, got %+v", w.Events)
		}
		if got := w.Requirements[EventKey(e)]; got.Op != logic.OpFalse {
			t.Errorf("undefined event requirement = %s, want False", got)
		}
	})
}

func TestBuild_ReportsEveryRequirementError(t *testing.T) {
	t.Parallel()

	_, err := Build(sources(region("Woods", stage("Forest",
		loader.Area{
			Name:      "Grove",
			Locations: kv("Chest", "Item Sword", "Stump", "Axe &&"),
			Events:    kv("Lit", "canLight"),
		},
	))), testItems(t), Options{StrictEvents: true})

	for _, target := range []error{requirement.ErrUnknownItem, requirement.ErrSyntax, requirement.ErrUnknownMacro} {
		if !errors.Is(err, target) {
			t.Errorf("Build() error should include %v: %v", target, err)
		}
	}
	var ce *requirement.CompileError
	if !errors.As(err, &ce) || !strings.Contains(ce.Subject, "Forest - Grove") {
		t.Errorf("errors should name the owning area: %v", err)
	}
}

func TestBuild_LocalMacros(t *testing.T) {
	t.Parallel()

	src := sources(region("Woods", stage("Forest",
		loader.Area{
			Name:      "Grove",
			Macros:    kv("hasAxe", "Item Axe"),
			Locations: kv("Grove_Stump", "hasAxe && Area Grove (any)"),
		},
		loader.Area{Name: "Clearing", Locations: kv("Clearing Chest", "hasAxe")},
	)))
	src.Macros = kv("hasAxe", "Torch")

	w := mustBuild(t, src)
	stump := requirement.And(requirement.Flag(1), requirement.AreaAt(0, logic.AnyTime))
	if got := w.Requirements[LocationKey(0)]; !requirement.Equal(got, stump) {
		t.Errorf("Grove_Stump = %s, want %s", got, stump)
	}
	chest := requirement.And(requirement.Flag(0), requirement.AreaAt(1, logic.AnyTime))
	if got := w.Requirements[LocationKey(1)]; !requirement.Equal(got, chest) {
		t.Errorf("Clearing Chest = %s, want %s (global macro)", got, chest)
	}
}

func TestBuild_OwnAreaTimeOfDay(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(region("Woods", stage("Forest",
		loader.Area{
			Name: "Grove",
			Locations: kv(
				"Grove Owl", "Area Grove (night)",
				"Grove Lamp", "Torch && Area Grove (day)",
			),
		},
	))))
	tests := []struct {
		location int
		want     requirement.Expr
	}{
		{location: 0, want: requirement.AreaAt(0, logic.Night)},
		{location: 1, want: requirement.And(requirement.Flag(0), requirement.AreaAt(0, logic.Day))},
	}
	for _, tt := range tests {
		if got := w.Requirements[LocationKey(tt.location)]; !requirement.Equal(got, tt.want) {
			t.Errorf("%s = %s, want %s", w.Locations[tt.location].Name, got, tt.want)
		}
	}
}

func TestBuild_OrdinalDensity(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(
		region("Underground", stage("Cave",
			loader.Area{Name: "Entrance", MapExits: kv("Forest - Clearing (North)", "Torch"), Events: kv("Lit", "Torch")},
			loader.Area{Name: "Depths", Locations: kv("Deep Chest", "Event Lit"), LogicExits: kv("Entrance", "true")},
		)),
		region("Woods", stage("Forest",
			loader.Area{Name: "Clearing", MapExits: kv("Cave - Entrance (North)", "true"), Locations: kv("Clearing Chest", "true")},
		)),
	))

	check := func(kind string, ordinals []int) {
		t.Helper()
		for i, o := range ordinals {
			if o != i {
				t.Errorf("%s ordinals = %v, want 0..%d", kind, ordinals, len(ordinals)-1)
				return
			}
		}
	}
	ords := func(n int, get func(int) int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = get(i)
		}
		return out
	}
	check("region", ords(len(w.Regions), func(i int) int { return w.Regions[i].Ordinal }))
	check("stage", ords(len(w.Stages), func(i int) int { return w.Stages[i].Ordinal }))
	check("area", ords(len(w.Areas), func(i int) int { return w.Areas[i].Ordinal }))
	check("location", ords(len(w.Locations), func(i int) int { return w.Locations[i].Ordinal }))
	check("event", ords(len(w.Events), func(i int) int { return w.Events[i].Ordinal }))
	check("exit", ords(len(w.Exits), func(i int) int { return w.Exits[i].Ordinal }))
	check("entrance", ords(len(w.Entrances), func(i int) int { return w.Entrances[i].Ordinal }))

	if diff := cmp.Diff(w.ExpectedKeys(), w.SortedKeys()); diff != "" {
		t.Errorf("requirement keys (-want +got):\n%s", diff)
	}
	checkCoupling(t, w)
	checkLogicInverse(t, w)
}

func TestBuild_Identifiers(t *testing.T) {
	t.Parallel()

	w := mustBuild(t, sources(
		region("Sky", stage("Central Skyloft",
			loader.Area{Name: "Bazaar", Locations: kv("Gondo's Chest", "true")},
		)),
	))
	if got := w.Areas[0].Ident; got != "CentralSkyloftBazaar" {
		t.Errorf("area ident = %q", got)
	}
	if got := w.Locations[0].Ident; got != "SkyGondosChest" {
		t.Errorf("location ident = %q", got)
	}

	_, err := Build(sources(region("Sky",
		stage("Isles", loader.Area{Name: "Top", Locations: kv("Chest", "true")}),
		stage("Clouds", loader.Area{Name: "Top", Locations: kv("Chest", "true")}),
	)), testItems(t), Options{StrictEvents: true})
	if got := issue.CategoryOf(err); got != issue.NameCollisionId {
		t.Errorf("location collision: CategoryOf(%v) = %d, want NameCollisionId", err, got)
	}
}
