// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invowk/worldc/internal/requirement"
	"github.com/invowk/worldc/pkg/logic"
)

// ExpectedKeys returns the requirement key of every declared location,
// exit, event and logic exit, in Key.Compare order.
func (w *World) ExpectedKeys() []Key {
	keys := make([]Key, 0, len(w.Locations)+len(w.Exits)+len(w.Events))
	for l := range w.Locations {
		keys = append(keys, LocationKey(l))
	}
	for x := range w.Exits {
		keys = append(keys, ExitKey(x))
	}
	for e := range w.Events {
		keys = append(keys, EventKey(e))
	}
	for a, area := range w.Areas {
		for _, t := range area.LogicExits {
			keys = append(keys, LogicExitKey(a, t))
		}
	}
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// Verify checks that w has exactly one requirement per declared entity and
// that every requirement references only existing items, areas and events.
// With strictEvents every referenced event must be defined by some area.
func Verify(w *World, strictEvents bool) error {
	var errs []error
	incomplete := &IncompleteRequirementsError{}

	expected := make(map[Key]bool)
	for _, k := range w.ExpectedKeys() {
		expected[k] = true
		if _, ok := w.Requirements[k]; !ok {
			incomplete.Missing = append(incomplete.Missing, w.Describe(k))
		}
	}

	all := make([]requirement.Expr, 0, len(w.Requirements))
	for _, k := range w.SortedKeys() {
		x := w.Requirements[k]
		if !expected[k] {
			incomplete.Orphans = append(incomplete.Orphans, k.String())
			continue
		}
		if bad := w.invalidReference(x); bad != "" {
			incomplete.Invalid = append(incomplete.Invalid, fmt.Sprintf("%s: %s", w.Describe(k), bad))
		}
		all = append(all, x)
	}
	if len(incomplete.Missing)+len(incomplete.Orphans)+len(incomplete.Invalid) > 0 {
		errs = append(errs, incomplete)
	}

	if strictEvents {
		refs := requirement.ReferencesOf(all...)
		for _, e := range requirement.Sorted(refs.Events) {
			if e < len(w.Events) && len(w.Events[e].Areas) == 0 {
				errs = append(errs, &requirement.UnknownEventError{Name: w.Events[e].Name})
			}
		}
	}
	return errors.Join(errs...)
}

// invalidReference describes the first out-of-range reference in x.
func (w *World) invalidReference(x requirement.Expr) string {
	flags, counters := 0, 0
	if w.Items != nil {
		flags, counters = w.Items.FlagCount(), w.Items.CounterCount()
	}
	var bad string
	x.Walk(func(n requirement.Expr) bool {
		if bad != "" {
			return false
		}
		switch n.Op {
		case logic.OpFlag:
			if n.Flag < 0 || n.Flag >= flags {
				bad = fmt.Sprintf("flag item %d", n.Flag)
			}
		case logic.OpCount:
			if n.Counter < 0 || n.Counter >= counters || n.Count == 0 {
				bad = fmt.Sprintf("counter item %d x%d", n.Counter, n.Count)
			}
		case logic.OpArea:
			if n.Area < 0 || n.Area >= len(w.Areas) || n.Time == 0 {
				bad = fmt.Sprintf("area %d", n.Area)
			}
		case logic.OpEvent:
			if n.Event < 0 || n.Event >= len(w.Events) {
				bad = fmt.Sprintf("event %d", n.Event)
			}
		}
		return true
	})
	return bad
}
