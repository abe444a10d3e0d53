// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"github.com/invowk/worldc/pkg/logic"
)

// Expr is a compiled requirement. Flag and Counter hold item ordinals of
// their kind, Area and Event hold world-wide area and event ordinals.
type Expr = logic.Expr[int, int, int, int]

// True returns the requirement that always holds.
func True() Expr { return Expr{Op: logic.OpTrue} }

// False returns the requirement that never holds.
func False() Expr { return Expr{Op: logic.OpFalse} }

// Flag requires the flag item with ordinal f.
func Flag(f int) Expr { return Expr{Op: logic.OpFlag, Flag: f} }

// Count requires at least n of the counter item with ordinal c.
func Count(c int, n uint8) Expr { return Expr{Op: logic.OpCount, Counter: c, Count: n} }

// AreaAt requires area a to be reachable at time t.
func AreaAt(a int, t logic.TimeOfDay) Expr { return Expr{Op: logic.OpArea, Area: a, Time: t} }

// Event requires the event with ordinal e.
func Event(e int) Expr { return Expr{Op: logic.OpEvent, Event: e} }

// And is the normalized conjunction of terms: nested conjunctions are
// flattened, true terms and repeated terms are dropped, and any false term
// makes the whole conjunction false. No terms means true.
func And(terms ...Expr) Expr {
	return combine(logic.OpAnd, logic.OpTrue, logic.OpFalse, terms)
}

// Or is the normalized disjunction of terms, the dual of And.
func Or(terms ...Expr) Expr {
	return combine(logic.OpOr, logic.OpFalse, logic.OpTrue, terms)
}

// Not is the normalized negation of x.
func Not(x Expr) Expr {
	switch x.Op {
	case logic.OpTrue:
		return False()
	case logic.OpFalse:
		return True()
	case logic.OpNot:
		return x.Terms[0]
	}
	return Expr{Op: logic.OpNot, Terms: []Expr{x}}
}

// Equal reports whether a and b are the same expression.
func Equal(a, b Expr) bool {
	return a.String() == b.String()
}

func combine(op, identity, absorbing logic.Op, terms []Expr) Expr {
	out := make([]Expr, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	var add func(Expr) bool
	add = func(t Expr) bool {
		switch t.Op {
		case identity:
			return true
		case absorbing:
			return false
		case op:
			for _, sub := range t.Terms {
				if !add(sub) {
					return false
				}
			}
			return true
		}
		if key := t.String(); !seen[key] {
			seen[key] = true
			out = append(out, t)
		}
		return true
	}
	for _, t := range terms {
		if !add(t) {
			return Expr{Op: absorbing}
		}
	}

	out = absorbAreas(op, out)

	switch len(out) {
	case 0:
		return Expr{Op: identity}
	case 1:
		return out[0]
	}
	return Expr{Op: op, Terms: out}
}

// absorbAreas merges area terms on the same area. A Day or Night term
// implies the AnyTime term, so a conjunction keeps the specific time and a
// disjunction keeps AnyTime. Day or Night together is AnyTime.
func absorbAreas(op logic.Op, terms []Expr) []Expr {
	times := make(map[int]logic.TimeOfDay)
	specific := make(map[int]bool)
	for _, t := range terms {
		if t.Op != logic.OpArea {
			continue
		}
		times[t.Area] |= t.Time
		if t.Time.IsSingle() {
			specific[t.Area] = true
		}
	}
	if len(times) == 0 {
		return terms
	}

	out := make([]Expr, 0, len(terms))
	emitted := make(map[int]bool, len(times))
	for _, t := range terms {
		switch {
		case t.Op != logic.OpArea:
		case op == logic.OpAnd:
			if t.Time == logic.AnyTime && specific[t.Area] {
				continue
			}
		case op == logic.OpOr:
			if emitted[t.Area] {
				continue
			}
			emitted[t.Area] = true
			t.Time = times[t.Area]
		}
		out = append(out, t)
	}
	return out
}
