// SPDX-License-Identifier: MPL-2.0

package logic

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

const (
	// OpTrue is always satisfied.
	OpTrue Op = iota
	// OpFalse is never satisfied.
	OpFalse
	// OpFlag requires the flag item Expr.Flag.
	OpFlag
	// OpCount requires at least Expr.Count of the counter item Expr.Counter.
	OpCount
	// OpArea requires Expr.Area to be reachable at Expr.Time.
	OpArea
	// OpEvent requires the event Expr.Event.
	OpEvent
	// OpAnd requires every term.
	OpAnd
	// OpOr requires at least one term.
	OpOr
	// OpNot inverts its single term.
	OpNot
)

// Op is the node kind of a requirement expression.
type Op uint8

// String returns the operator name.
func (o Op) String() string {
	switch o {
	case OpTrue:
		return "True"
	case OpFalse:
		return "False"
	case OpFlag:
		return "Flag"
	case OpCount:
		return "Count"
	case OpArea:
		return "Area"
	case OpEvent:
		return "Event"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	case OpNot:
		return "Not"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Expr is a fully resolved requirement expression over the generated flag
// item, counter item, area and event types. Only the fields relevant to Op
// are meaningful; macros never appear, they are expanded at compile time.
type Expr[F, C, A, E constraints.Integer] struct {
	Op      Op
	Flag    F
	Counter C
	Count   uint8
	Area    A
	Time    TimeOfDay
	Event   E
	Terms   []Expr[F, C, A, E]
}

// And combines terms with logical AND.
func And[F, C, A, E constraints.Integer](terms ...Expr[F, C, A, E]) Expr[F, C, A, E] {
	return Expr[F, C, A, E]{Op: OpAnd, Terms: terms}
}

// Or combines terms with logical OR.
func Or[F, C, A, E constraints.Integer](terms ...Expr[F, C, A, E]) Expr[F, C, A, E] {
	return Expr[F, C, A, E]{Op: OpOr, Terms: terms}
}

// Not inverts x.
func Not[F, C, A, E constraints.Integer](x Expr[F, C, A, E]) Expr[F, C, A, E] {
	return Expr[F, C, A, E]{Op: OpNot, Terms: []Expr[F, C, A, E]{x}}
}

// Walk calls fn for x and then for every descendant in depth-first order,
// skipping the children of any node for which fn returns false.
func (x Expr[F, C, A, E]) Walk(fn func(Expr[F, C, A, E]) bool) {
	if !fn(x) {
		return
	}
	for _, t := range x.Terms {
		t.Walk(fn)
	}
}

// String renders x in a compact prefix form using ordinals, mainly for tests
// and debugging of generated tables.
func (x Expr[F, C, A, E]) String() string {
	var sb strings.Builder
	x.write(&sb)
	return sb.String()
}

func (x Expr[F, C, A, E]) write(sb *strings.Builder) {
	switch x.Op {
	case OpTrue, OpFalse:
		sb.WriteString(x.Op.String())
	case OpFlag:
		fmt.Fprintf(sb, "Flag(%d)", x.Flag)
	case OpCount:
		fmt.Fprintf(sb, "Count(%d, %d)", x.Counter, x.Count)
	case OpArea:
		fmt.Fprintf(sb, "Area(%d, %s)", x.Area, x.Time)
	case OpEvent:
		fmt.Fprintf(sb, "Event(%d)", x.Event)
	default:
		sb.WriteString(x.Op.String())
		sb.WriteByte('(')
		for i, t := range x.Terms {
			if i > 0 {
				sb.WriteString(", ")
			}
			t.write(sb)
		}
		sb.WriteByte(')')
	}
}
