// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"fmt"
	"strings"

	"github.com/invowk/worldc/pkg/logic"
)

type (
	// Node is a parsed, unresolved requirement.
	Node interface {
		// Offset is the byte offset of the node in the source text.
		Offset() int
		String() string
	}

	// LiteralNode is true/Nothing or false/Impossible.
	LiteralNode struct {
		Pos   int
		Value bool
	}

	// ItemNode is "Item name [count]".
	ItemNode struct {
		Pos  int
		Name string
		// Count is zero when no count was written.
		Count int
	}

	// EventNode is "Event name".
	EventNode struct {
		Pos  int
		Name string
	}

	// AreaNode is "Area name [(any|day|night)]".
	AreaNode struct {
		Pos  int
		Name string
		Time logic.TimeOfDay
	}

	// NameNode is a bare name: an item, event, area or macro.
	NameNode struct {
		Pos  int
		Name string
	}

	// AndNode requires every term.
	AndNode struct {
		Pos   int
		Terms []Node
	}

	// OrNode requires at least one term.
	OrNode struct {
		Pos   int
		Terms []Node
	}

	// NotNode inverts X.
	NotNode struct {
		Pos int
		X   Node
	}
)

func (n *LiteralNode) Offset() int { return n.Pos }
func (n *ItemNode) Offset() int    { return n.Pos }
func (n *EventNode) Offset() int   { return n.Pos }
func (n *AreaNode) Offset() int    { return n.Pos }
func (n *NameNode) Offset() int    { return n.Pos }
func (n *AndNode) Offset() int     { return n.Pos }
func (n *OrNode) Offset() int      { return n.Pos }
func (n *NotNode) Offset() int     { return n.Pos }

func (n *LiteralNode) String() string {
	if n.Value {
		return "true"
	}
	return "false"
}

func (n *ItemNode) String() string {
	if n.Count > 0 {
		return fmt.Sprintf("Item %s %d", quoteName(n.Name), n.Count)
	}
	return "Item " + quoteName(n.Name)
}

func (n *EventNode) String() string { return "Event " + quoteName(n.Name) }

func (n *AreaNode) String() string {
	return fmt.Sprintf("Area %s (%s)", quoteName(n.Name), timeQualifier(n.Time))
}

func (n *NameNode) String() string { return quoteName(n.Name) }

func (n *AndNode) String() string { return joinNodes(n.Terms, " && ") }
func (n *OrNode) String() string  { return joinNodes(n.Terms, " || ") }
func (n *NotNode) String() string { return "!" + group(n.X) }

func joinNodes(terms []Node, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = group(t)
	}
	return strings.Join(parts, sep)
}

func group(n Node) string {
	switch n.(type) {
	case *AndNode, *OrNode:
		return "(" + n.String() + ")"
	default:
		return n.String()
	}
}

func quoteName(name string) string {
	for i := 0; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return `"` + name + `"`
		}
	}
	if name == "" || !isIdentStart(name[0]) || keywords[name] {
		return `"` + name + `"`
	}
	return name
}

func timeQualifier(t logic.TimeOfDay) string {
	switch t {
	case logic.Day:
		return "day"
	case logic.Night:
		return "night"
	default:
		return "any"
	}
}
