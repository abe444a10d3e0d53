// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/pkg/logic"
)

// NoOrdinal marks the absence of a stage or area in a Site.
const NoOrdinal = -1

// Global is the site of global macros: no current stage or area.
var Global = Site{Stage: NoOrdinal, Area: NoOrdinal}

type (
	// Symbols resolves base references to ordinals.
	Symbols interface {
		// Item looks up a registered item by name.
		Item(name string) (items.Item, bool)
		// Event looks up an event that some area defines.
		Event(name string) (int, bool)
		// Area looks up name as an area of stage (NoOrdinal for none) or as
		// a qualified "Stage - Area" name.
		Area(stage int, name string) (int, bool)
	}

	// Site is where requirement text is written: the ordinals of the
	// current stage and area, or NoOrdinal.
	Site struct {
		Stage int
		Area  int
	}

	// Compiler compiles requirement text against a fixed set of symbols.
	// It is not safe for concurrent use.
	Compiler struct {
		symbols   Symbols
		undefined func(name string) (int, bool)
		expanding []*macro
	}

	// Option configures a Compiler.
	Option func(*Compiler)
)

// AtArea is the site of an area.
func AtArea(stage, area int) Site {
	return Site{Stage: stage, Area: area}
}

// WithUndefinedEvents makes an explicit "Event name" reference to an event
// no area defines resolve through fn instead of failing. fn reports false
// to reject the name.
func WithUndefinedEvents(fn func(name string) (int, bool)) Option {
	return func(c *Compiler) {
		c.undefined = fn
	}
}

// New creates a Compiler resolving names through symbols.
func New(symbols Symbols, opts ...Option) *Compiler {
	c := &Compiler{symbols: symbols}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses text and resolves it at site, looking macros up in scope
// and its parents. The result contains no macro references.
func (c *Compiler) Compile(text string, site Site, scope *MacroTable) (Expr, error) {
	return c.compileText(text, site, scope)
}

// CompileOwned compiles text like Compile and conjoins the requirement
// that the site's area is reachable, so the result can never hold without
// standing in the owning area.
func (c *Compiler) CompileOwned(text string, site Site, scope *MacroTable) (Expr, error) {
	x, err := c.compileText(text, site, scope)
	if err != nil {
		return Expr{}, err
	}
	if site.Area == NoOrdinal {
		return x, nil
	}
	return And(x, AreaAt(site.Area, logic.AnyTime)), nil
}

func (c *Compiler) compileText(text string, site Site, scope *MacroTable) (Expr, error) {
	ast, err := Parse(text)
	if err != nil {
		return Expr{}, err
	}
	return c.compileNode(ast, site, scope)
}

func (c *Compiler) compileNode(n Node, site Site, scope *MacroTable) (Expr, error) {
	switch n := n.(type) {
	case *LiteralNode:
		if n.Value {
			return True(), nil
		}
		return False(), nil
	case *ItemNode:
		it, ok := c.symbols.Item(n.Name)
		if !ok {
			return Expr{}, &UnknownItemError{Name: n.Name}
		}
		return itemExpr(it, n.Count)
	case *EventNode:
		if e, ok := c.symbols.Event(n.Name); ok {
			return Event(e), nil
		}
		if c.undefined != nil {
			if e, ok := c.undefined(n.Name); ok {
				return Event(e), nil
			}
		}
		return Expr{}, &UnknownEventError{Name: n.Name}
	case *AreaNode:
		a, ok := c.symbols.Area(site.Stage, n.Name)
		if !ok {
			return Expr{}, &UnknownAreaError{Name: n.Name}
		}
		return AreaAt(a, n.Time), nil
	case *NameNode:
		return c.compileName(n.Name, site, scope)
	case *AndNode:
		terms, err := c.compileTerms(n.Terms, site, scope)
		if err != nil {
			return Expr{}, err
		}
		return And(terms...), nil
	case *OrNode:
		terms, err := c.compileTerms(n.Terms, site, scope)
		if err != nil {
			return Expr{}, err
		}
		return Or(terms...), nil
	case *NotNode:
		x, err := c.compileNode(n.X, site, scope)
		if err != nil {
			return Expr{}, err
		}
		return Not(x), nil
	}
	return Expr{}, &ParseError{Text: n.String(), Pos: n.Offset(), Msg: "unsupported node"}
}

func (c *Compiler) compileTerms(nodes []Node, site Site, scope *MacroTable) ([]Expr, error) {
	terms := make([]Expr, 0, len(nodes))
	for _, t := range nodes {
		x, err := c.compileNode(t, site, scope)
		if err != nil {
			return nil, err
		}
		terms = append(terms, x)
	}
	return terms, nil
}

// compileName resolves a bare name: item, event, area of the current stage,
// then macro from the innermost scope outwards.
func (c *Compiler) compileName(name string, site Site, scope *MacroTable) (Expr, error) {
	if it, ok := c.symbols.Item(name); ok {
		return itemExpr(it, 0)
	}
	if e, ok := c.symbols.Event(name); ok {
		return Event(e), nil
	}
	if a, ok := c.symbols.Area(site.Stage, name); ok {
		return AreaAt(a, logic.AnyTime), nil
	}
	if m, ok := scope.lookup(name); ok {
		return c.expand(m)
	}
	return Expr{}, &UnknownMacroError{Name: name, Scope: scope.Scope()}
}

func (c *Compiler) isBaseName(name string, site Site) bool {
	if _, ok := c.symbols.Item(name); ok {
		return true
	}
	if _, ok := c.symbols.Event(name); ok {
		return true
	}
	_, ok := c.symbols.Area(site.Stage, name)
	return ok
}

func itemExpr(it items.Item, count int) (Expr, error) {
	if it.Kind == items.KindFlag {
		if count > 1 {
			return Expr{}, &InvalidCountError{Item: it.Name, Count: count}
		}
		return Flag(it.Ordinal), nil
	}
	if count == 0 {
		count = 1
	}
	return Count(it.Ordinal, uint8(count)), nil
}
