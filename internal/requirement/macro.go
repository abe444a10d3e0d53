// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invowk/worldc/internal/dag"
)

const (
	unresolved macroState = iota
	expanding
	resolved
)

type (
	// Definition is one macro as written in a source file.
	Definition struct {
		Name string
		Text string
		// Origin is the source position, used in error messages.
		Origin string
	}

	// MacroTable is one macro scope. Bodies are compiled lexically: a
	// table's macros see the table itself, then its parent chain, and are
	// compiled at the table's Site.
	MacroTable struct {
		scope  string
		parent *MacroTable
		site   Site
		order  []string
		defs   map[string]*macro
	}

	macroState int

	macro struct {
		def   Definition
		table *MacroTable
		state macroState
		expr  Expr
		err   error
	}
)

// NewMacroTable creates a scope named scope (used in messages) whose macros
// are compiled at site and fall back to parent. Definition order is kept.
func NewMacroTable(scope string, parent *MacroTable, site Site, defs []Definition) (*MacroTable, error) {
	t := &MacroTable{
		scope:  scope,
		parent: parent,
		site:   site,
		defs:   make(map[string]*macro, len(defs)),
	}
	var errs []error
	for _, d := range defs {
		if _, dup := t.defs[d.Name]; dup {
			errs = append(errs, &DuplicateMacroError{Name: d.Name, Scope: scope})
			continue
		}
		t.defs[d.Name] = &macro{def: d, table: t}
		t.order = append(t.order, d.Name)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Scope returns the scope name.
func (t *MacroTable) Scope() string {
	if t == nil {
		return "global scope"
	}
	return t.scope
}

// Parent returns the enclosing scope, or nil.
func (t *MacroTable) Parent() *MacroTable { return t.parent }

// Names returns the macro names in definition order.
func (t *MacroTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Len returns the number of macros in this scope, excluding parents.
func (t *MacroTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// lookup finds name in t or its parents. A nil table finds nothing.
func (t *MacroTable) lookup(name string) (*macro, bool) {
	for s := t; s != nil; s = s.parent {
		if m, ok := s.defs[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Resolve compiles every macro of t, in dependency order. Macros of parent
// scopes are compiled on demand. Every failing macro is reported.
func (c *Compiler) Resolve(t *MacroTable) error {
	if t == nil || len(t.order) == 0 {
		return nil
	}

	g := dag.New()
	var errs []error
	for _, name := range t.order {
		g.AddNode(name)
		m := t.defs[name]
		ast, err := Parse(m.def.Text)
		if err != nil {
			m.state, m.err = resolved, c.macroError(m, err)
			errs = append(errs, m.err)
			continue
		}
		walkNames(ast, func(ref string) {
			if c.isBaseName(ref, t.site) {
				return
			}
			if _, local := t.defs[ref]; local {
				g.AddDependency(name, ref)
			}
		})
	}

	order, err := g.TopologicalSort()
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		// Dependency edges point from a macro to its users; report the
		// cycle in reference order instead.
		path := slices.Clone(cycle.Cycle)
		slices.Reverse(path)
		cycleErr := &MacroCycleError{Scope: t.scope, Cycle: path}
		for _, name := range path {
			if m := t.defs[name]; m.state != resolved {
				m.state, m.err = resolved, cycleErr
			}
		}
		errs = append(errs, cycleErr)
		// Compile the rest in declaration order; the cycle members already failed.
		order = t.order
	} else if err != nil {
		return err
	}

	for _, name := range order {
		m := t.defs[name]
		if m.state == resolved {
			continue
		}
		if _, err := c.expand(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// expand returns the compiled body of m, compiling it on first use.
// The expanding stack turns a reference cycle into a MacroCycleError
// instead of unbounded recursion.
func (c *Compiler) expand(m *macro) (Expr, error) {
	switch m.state {
	case resolved:
		return m.expr, m.err
	case expanding:
		cycle := []string{m.def.Name}
		for i := len(c.expanding) - 1; i >= 0; i-- {
			cycle = append([]string{c.expanding[i].def.Name}, cycle...)
			if c.expanding[i] == m {
				break
			}
		}
		return Expr{}, &MacroCycleError{Scope: m.table.scope, Cycle: cycle}
	}

	m.state = expanding
	c.expanding = append(c.expanding, m)
	x, err := c.compileText(m.def.Text, m.table.site, m.table)
	c.expanding = c.expanding[:len(c.expanding)-1]

	m.state, m.expr = resolved, x
	if err != nil {
		var cycle *MacroCycleError
		if errors.As(err, &cycle) {
			m.err = err
		} else {
			m.err = c.macroError(m, err)
		}
	}
	return m.expr, m.err
}

func (c *Compiler) macroError(m *macro, err error) error {
	return &CompileError{
		Subject: fmt.Sprintf("macro %q in %s", m.def.Name, m.table.scope),
		Origin:  m.def.Origin,
		Text:    m.def.Text,
		Err:     err,
	}
}

// walkNames calls fn for every bare name in n.
func walkNames(n Node, fn func(string)) {
	switch n := n.(type) {
	case *NameNode:
		fn(n.Name)
	case *AndNode:
		for _, t := range n.Terms {
			walkNames(t, fn)
		}
	case *OrNode:
		for _, t := range n.Terms {
			walkNames(t, fn)
		}
	case *NotNode:
		walkNames(n.X, fn)
	}
}
