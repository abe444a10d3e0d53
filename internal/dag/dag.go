// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed graph ordering and cycle detection. The
// requirement compiler uses it to order macro definitions so that every macro
// is compiled after the macros its body references, and to report reference
// cycles as data errors.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle is a closed path through the graph: the first node is repeated
		// at the end (e.g. ["a", "b", "a"]). A self-reference is ["a", "a"].
		Cycle []string
	}

	// Graph is a directed graph over string keys. An edge from A to B means
	// "A must be handled before B", i.e. B depends on A.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors in insertion order.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("reference cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added.
// Repeated edges are stored once.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.adjacency[from], to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// AddDependency records that node depends on dependency, so dependency is
// ordered first.
func (g *Graph) AddDependency(node, dependency string) {
	g.AddEdge(dependency, node)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// TopologicalSort returns an order in which every node follows all of its
// dependencies, using Kahn's algorithm. The order is deterministic: among
// ready nodes, the one added to the graph first comes first.
// Returns *CycleError if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	position := make(map[string]int, len(g.nodes))
	inDegree := make(map[string]int, len(g.nodes))
	for i, node := range g.nodes {
		position[node] = i
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	var ready []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			ready = append(ready, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		result = append(result, node)

		released := false
		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				ready = append(ready, neighbor)
				released = true
			}
		}
		if released {
			// Keep declaration order among everything that is ready.
			slices.SortStableFunc(ready, func(a, b string) int {
				return position[a] - position[b]
			})
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.FindCycle()}
	}

	return result, nil
}

// FindCycle returns one closed cycle path, or nil if the graph is acyclic.
// The search starts from nodes in insertion order so the result is stable.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		state[node] = onStack
		stack = append(stack, node)
		for _, next := range g.adjacency[node] {
			switch state[next] {
			case onStack:
				start := slices.Index(stack, next)
				cycle := slices.Clone(stack[start:])
				return append(cycle, next)
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	for _, node := range g.nodes {
		if state[node] == unvisited {
			if cycle := visit(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
