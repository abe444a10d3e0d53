// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

// documentRoot returns the top-level content node, or nil for an empty document.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return resolve(doc.Content[0])
	}
	if doc.Kind == 0 {
		return nil
	}
	return resolve(doc)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// mappingPairs returns the key/value pairs of a mapping node in document
// order, rejecting duplicate keys. A null node is an empty mapping.
func mappingPairs(file string, n *yaml.Node) ([]pair, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, unexpected(file, n, "mapping")
	}

	pairs := make([]pair, 0, len(n.Content)/2)
	seen := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], resolve(n.Content[i+1])
		if first, dup := seen[k.Value]; dup {
			return nil, &DuplicateKeyError{
				Key:   k.Value,
				Pos:   Pos{File: file, Line: k.Line},
				First: Pos{File: file, Line: first},
			}
		}
		seen[k.Value] = k.Line
		pairs = append(pairs, pair{key: k, value: v})
	}
	return pairs, nil
}

// entries decodes a mapping of names to requirement text. Boolean scalars
// keep their literal spelling, so `true` becomes the text "true".
func entries(file string, n *yaml.Node) ([]Entry, error) {
	pairs, err := mappingPairs(file, n)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(pairs))
	for _, p := range pairs {
		if p.value.Kind != yaml.ScalarNode || isNull(p.value) {
			return nil, unexpected(file, p.value, "requirement text")
		}
		out = append(out, Entry{
			Key:   p.key.Value,
			Value: p.value.Value,
			Pos:   Pos{File: file, Line: p.key.Line},
		})
	}
	return out, nil
}

func unexpected(file string, n *yaml.Node, want string) error {
	return &FileError{
		Pos: Pos{File: file, Line: n.Line},
		Err: fmt.Errorf("%w: expected %s, found %s", ErrUnexpectedNode, want, kindName(n)),
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return "null"
		}
		return "scalar " + n.ShortTag()
	default:
		return "node"
	}
}

// genericValue converts a node tree into maps, slices and scalars for schema
// validation. Mapping keys are always strings. With jsonNumbers set, numeric
// scalars become json.Number, the representation the JSON Schema validator
// expects for exact integer checks.
func genericValue(n *yaml.Node, jsonNumbers bool) any {
	n = resolve(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return genericValue(n.Content[0], jsonNumbers)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = genericValue(n.Content[i+1], jsonNumbers)
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, genericValue(c, jsonNumbers))
		}
		return s
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	if !jsonNumbers {
		return v
	}
	switch x := v.(type) {
	case int:
		return json.Number(strconv.Itoa(x))
	case uint64:
		return json.Number(strconv.FormatUint(x, 10))
	case float64:
		return json.Number(strconv.FormatFloat(x, 'g', -1, 64))
	}
	return v
}
