// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/pkg/cueutil"
)

// ParseItems decodes an item catalog: a list of {id, name, kind} records.
// Display and asset keys are allowed and ignored; id is an ordering hint
// only, catalog order decides ordinals.
func ParseItems(path string, data []byte) ([]items.Entry, error) {
	fail := func(line int, err error) error {
		return &FileError{Pos: Pos{File: path, Line: line}, Issue: issue.ItemCatalogInvalidId, Err: err}
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, fail(0, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fail(0, err)
	}
	root := documentRoot(&doc)
	if root == nil {
		return nil, nil
	}
	if err := validateJSON(itemsSchema, genericValue(root, true)); err != nil {
		return nil, fail(0, err)
	}

	out := make([]items.Entry, 0, len(root.Content))
	for _, n := range root.Content {
		var rec struct {
			Name string `yaml:"name"`
			Kind string `yaml:"kind"`
		}
		if err := resolve(n).Decode(&rec); err != nil {
			return nil, fail(n.Line, err)
		}
		out = append(out, items.Entry{Name: rec.Name, Kind: items.Kind(rec.Kind), Line: n.Line})
	}
	return out, nil
}

// LoadItems reads the item catalog at path.
func LoadItems(path string) ([]items.Entry, FileDigest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FileDigest{}, &FileError{Pos: Pos{File: path}, Issue: issue.ItemCatalogInvalidId, Err: err}
	}
	entries, err := ParseItems(path, data)
	return entries, digestOf(path, data), err
}
