// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/pkg/cueutil"
)

// ParseMacros decodes a global macro file: one flat mapping of macro name to
// requirement text, in file order.
func ParseMacros(path string, data []byte) ([]Entry, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &FileError{Pos: Pos{File: path}, Issue: issue.WorldFileInvalidId, Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FileError{Pos: Pos{File: path}, Issue: issue.WorldFileInvalidId, Err: err}
	}
	root := documentRoot(&doc)
	if root == nil {
		return nil, nil
	}
	if err := cueutil.Validate(worldSchema, "#MacroFile", genericValue(root, false)); err != nil {
		return nil, &FileError{Pos: Pos{File: path}, Issue: issue.WorldFileInvalidId, Err: err}
	}

	out, err := entries(path, root)
	if err != nil {
		return nil, categorize(err)
	}
	return out, nil
}

// LoadMacros reads the global macro file at path.
func LoadMacros(path string) ([]Entry, FileDigest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FileDigest{}, &FileError{Pos: Pos{File: path}, Issue: issue.WorldFileInvalidId, Err: err}
	}
	macros, err := ParseMacros(path, data)
	return macros, digestOf(path, data), err
}
