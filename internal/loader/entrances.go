// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/pkg/cueutil"
)

const (
	// DoorLeft marks the near side of a two-sided doorway.
	DoorLeft = "Left"
	// DoorRight marks the far side of a two-sided doorway.
	DoorRight = "Right"
)

// EntranceRow is one row of the physical entrance table. Rows with the same
// (Stage, Room, Layer, Entrance) and opposite Door sides describe the two
// sides of one doorway.
type EntranceRow struct {
	Stage          string `yaml:"stage"`
	ToStage        string `yaml:"to_stage"`
	Disambiguation string `yaml:"disambiguation"`
	Door           string `yaml:"door"`
	Room           int    `yaml:"room"`
	Layer          int    `yaml:"layer"`
	Entrance       int    `yaml:"entrance"`
	Pos            Pos    `yaml:"-"`
}

// ParseEntranceTable decodes the entrance table.
func ParseEntranceTable(path string, data []byte) ([]EntranceRow, error) {
	fail := func(line int, err error) error {
		return &FileError{Pos: Pos{File: path, Line: line}, Issue: issue.WorldFileInvalidId, Err: err}
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
	if err := validateJSON(entranceTableSchema, genericValue(root, true)); err != nil {
		return nil, fail(0, err)
	}

	rows := make([]EntranceRow, 0, len(root.Content))
	for _, n := range root.Content {
		var row EntranceRow
		if err := resolve(n).Decode(&row); err != nil {
			return nil, fail(n.Line, err)
		}
		row.Pos = Pos{File: path, Line: n.Line}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadEntranceTable reads the entrance table at path. The table is
// optional: an empty path or a missing file yields no rows and a zero digest.
func LoadEntranceTable(path string) ([]EntranceRow, FileDigest, error) {
	if path == "" {
		return nil, FileDigest{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, FileDigest{}, nil
	}
	if err != nil {
		return nil, FileDigest{}, &FileError{Pos: Pos{File: path}, Issue: issue.WorldFileInvalidId, Err: err}
	}
	rows, err := ParseEntranceTable(path, data)
	return rows, digestOf(path, data), err
}
