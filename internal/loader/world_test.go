// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/pkg/cueutil"
)

func TestParseWorldFile(t *testing.T) {
	t.Parallel()

	data := []byte(`Faron:
  allowed_time_of_day: Day
  Sealed Grounds:
    allowed_time_of_day: Both
    Spiral:
      can_sleep: true
      locations:
        Chest: Item Slingshot
        Free: true
      map_exits:
        "Faron Woods - Entry (North)": Item Clawshots
    Temple:
      macros:
        b: a
        a: "Nothing"
`)
	regions, err := ParseWorldFile("faron.yaml", data)
	if err != nil {
		t.Fatalf("ParseWorldFile() error = %v", err)
	}

	want := []Region{{
		Name:      "Faron",
		Pos:       Pos{File: "faron.yaml", Line: 1},
		TimeOfDay: "Day",
		Stages: []Stage{{
			Name:      "Sealed Grounds",
			Pos:       Pos{File: "faron.yaml", Line: 3},
			TimeOfDay: "Both",
			Areas: []Area{
				{
					Name:     "Spiral",
					Pos:      Pos{File: "faron.yaml", Line: 5},
					CanSleep: true,
					Locations: []Entry{
						{Key: "Chest", Value: "Item Slingshot", Pos: Pos{File: "faron.yaml", Line: 8}},
						{Key: "Free", Value: "true", Pos: Pos{File: "faron.yaml", Line: 9}},
					},
					MapExits: []Entry{
						{Key: "Faron Woods - Entry (North)", Value: "Item Clawshots", Pos: Pos{File: "faron.yaml", Line: 11}},
					},
				},
				{
					Name: "Temple",
					Pos:  Pos{File: "faron.yaml", Line: 12},
					Macros: []Entry{
						{Key: "b", Value: "a", Pos: Pos{File: "faron.yaml", Line: 14}},
						{Key: "a", Value: "Nothing", Pos: Pos{File: "faron.yaml", Line: 15}},
					},
				},
			},
		}},
	}}
	if diff := cmp.Diff(want, regions); diff != "" {
		t.Errorf("ParseWorldFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWorldFile_EmptyAreaAndFile(t *testing.T) {
	t.Parallel()

	regions, err := ParseWorldFile("empty.yaml", nil)
	if err != nil || regions != nil {
		t.Fatalf("empty file: regions=%v err=%v", regions, err)
	}

	regions, err = ParseWorldFile("bare.yaml", []byte("R:\n  S:\n    A:\n"))
	if err != nil {
		t.Fatalf("ParseWorldFile() error = %v", err)
	}
	if len(regions) != 1 || len(regions[0].Stages[0].Areas) != 1 {
		t.Fatalf("unexpected tree: %+v", regions)
	}
}

func TestParseWorldFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		check   func(t *testing.T, err error)
		pathHas string
	}{
		{
			name: "unknown area field",
			data: "R:\n  S:\n    A:\n      treasure: {}\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var se *cueutil.SchemaError
				if !errors.As(err, &se) {
					t.Errorf("want *cueutil.SchemaError, got %v", err)
				}
			},
		},
		{
			name: "requirement is a list",
			data: "R:\n  S:\n    A:\n      locations:\n        Chest: [a, b]\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var se *cueutil.SchemaError
				if !errors.As(err, &se) {
					t.Fatalf("want *cueutil.SchemaError, got %v", err)
				}
				if !strings.Contains(se.Error(), "Chest") {
					t.Errorf("violation should name the key: %v", se)
				}
			},
		},
		{
			name: "invalid time of day",
			data: "R:\n  allowed_time_of_day: Dusk\n  S:\n    A: {}\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var se *cueutil.SchemaError
				if !errors.As(err, &se) {
					t.Errorf("want *cueutil.SchemaError, got %v", err)
				}
			},
		},
		{
			name: "duplicate location",
			data: "R:\n  S:\n    A:\n      locations:\n        Chest: true\n        Chest: false\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var dup *DuplicateKeyError
				if !errors.As(err, &dup) {
					t.Fatalf("want *DuplicateKeyError, got %v", err)
				}
				if dup.Pos.Line != 6 || dup.First.Line != 5 {
					t.Errorf("duplicate at %s first %s", dup.Pos, dup.First)
				}
			},
		},
		{
			name: "malformed yaml",
			data: "R:\n  S: [\n",
			check: func(t *testing.T, err error) {
				t.Helper()
				var fe *FileError
				if !errors.As(err, &fe) {
					t.Errorf("want *FileError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseWorldFile("bad.yaml", []byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := issue.CategoryOf(err); got != issue.WorldFileInvalidId {
				t.Errorf("CategoryOf() = %d, want WorldFileInvalidId", got)
			}
			tt.check(t, err)
		})
	}
}

func TestLoadWorld_DuplicateRegionAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "R:\n  S1:\n    A: {}\n")
	writeFile(t, filepath.Join(dir, "b.yml"), "R:\n  S2:\n    A: {}\n")

	_, _, err := LoadWorld(dir)
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("LoadWorld() error = %v, want *DuplicateKeyError", err)
	}
	if dup.Key != "R" || !strings.HasSuffix(dup.First.File, "a.yaml") {
		t.Errorf("unexpected duplicate: %v", dup)
	}
}

func TestLoadWorld_NoFiles(t *testing.T) {
	t.Parallel()

	if _, _, err := LoadWorld(t.TempDir()); err == nil {
		t.Error("expected error for a directory without world files")
	}
}
