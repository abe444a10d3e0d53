// SPDX-License-Identifier: MPL-2.0

package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/pkg/cueutil"
)

// TimeOfDayKey is the reserved property key of regions, stages and areas.
const TimeOfDayKey = "allowed_time_of_day"

//go:embed world_schema.cue
var worldSchema []byte

type (
	// World is the raw content of every world file.
	World struct {
		Regions []Region
	}

	// Region is a raw region declaration.
	Region struct {
		Name string
		Pos  Pos
		// TimeOfDay is the declared default, empty when unset.
		TimeOfDay string
		Stages    []Stage
	}

	// Stage is a raw stage declaration.
	Stage struct {
		Name      string
		Pos       Pos
		TimeOfDay string
		Areas     []Area
	}

	// Area is a raw area declaration. Every map keeps declaration order.
	Area struct {
		Name       string
		Pos        Pos
		TimeOfDay  string
		CanSleep   bool
		Locations  []Entry
		Events     []Entry
		MapExits   []Entry
		LogicExits []Entry
		Macros     []Entry
	}

	// Entry is one name to requirement-text pair.
	Entry struct {
		Key   string
		Value string
		Pos   Pos
	}
)

// ParseWorldFile decodes one world file. An empty file declares nothing.
func ParseWorldFile(path string, data []byte) ([]Region, error) {
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
	if err := cueutil.Validate(worldSchema, "#WorldFile", genericValue(root, false)); err != nil {
		return nil, &FileError{Pos: Pos{File: path}, Issue: issue.WorldFileInvalidId, Err: err}
	}

	regionPairs, err := mappingPairs(path, root)
	if err != nil {
		return nil, categorize(err)
	}
	regions := make([]Region, 0, len(regionPairs))
	for _, rp := range regionPairs {
		region, err := parseRegion(path, rp)
		if err != nil {
			return nil, categorize(err)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func parseRegion(path string, rp pair) (Region, error) {
	region := Region{Name: rp.key.Value, Pos: Pos{File: path, Line: rp.key.Line}}
	pairs, err := mappingPairs(path, rp.value)
	if err != nil {
		return Region{}, err
	}
	for _, sp := range pairs {
		if sp.key.Value == TimeOfDayKey {
			region.TimeOfDay = sp.value.Value
			continue
		}
		stage, err := parseStage(path, sp)
		if err != nil {
			return Region{}, err
		}
		region.Stages = append(region.Stages, stage)
	}
	return region, nil
}

func parseStage(path string, sp pair) (Stage, error) {
	stage := Stage{Name: sp.key.Value, Pos: Pos{File: path, Line: sp.key.Line}}
	pairs, err := mappingPairs(path, sp.value)
	if err != nil {
		return Stage{}, err
	}
	for _, ap := range pairs {
		if ap.key.Value == TimeOfDayKey {
			stage.TimeOfDay = ap.value.Value
			continue
		}
		area, err := parseArea(path, ap)
		if err != nil {
			return Stage{}, err
		}
		stage.Areas = append(stage.Areas, area)
	}
	return stage, nil
}

func parseArea(path string, ap pair) (Area, error) {
	area := Area{Name: ap.key.Value, Pos: Pos{File: path, Line: ap.key.Line}}
	pairs, err := mappingPairs(path, ap.value)
	if err != nil {
		return Area{}, err
	}
	for _, fp := range pairs {
		var target *[]Entry
		switch fp.key.Value {
		case TimeOfDayKey:
			area.TimeOfDay = fp.value.Value
			continue
		case "can_sleep":
			sleep, err := strconv.ParseBool(fp.value.Value)
			if err != nil {
				return Area{}, unexpected(path, fp.value, "boolean")
			}
			area.CanSleep = sleep
			continue
		case "locations":
			target = &area.Locations
		case "events":
			target = &area.Events
		case "map_exits":
			target = &area.MapExits
		case "logic_exits":
			target = &area.LogicExits
		case "macros":
			target = &area.Macros
		default:
			return Area{}, &FileError{
				Pos: Pos{File: path, Line: fp.key.Line},
				Err: fmt.Errorf("%w: unknown area field %q", ErrUnexpectedNode, fp.key.Value),
			}
		}
		if *target, err = entries(path, fp.value); err != nil {
			return Area{}, err
		}
	}
	return area, nil
}

// LoadWorld reads every *.yaml and *.yml file in dir in lexical file-name
// order. A region declared in two files is an error. All per-file errors
// are reported together.
func LoadWorld(dir string) (*World, []FileDigest, error) {
	files, err := worldFiles(dir)
	if err != nil {
		return nil, nil, &FileError{Pos: Pos{File: dir}, Issue: issue.WorldFileInvalidId, Err: err}
	}

	var (
		diags   issue.Diagnostics
		world   = &World{}
		digests = make([]FileDigest, 0, len(files))
		seen    = make(map[string]Pos)
	)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			diags.Add(&FileError{Pos: Pos{File: file}, Issue: issue.WorldFileInvalidId, Err: err})
			continue
		}
		digests = append(digests, digestOf(file, data))

		regions, err := ParseWorldFile(file, data)
		if err != nil {
			diags.Add(err)
			continue
		}
		for _, r := range regions {
			if first, dup := seen[r.Name]; dup {
				diags.Add(&DuplicateKeyError{Key: r.Name, Pos: r.Pos, First: first})
				continue
			}
			seen[r.Name] = r.Pos
			world.Regions = append(world.Regions, r)
		}
	}
	if err := diags.Err(); err != nil {
		return nil, nil, err
	}
	return world, digests, nil
}

func worldFiles(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no world files (*.yaml) found in %s", dir)
	}
	slices.Sort(files)
	return files, nil
}

// categorize fills in the world-file category for errors that carry none.
func categorize(err error) error {
	var fe *FileError
	if errors.As(err, &fe) && fe.Issue == 0 {
		fe.Issue = issue.WorldFileInvalidId
	}
	return err
}
