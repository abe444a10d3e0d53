// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"testing"

	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/internal/loader"
)

// kv builds entries from alternating keys and values.
func kv(pairs ...string) []loader.Entry {
	out := make([]loader.Entry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, loader.Entry{Key: pairs[i], Value: pairs[i+1], Pos: loader.Pos{File: "test.yaml", Line: i + 1}})
	}
	return out
}

func region(name string, stages ...loader.Stage) loader.Region {
	return loader.Region{Name: name, Pos: loader.Pos{File: "test.yaml"}, Stages: stages}
}

func stage(name string, areas ...loader.Area) loader.Stage {
	return loader.Stage{Name: name, Pos: loader.Pos{File: "test.yaml"}, Areas: areas}
}

func sources(regions ...loader.Region) *loader.Sources {
	return &loader.Sources{World: &loader.World{Regions: regions}}
}

func testItems(t *testing.T) *items.Registry {
	t.Helper()
	reg, err := items.NewRegistry([]items.Entry{
		{Name: "Torch", Kind: items.KindFlag},
		{Name: "Axe", Kind: items.KindFlag},
		{Name: "Key Piece", Kind: items.KindCounter},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func mustBuild(t *testing.T, src *loader.Sources) *World {
	t.Helper()
	w, err := Build(src, testItems(t), Options{StrictEvents: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return w
}
