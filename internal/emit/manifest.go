// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/invowk/worldc/internal/graph"
	"github.com/invowk/worldc/internal/loader"
)

// manifestVersion is bumped whenever the layout of emitted files changes.
const manifestVersion = 1

type (
	// Manifest records what a build consumed and produced. It carries no
	// timestamps so that unchanged input reproduces it byte for byte.
	Manifest struct {
		Version       int      `toml:"version"`
		Package       string   `toml:"package"`
		RuntimeImport string   `toml:"runtime_import"`
		Counts        Counts   `toml:"counts"`
		Inputs        []Digest `toml:"inputs"`
		Outputs       []Digest `toml:"outputs"`
	}

	// Counts is the size of every emitted enumeration.
	Counts struct {
		Regions      int `toml:"regions"`
		Stages       int `toml:"stages"`
		Areas        int `toml:"areas"`
		Locations    int `toml:"locations"`
		Events       int `toml:"events"`
		Exits        int `toml:"exits"`
		Entrances    int `toml:"entrances"`
		FlagItems    int `toml:"flag_items"`
		CounterItems int `toml:"counter_items"`
		Requirements int `toml:"requirements"`
	}

	// Digest is the SHA-256 of one file.
	Digest struct {
		Path   string `toml:"path"`
		SHA256 string `toml:"sha256"`
	}
)

// CountsOf returns the enumeration sizes of w.
func CountsOf(w *graph.World) Counts {
	c := Counts{
		Regions:      len(w.Regions),
		Stages:       len(w.Stages),
		Areas:        len(w.Areas),
		Locations:    len(w.Locations),
		Events:       len(w.Events),
		Exits:        len(w.Exits),
		Entrances:    len(w.Entrances),
		Requirements: len(w.Requirements),
	}
	if w.Items != nil {
		c.FlagItems = w.Items.FlagCount()
		c.CounterItems = w.Items.CounterCount()
	}
	return c
}

func newManifest(w *graph.World, opts Options, inputs []loader.FileDigest, outputs []File) *Manifest {
	m := &Manifest{
		Version:       manifestVersion,
		Package:       opts.Package,
		RuntimeImport: opts.RuntimeImport,
		Counts:        CountsOf(w),
	}
	for _, in := range inputs {
		if !in.IsZero() {
			m.Inputs = append(m.Inputs, Digest{Path: in.Path, SHA256: in.SHA256})
		}
	}
	for _, f := range outputs {
		sum := sha256.Sum256(f.Data)
		m.Outputs = append(m.Outputs, Digest{Path: f.Name, SHA256: hex.EncodeToString(sum[:])})
	}
	return m
}

func (m *Manifest) marshal() ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return append([]byte("# Generated by worldc. DO NOT EDIT.\n\n"), data...), nil
}

// ReadManifest loads a manifest written by Generate.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Output returns the recorded digest of the named output file.
func (m *Manifest) Output(name string) (Digest, bool) {
	for _, d := range m.Outputs {
		if d.Path == name {
			return d, true
		}
	}
	return Digest{}, false
}
