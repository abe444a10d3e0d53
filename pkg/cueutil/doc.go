// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates decoded data files against embedded CUE schemas.
//
// The world-model files are authored in YAML; their shape is described by a
// CUE definition and checked in three steps:
//
//  1. Compile the embedded schema and look up the root definition
//  2. Encode the decoded Go value and unify it with the definition
//  3. Validate and report every violation with its path in the file
//
// # Usage
//
//	//go:embed world_schema.cue
//	var worldSchema []byte
//
//	var raw any
//	_ = yaml.Unmarshal(data, &raw)
//	if err := cueutil.Validate(worldSchema, "#WorldFile", raw, cueutil.WithFilename(path)); err != nil {
//	    return err // *cueutil.SchemaError listing every violation
//	}
package cueutil
