// SPDX-License-Identifier: MPL-2.0

// Package loader reads the world-model source files.
//
// Every file is decoded into yaml.Node trees so that declaration order and
// line numbers survive; order drives ordinal assignment downstream and lines
// end up in diagnostics. World and macro files are shape-checked against an
// embedded CUE schema, the item catalog and entrance table against embedded
// JSON Schemas.
package loader
