// SPDX-License-Identifier: MPL-2.0

// Package emit writes the Go source of a resolved world: one file with the
// closed enumerations and their static relation tables, one with the
// requirement table, and an optional TOML build manifest.
//
// Emission is deterministic. The same world always produces byte-identical
// files, so generated code can be checked in and compared in CI.
package emit
