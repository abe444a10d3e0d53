// SPDX-License-Identifier: MPL-2.0

// Package graph builds the resolved world graph from raw world files.
//
// Build assigns dense ordinals to every region, stage, area, location,
// event, exit and entrance in declaration order, compiles every requirement,
// synthesizes entrances for map exits and links coupled and paired
// connections. The result is immutable and is what the emitter renders.
package graph
