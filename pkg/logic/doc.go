// SPDX-License-Identifier: MPL-2.0

// Package logic is the runtime support library that generated world packages
// are expressed in terms of.
//
// It provides the time-of-day flag type and a per-time membership set, the
// paired-connection tri-state used by door-style exits, a mixed bit/counter
// item inventory, and the shape of a compiled requirement expression. It does
// not evaluate requirements; a reachability solver consumes these types.
package logic
