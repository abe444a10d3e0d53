// SPDX-License-Identifier: MPL-2.0

// Package items assigns dense ordinals to the item catalog.
//
// Flags and counters are numbered separately, each from zero in catalog
// order, so the runtime can pack flags into bit words and counters into a
// byte array sized by FlagCount and CounterCount.
package items
