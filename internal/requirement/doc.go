// SPDX-License-Identifier: MPL-2.0

// Package requirement compiles requirement text into resolved expressions.
//
// The language combines references with AND, OR and NOT:
//
//	Item Clawshots && (Area "Sky - Field" (day) || canFly) && !Event "Open Gate"
//	Item Gratitude_Crystal 15
//	Nothing
//
// Juxtaposition is AND, so "Item Slingshot Item Bomb_Bag" needs both items.
// The words and, or and not are the spelled-out operators. A bare name
// resolves in order to an item (count 1), an event, an area of the current
// stage, and finally a macro: the area's own macros first, then the global
// ones. Macros are expanded at compile time, so compiled expressions contain
// only items, areas, events and constants.
package requirement
