// SPDX-License-Identifier: MPL-2.0

package logic

import (
	"fmt"
	"math"

	"github.com/invowk/worldc/pkg/bitset"

	"golang.org/x/exp/constraints"
)

// MaxCount is the saturation limit of a counter item.
const MaxCount = math.MaxUint8

// Inventory holds flag items as single bits and counter items as saturating
// byte counters. F and C are the generated FlagItem and CounterItem types.
type Inventory[F, C constraints.Integer] struct {
	flags  bitset.Set[F]
	counts []uint8
}

// NewInventory creates an empty inventory sized for flagCount flag items and
// counterCount counter items.
func NewInventory[F, C constraints.Integer](flagCount, counterCount int) Inventory[F, C] {
	if counterCount < 0 {
		panic(fmt.Sprintf("logic: negative counter count %d", counterCount))
	}
	return Inventory[F, C]{
		flags:  bitset.New[F](flagCount),
		counts: make([]uint8, counterCount),
	}
}

// SetFlag grants a flag item and reports whether it was newly set.
func (inv *Inventory[F, C]) SetFlag(f F) bool {
	return inv.flags.Add(f)
}

// ClearFlag removes a flag item and reports whether it was set.
func (inv *Inventory[F, C]) ClearFlag(f F) bool {
	return inv.flags.Remove(f)
}

// HasFlag reports whether the flag item is held.
func (inv Inventory[F, C]) HasFlag(f F) bool {
	return inv.flags.Has(f)
}

// Add increases a counter by n, saturating at MaxCount, and returns the new count.
func (inv *Inventory[F, C]) Add(c C, n uint8) uint8 {
	i := inv.counter(c)
	sum := int(inv.counts[i]) + int(n)
	if sum > MaxCount {
		sum = MaxCount
	}
	inv.counts[i] = uint8(sum)
	return inv.counts[i]
}

// Take decreases a counter by n, stopping at zero, and returns the new count.
func (inv *Inventory[F, C]) Take(c C, n uint8) uint8 {
	i := inv.counter(c)
	if inv.counts[i] < n {
		inv.counts[i] = 0
	} else {
		inv.counts[i] -= n
	}
	return inv.counts[i]
}

// Count returns the current count of a counter item.
func (inv Inventory[F, C]) Count(c C) uint8 {
	return inv.counts[inv.counter(c)]
}

// HasCount reports whether at least n of a counter item are held.
func (inv Inventory[F, C]) HasCount(c C, n uint8) bool {
	return inv.Count(c) >= n
}

// Flags returns the flag-item set. The result shares storage.
func (inv Inventory[F, C]) Flags() bitset.Set[F] {
	return inv.flags
}

// Clone returns an independent copy.
func (inv Inventory[F, C]) Clone() Inventory[F, C] {
	counts := make([]uint8, len(inv.counts))
	copy(counts, inv.counts)
	return Inventory[F, C]{flags: inv.flags.Clone(), counts: counts}
}

func (inv Inventory[F, C]) counter(c C) int {
	i := int(c)
	if c < 0 || i >= len(inv.counts) {
		panic(fmt.Sprintf("logic: counter ordinal %d out of range [0, %d)", i, len(inv.counts)))
	}
	return i
}
