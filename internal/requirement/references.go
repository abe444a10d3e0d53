// SPDX-License-Identifier: MPL-2.0

package requirement

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/invowk/worldc/pkg/logic"
)

// References is the set of base references of one or more compiled
// requirements.
type References struct {
	Flags    mapset.Set[int]
	Counters mapset.Set[int]
	Areas    mapset.Set[int]
	Events   mapset.Set[int]
}

// ReferencesOf collects every flag, counter, area and event ordinal used by xs.
func ReferencesOf(xs ...Expr) References {
	r := References{
		Flags:    mapset.New[int](),
		Counters: mapset.New[int](),
		Areas:    mapset.New[int](),
		Events:   mapset.New[int](),
	}
	for _, x := range xs {
		x.Walk(func(n Expr) bool {
			switch n.Op {
			case logic.OpFlag:
				r.Flags.Put(n.Flag)
			case logic.OpCount:
				r.Counters.Put(n.Counter)
			case logic.OpArea:
				r.Areas.Put(n.Area)
			case logic.OpEvent:
				r.Events.Put(n.Event)
			}
			return true
		})
	}
	return r
}

// Sorted returns the members of s in ascending order.
func Sorted(s mapset.Set[int]) []int {
	out := make([]int, 0, s.Size())
	s.Each(func(v int) {
		out = append(out, v)
	})
	slices.Sort(out)
	return out
}

// Equal reports whether r and o hold the same references.
func (r References) Equal(o References) bool {
	return slices.Equal(Sorted(r.Flags), Sorted(o.Flags)) &&
		slices.Equal(Sorted(r.Counters), Sorted(o.Counters)) &&
		slices.Equal(Sorted(r.Areas), Sorted(o.Areas)) &&
		slices.Equal(Sorted(r.Events), Sorted(o.Events))
}
