// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/worldc/internal/loader"
	"github.com/invowk/worldc/pkg/logic"
)

// SplitDisambiguation splits "Sky - Field (North)" into "Sky - Field" and
// "North". It reports false when the key has no trailing parenthesized label.
func SplitDisambiguation(key string) (base, label string, ok bool) {
	key = strings.TrimSpace(key)
	if !strings.HasSuffix(key, ")") {
		return key, "", false
	}
	open := strings.LastIndex(key, "(")
	if open <= 0 {
		return key, "", false
	}
	label = strings.TrimSpace(key[open+1 : len(key)-1])
	base = strings.TrimSpace(key[:open])
	if label == "" || base == "" || strings.ContainsAny(label, "()") {
		return key, "", false
	}
	return base, label, true
}

func suffix(disambiguation string) string {
	if disambiguation == "" {
		return ""
	}
	return " (" + disambiguation + ")"
}

// ExitName is the display name of the exit from origin to target.
func ExitName(origin, target, disambiguation string) string {
	return origin + " to " + target + suffix(disambiguation)
}

// EntranceName is the display name of the entrance at target reached from
// originStage.
func EntranceName(target, originStage, disambiguation string) string {
	return target + " from " + originStage + suffix(disambiguation)
}

// resolveExitTarget finds the area named by a map_exits key. A trailing
// "(label)" is a disambiguation unless the whole key names an area.
func (b *builder) resolveExitTarget(key string) (target int, disambiguation string, ok bool) {
	if t, found := b.w.areaByName[strings.TrimSpace(key)]; found {
		return t, "", true
	}
	if base, label, split := SplitDisambiguation(key); split {
		if t, found := b.w.areaByName[base]; found {
			return t, label, true
		}
	}
	return None, "", false
}

func (b *builder) mapExits() {
	w := b.w
	for a := range w.Areas {
		originStage := w.Areas[a].Stage
		for _, entry := range b.raw[a].MapExits {
			target, label, ok := b.resolveExitTarget(entry.Key)
			if !ok {
				b.diags.Add(&DanglingExitError{Origin: w.FullName(a), Key: entry.Key, Pos: entry.Pos})
				continue
			}

			x := len(w.Exits)
			exit := Exit{
				Name:            ExitName(w.FullName(a), w.FullName(target), label),
				Ordinal:         x,
				Origin:          a,
				Target:          target,
				Disambiguation:  label,
				CoupledEntrance: None,
				PairedExit:      None,
				Key:             entry.Key,
				Pos:             entry.Pos,
			}
			exit.Entrance = b.entrance(target, originStage, label)
			w.Entrances[exit.Entrance].Exits = append(w.Entrances[exit.Entrance].Exits, x)
			w.Exits = append(w.Exits, exit)
			w.Areas[a].Exits = append(w.Areas[a].Exits, x)

			if req, ok := b.compile(fmt.Sprintf("map exit %q", entry.Key), entry, a); ok {
				w.Requirements[ExitKey(x)] = req
			}
		}
	}
}

// entrance returns the entrance at target reached from originStage,
// synthesizing it on first use.
func (b *builder) entrance(target, originStage int, disambiguation string) int {
	w := b.w
	name := EntranceName(w.FullName(target), w.Stages[originStage].Name, disambiguation)
	if e, ok := b.entranceByName[name]; ok {
		return e
	}
	e := len(w.Entrances)
	w.Entrances = append(w.Entrances, Entrance{
		Name:           name,
		Ordinal:        e,
		Area:           target,
		OriginStage:    originStage,
		Disambiguation: disambiguation,
		CoupledExit:    None,
	})
	w.Areas[target].Entrances = append(w.Areas[target].Entrances, e)
	b.entranceByName[name] = e
	return e
}

// couple links every exit to the entrance at its origin that the mirrored
// exit arrives through. An entrance claimed by several exits stays
// uncoupled so that coupling is always a one-to-one relation.
func (b *builder) couple() {
	w := b.w
	claims := make(map[int][]int)
	for _, exit := range w.Exits {
		targetStage := w.Stages[w.Areas[exit.Target].Stage].Name
		name := EntranceName(w.FullName(exit.Origin), targetStage, exit.Disambiguation)
		if e, ok := b.entranceByName[name]; ok {
			claims[e] = append(claims[e], exit.Ordinal)
		}
	}

	coupled := 0
	for e := range w.Entrances {
		claimants := claims[e]
		switch len(claimants) {
		case 0:
			continue
		case 1:
			w.Exits[claimants[0]].CoupledEntrance = e
			w.Entrances[e].CoupledExit = claimants[0]
			coupled++
		default:
			names := make([]string, len(claimants))
			for i, x := range claimants {
				names[i] = w.Exits[x].Name
			}
			b.log.Warn("entrance is the reverse of several exits, leaving them uncoupled",
				"entrance", w.Entrances[e].Name, "exits", strings.Join(names, "; "))
		}
	}
	b.log.Debug("exits coupled", "coupled", coupled, "exits", len(w.Exits))
}

type doorKey struct {
	stage                 string
	room, layer, entrance int
}

// pair marks exits on the two sides of one doorway. Rows of the entrance
// table that share stage, room, layer and entrance with Left and Right
// sides make their Left exits Near and their Right exits Far; when each
// side is a single exit they become each other's PairedExit.
func (b *builder) pair() {
	w := b.w
	var order []doorKey
	groups := make(map[doorKey][]loader.EntranceRow)
	for _, row := range b.src.EntranceTable {
		k := doorKey{stage: row.Stage, room: row.Room, layer: row.Layer, entrance: row.Entrance}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], row)
	}

	for _, k := range order {
		var near, far []int
		for _, row := range groups[k] {
			matched := b.exitsForRow(row)
			if len(matched) == 0 {
				b.log.Warn("entrance table row matches no exit",
					"pos", row.Pos.String(), "stage", row.Stage, "to_stage", row.ToStage, "disambiguation", row.Disambiguation)
				continue
			}
			switch row.Door {
			case loader.DoorLeft:
				near = append(near, matched...)
			case loader.DoorRight:
				far = append(far, matched...)
			}
		}
		if len(near) == 0 || len(far) == 0 {
			continue
		}
		b.setPairing(near, logic.Near)
		b.setPairing(far, logic.Far)
		if len(near) == 1 && len(far) == 1 && near[0] != far[0] {
			w.Exits[near[0]].PairedExit = far[0]
			w.Exits[far[0]].PairedExit = near[0]
		}
	}
}

func (b *builder) exitsForRow(row loader.EntranceRow) []int {
	w := b.w
	var out []int
	for _, exit := range w.Exits {
		origin := w.Stages[w.Areas[exit.Origin].Stage].Name
		target := w.Stages[w.Areas[exit.Target].Stage].Name
		if origin == row.Stage && target == row.ToStage && exit.Disambiguation == row.Disambiguation {
			out = append(out, exit.Ordinal)
		}
	}
	return out
}

func (b *builder) setPairing(exits []int, side logic.Pairing) {
	for _, x := range slices.Compact(slices.Sorted(slices.Values(exits))) {
		exit := &b.w.Exits[x]
		if exit.Pairing != logic.Unpaired && exit.Pairing != side {
			b.log.Warn("exit is on both sides of a doorway, keeping the first side",
				"exit", exit.Name, "kept", exit.Pairing.String())
			continue
		}
		exit.Pairing = side
	}
}
