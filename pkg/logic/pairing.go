// SPDX-License-Identifier: MPL-2.0

package logic

import "fmt"

const (
	// Unpaired marks an exit that has no opposite side.
	Unpaired Pairing = iota
	// Near is one side of a shared doorway.
	Near
	// Far is the other side of a shared doorway.
	Far
)

// Pairing tells whether an exit is one of the two sides of a single physical
// doorway. Two exits with opposite pairings through the same doorway are
// mutually exclusive placements of the same connection.
type Pairing uint8

// Opposite returns the other side; Unpaired stays Unpaired.
func (p Pairing) Opposite() Pairing {
	switch p {
	case Near:
		return Far
	case Far:
		return Near
	default:
		return Unpaired
	}
}

// IsPaired reports whether p is Near or Far.
func (p Pairing) IsPaired() bool {
	return p == Near || p == Far
}

// String returns the canonical name.
func (p Pairing) String() string {
	switch p {
	case Unpaired:
		return "Unpaired"
	case Near:
		return "Near"
	case Far:
		return "Far"
	default:
		return fmt.Sprintf("Pairing(%d)", uint8(p))
	}
}
