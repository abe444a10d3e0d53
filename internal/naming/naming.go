// SPDX-License-Identifier: MPL-2.0

// Package naming derives Go identifiers from world-model display names.
package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/invowk/worldc/internal/issue"
)

var (
	// ErrCollision is returned when two keys derive the same identifier.
	ErrCollision = errors.New("identifier collision")
	// ErrEmptyIdentifier is returned when a key has no letters or digits.
	ErrEmptyIdentifier = errors.New("empty identifier")
)

type (
	// Namespace assigns identifiers for one kind of entity and rejects
	// collisions within it.
	Namespace struct {
		kind  string
		owner map[string]string
	}

	// CollisionError reports two keys of one namespace with the same identifier.
	CollisionError struct {
		Namespace string
		Ident     string
		First     string
		Second    string
	}

	// EmptyIdentifierError reports a key that derives no identifier.
	EmptyIdentifierError struct {
		Namespace string
		Key       string
	}
)

// Error implements the error interface.
func (e *CollisionError) Error() string {
	if e.First == "" {
		return fmt.Sprintf("%s %q derives the reserved identifier %s", e.Namespace, e.Second, e.Ident)
	}
	return fmt.Sprintf("%s names %q and %q both derive the identifier %s", e.Namespace, e.First, e.Second, e.Ident)
}

// Unwrap returns ErrCollision for errors.Is() compatibility.
func (e *CollisionError) Unwrap() error { return ErrCollision }

// IssueId implements issue.Categorized.
func (e *CollisionError) IssueId() issue.Id { return issue.NameCollisionId }

// Error implements the error interface.
func (e *EmptyIdentifierError) Error() string {
	return fmt.Sprintf("%s name %q has no letters or digits", e.Namespace, e.Key)
}

// Unwrap returns ErrEmptyIdentifier for errors.Is() compatibility.
func (e *EmptyIdentifierError) Unwrap() error { return ErrEmptyIdentifier }

// IssueId implements issue.Categorized.
func (e *EmptyIdentifierError) IssueId() issue.Id { return issue.NameCollisionId }

// Identifier converts a display name to an exported CamelCase identifier:
// apostrophes are removed, every other non-alphanumeric rune separates
// words, each word is capitalized and joined, and a leading digit gets an
// "N" prefix. "Gondo's Chest" becomes "GondosChest", "3rd Door" "N3rdDoor".
func Identifier(key string) string {
	var sb strings.Builder
	upper := true
	for _, r := range key {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			sb.WriteRune(r)
		default:
			upper = true
		}
	}
	ident := sb.String()
	if ident != "" && unicode.IsDigit([]rune(ident)[0]) {
		ident = "N" + ident
	}
	return ident
}

// Join derives the identifier of a qualified name from its parts, outermost
// first: Join("Central Skyloft", "Bazaar") is "CentralSkyloftBazaar". Only
// the first part can receive the digit marker.
func Join(parts ...string) string {
	return Identifier(strings.Join(parts, " "))
}

// NewNamespace creates an empty namespace; kind names it in errors.
func NewNamespace(kind string) *Namespace {
	return &Namespace{kind: kind, owner: make(map[string]string)}
}

// Reserve marks identifiers that no key may derive.
func (n *Namespace) Reserve(idents ...string) {
	for _, id := range idents {
		n.owner[id] = ""
	}
}

// Assign records that key derives ident. It fails if ident is empty or
// already taken by another key or a reserved name.
func (n *Namespace) Assign(key, ident string) error {
	if ident == "" {
		return &EmptyIdentifierError{Namespace: n.kind, Key: key}
	}
	if first, taken := n.owner[ident]; taken {
		return &CollisionError{Namespace: n.kind, Ident: ident, First: first, Second: key}
	}
	n.owner[ident] = key
	return nil
}

// Add assigns key the identifier Identifier(key) and returns it.
func (n *Namespace) Add(key string) (string, error) {
	ident := Identifier(key)
	return ident, n.Assign(key, ident)
}

// Len returns the number of assigned identifiers, excluding reserved ones.
func (n *Namespace) Len() int {
	count := 0
	for _, key := range n.owner {
		if key != "" {
			count++
		}
	}
	return count
}
