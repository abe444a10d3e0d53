// SPDX-License-Identifier: MPL-2.0

package items

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/worldc/internal/issue"
)

const (
	// KindFlag is an item that is either held or not.
	KindFlag Kind = "flag"
	// KindCounter is an item held in a saturating count of 0 to 255.
	KindCounter Kind = "counter"
)

var (
	// ErrDuplicateItem is returned when two catalog entries normalize to the same name.
	ErrDuplicateItem = errors.New("duplicate item")
	// ErrInvalidKind is returned for an entry whose kind is neither flag nor counter.
	ErrInvalidKind = errors.New("invalid item kind")
	// ErrEmptyName is returned for an entry without a name.
	ErrEmptyName = errors.New("empty item name")
)

type (
	// Kind is the storage class of an item.
	Kind string

	// Entry is one raw catalog entry.
	Entry struct {
		Name string
		Kind Kind
		// Line is the 1-based source line of the entry, zero when unknown.
		Line int
	}

	// Item is a registered item.
	Item struct {
		Name    string
		Kind    Kind
		Ordinal int
	}

	// Registry maps item names to their kind and ordinal.
	Registry struct {
		flags    []Item
		counters []Item
		byKey    map[string]Item
	}

	// DuplicateItemError reports a name registered twice.
	DuplicateItemError struct {
		Name      string
		Line      int
		FirstLine int
	}

	// InvalidKindError reports an entry with an unknown kind.
	InvalidKindError struct {
		Name string
		Kind Kind
		Line int
	}
)

// Error implements the error interface.
func (e *DuplicateItemError) Error() string {
	if e.Line > 0 && e.FirstLine > 0 {
		return fmt.Sprintf("item %q on line %d already defined on line %d", e.Name, e.Line, e.FirstLine)
	}
	return fmt.Sprintf("item %q defined more than once", e.Name)
}

// Unwrap returns ErrDuplicateItem for errors.Is() compatibility.
func (e *DuplicateItemError) Unwrap() error { return ErrDuplicateItem }

// IssueId implements issue.Categorized.
func (e *DuplicateItemError) IssueId() issue.Id { return issue.NameCollisionId }

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("item %q has kind %q (valid: %s, %s)", e.Name, e.Kind, KindFlag, KindCounter)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// IssueId implements issue.Categorized.
func (e *InvalidKindError) IssueId() issue.Id { return issue.ItemCatalogInvalidId }

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindFlag || k == KindCounter
}

// Key normalizes an item name for lookup: underscores and spaces are
// equivalent and surrounding whitespace is ignored.
func Key(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}

// NewRegistry registers entries in order. Every invalid entry is reported;
// the returned error joins them.
func NewRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Item, len(entries))}
	firstLine := make(map[string]int, len(entries))

	var errs []error
	for _, e := range entries {
		key := Key(e.Name)
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("line %d: %w", e.Line, ErrEmptyName))
			continue
		case !e.Kind.IsValid():
			errs = append(errs, &InvalidKindError{Name: e.Name, Kind: e.Kind, Line: e.Line})
			continue
		}
		if _, dup := r.byKey[key]; dup {
			errs = append(errs, &DuplicateItemError{Name: e.Name, Line: e.Line, FirstLine: firstLine[key]})
			continue
		}

		it := Item{Name: e.Name, Kind: e.Kind}
		if e.Kind == KindFlag {
			it.Ordinal = len(r.flags)
			r.flags = append(r.flags, it)
		} else {
			it.Ordinal = len(r.counters)
			r.counters = append(r.counters, it)
		}
		r.byKey[key] = it
		firstLine[key] = e.Line
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Lookup returns the item registered under name.
func (r *Registry) Lookup(name string) (Item, bool) {
	it, ok := r.byKey[Key(name)]
	return it, ok
}

// Flags returns the flag items in ordinal order.
func (r *Registry) Flags() []Item {
	return append([]Item(nil), r.flags...)
}

// Counters returns the counter items in ordinal order.
func (r *Registry) Counters() []Item {
	return append([]Item(nil), r.counters...)
}

// FlagCount returns the number of flag items.
func (r *Registry) FlagCount() int { return len(r.flags) }

// CounterCount returns the number of counter items.
func (r *Registry) CounterCount() int { return len(r.counters) }

// Len returns the total number of items.
func (r *Registry) Len() int { return len(r.flags) + len(r.counters) }
