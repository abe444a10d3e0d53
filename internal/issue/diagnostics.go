// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"slices"
)

// Diagnostics collects the errors found by a compilation stage in the order
// they were detected. A stage records everything it can and the pipeline
// aborts afterwards if anything was recorded.
type Diagnostics struct {
	errs []error
}

// Add records err. Nil errors are ignored; joined errors are flattened so
// Len counts individual diagnostics.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			d.Add(inner)
		}
		return
	}
	d.errs = append(d.errs, err)
}

// Len returns the number of recorded errors.
func (d *Diagnostics) Len() int {
	return len(d.errs)
}

// Errors returns a copy of the recorded errors.
func (d *Diagnostics) Errors() []error {
	return slices.Clone(d.errs)
}

// Err returns nil when nothing was recorded, the single error when there is
// one, and errors.Join of all of them otherwise.
func (d *Diagnostics) Err() error {
	switch len(d.errs) {
	case 0:
		return nil
	case 1:
		return d.errs[0]
	default:
		return errors.Join(d.errs...)
	}
}

// Categories returns the distinct categories of the recorded errors in
// first-seen order. Uncategorized errors are skipped.
func (d *Diagnostics) Categories() []Id {
	var ids []Id
	for _, err := range d.errs {
		if id := CategoryOf(err); id != 0 && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}
