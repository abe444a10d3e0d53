// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Validate checks that value, a Go value decoded from a data file (maps,
// slices, strings, numbers, booleans), satisfies the CUE definition at
// definitionPath in schema. Violations are returned as *SchemaError.
func Validate(schema []byte, definitionPath string, value any, opts ...Option) error {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	definition := schemaValue.LookupPath(cue.ParsePath(definitionPath))
	if definition.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", definitionPath, definition.Err())
	}

	encoded := ctx.Encode(value)
	if encoded.Err() != nil {
		return FormatError(encoded.Err(), options.filename)
	}

	unified := definition.Unify(encoded)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return FormatError(err, options.filename)
	}
	return nil
}
