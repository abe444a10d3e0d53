// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed items.schema.json
	itemsSchemaJSON []byte

	//go:embed entrance_table.schema.json
	entranceTableSchemaJSON []byte

	itemsSchema         = lazySchema("items.schema.json", itemsSchemaJSON)
	entranceTableSchema = lazySchema("entrance_table.schema.json", entranceTableSchemaJSON)
)

// lazySchema compiles an embedded JSON Schema on first use.
func lazySchema(name string, data []byte) func() (*jsonschema.Schema, error) {
	return sync.OnceValues(func() (*jsonschema.Schema, error) {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("internal error: load schema %s: %w", name, err)
		}
		s, err := c.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("internal error: compile schema %s: %w", name, err)
		}
		return s, nil
	})
}

// validateJSON checks v against the schema and flattens a validation
// failure into one line per leaf violation.
func validateJSON(schema func() (*jsonschema.Schema, error), v any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	err = s.Validate(v)
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var lines []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			lines = append(lines, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	if len(lines) == 1 {
		return errors.New("schema validation failed: " + lines[0])
	}
	return errors.New("schema validation failed:\n  " + strings.Join(lines, "\n  "))
}
