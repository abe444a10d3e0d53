// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum size of a validated data file (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// validateOptions holds configuration for schema validation.
	validateOptions struct {
		concrete bool
		filename string
	}

	// Option configures validation behavior.
	Option func(*validateOptions)
)

func defaultOptions() validateOptions {
	return validateOptions{
		concrete: true,
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Default is true.
func WithConcrete(concrete bool) Option {
	return func(o *validateOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the filename recorded in a *SchemaError.
func WithFilename(name string) Option {
	return func(o *validateOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
