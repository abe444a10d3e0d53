// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/invowk/worldc/internal/loader"
)

const (
	// LogLevelDebug logs every pipeline stage.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs build results.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only errors.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidPackageName is returned when the output package is not a Go identifier.
	ErrInvalidPackageName = errors.New("invalid package name")
	// ErrEmptyPath is returned when a required path is empty or whitespace-only.
	ErrEmptyPath = errors.New("empty path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log messages.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidPackageNameError is returned when output.package is not a valid
	// Go package name.
	InvalidPackageNameError struct {
		Value string
	}

	// EmptyPathError is returned when a required path setting is blank.
	EmptyPathError struct {
		Field string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the project configuration.
	Config struct {
		// WorldDir holds one YAML file per region group.
		WorldDir string `json:"world_dir" mapstructure:"world_dir"`
		// MacrosFile is the global macro file.
		MacrosFile string `json:"macros_file" mapstructure:"macros_file"`
		// ItemsFile is the item catalog.
		ItemsFile string `json:"items_file" mapstructure:"items_file"`
		// EntranceTableFile is the optional physical entrance table.
		EntranceTableFile string `json:"entrance_table_file" mapstructure:"entrance_table_file"`
		// Output configures code generation.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// StrictEvents rejects references to events no area defines.
		StrictEvents bool `json:"strict_events" mapstructure:"strict_events"`
		// LogLevel sets the minimum log level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
	}

	// OutputConfig configures the emitted Go package.
	OutputConfig struct {
		// Dir receives the generated files.
		Dir string `json:"dir" mapstructure:"dir"`
		// Package is the package clause of the generated files.
		Package string `json:"package" mapstructure:"package"`
		// RuntimeImport is the import path of the logic runtime package.
		RuntimeImport string `json:"runtime_import" mapstructure:"runtime_import"`
		// Manifest writes worldc.lock.toml next to the generated files.
		Manifest bool `json:"manifest" mapstructure:"manifest"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		WorldDir:          "data/world",
		MacrosFile:        "data/macros.yaml",
		ItemsFile:         "data/items.yaml",
		EntranceTableFile: "data/entrance_table.yaml",
		Output: OutputConfig{
			Dir:           "generated",
			Package:       "world",
			RuntimeImport: "github.com/invowk/worldc/pkg/logic",
			Manifest:      true,
		},
		StrictEvents: true,
		LogLevel:     LogLevelInfo,
	}
}

// Paths returns the loader inputs, with relative paths resolved against
// baseDir. An empty baseDir leaves them relative to the working directory.
func (c *Config) Paths(baseDir string) loader.Paths {
	return loader.Paths{
		WorldDir:          resolve(baseDir, c.WorldDir),
		MacrosFile:        resolve(baseDir, c.MacrosFile),
		ItemsFile:         resolve(baseDir, c.ItemsFile),
		EntranceTableFile: resolve(baseDir, c.EntranceTableFile),
	}
}

// OutputDir returns Output.Dir resolved against baseDir.
func (c *Config) OutputDir(baseDir string) string {
	return resolve(baseDir, c.Output.Dir)
}

func resolve(baseDir, path string) string {
	if path == "" || baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("output package %q is not a valid Go identifier", e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// Error implements the error interface.
func (e *EmptyPathError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// Unwrap returns ErrEmptyPath for errors.Is() compatibility.
func (e *EmptyPathError) Unwrap() error { return ErrEmptyPath }

// IsValid returns whether the OutputConfig has valid fields.
func (c OutputConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Dir) == "" {
		errs = append(errs, &EmptyPathError{Field: "output.dir"})
	}
	if !token.IsIdentifier(c.Package) || c.Package == "_" {
		errs = append(errs, &InvalidPackageNameError{Value: c.Package})
	}
	if strings.TrimSpace(c.RuntimeImport) == "" {
		errs = append(errs, &EmptyPathError{Field: "output.runtime_import"})
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields. EntranceTableFile is
// optional; every other path is required.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"world_dir", c.WorldDir},
		{"macros_file", c.MacrosFile},
		{"items_file", c.ItemsFile},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, &EmptyPathError{Field: f.name})
		}
	}
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is()
// compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
