// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "worldc"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "worldc"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. WORLDC_OUTPUT_DIR.
	EnvPrefix = "WORLDC"
)

//go:embed config_schema.cue
var configSchema string

// FileName returns the config file name, worldc.cue.
func FileName() string {
	return ConfigFileName + "." + ConfigFileExt
}

// Load resolves and loads the configuration. It returns the path of the
// file it read, or "" when only defaults and the environment applied.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'worldc config dump' to see every accepted field").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for overrides").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("world_dir", d.WorldDir)
	v.SetDefault("macros_file", d.MacrosFile)
	v.SetDefault("items_file", d.ItemsFile)
	v.SetDefault("entrance_table_file", d.EntranceTableFile)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.package", d.Output.Package)
	v.SetDefault("output.runtime_import", d.Output.RuntimeImport)
	v.SetDefault("output.manifest", d.Output.Manifest)
	v.SetDefault("strict_events", d.StrictEvents)
	v.SetDefault("log_level", string(d.LogLevel))
}

// locate returns the config file to read: the explicit path, which must
// exist, else worldc.cue in the lookup directory if present.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'worldc config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}
	candidate := filepath.Join(opts.Dir, FileName())
	if fileExists(candidate) {
		return candidate, nil
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper. Fields are optional, so
// validation does not require concrete values.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefault writes the default configuration to path unless a file
// already exists there. It reports whether it created the file.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// worldc project configuration.\n")
	sb.WriteString("// Relative paths are resolved against the directory of this file.\n\n")

	fmt.Fprintf(&sb, "world_dir:   %q\n", cfg.WorldDir)
	fmt.Fprintf(&sb, "macros_file: %q\n", cfg.MacrosFile)
	fmt.Fprintf(&sb, "items_file:  %q\n", cfg.ItemsFile)
	if cfg.EntranceTableFile != "" {
		fmt.Fprintf(&sb, "entrance_table_file: %q\n", cfg.EntranceTableFile)
	}

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tdir:            %q\n", cfg.Output.Dir)
	fmt.Fprintf(&sb, "\tpackage:        %q\n", cfg.Output.Package)
	fmt.Fprintf(&sb, "\truntime_import: %q\n", cfg.Output.RuntimeImport)
	fmt.Fprintf(&sb, "\tmanifest:       %v\n", cfg.Output.Manifest)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nstrict_events: %v\n", cfg.StrictEvents)
	fmt.Fprintf(&sb, "log_level:     %q\n", cfg.LogLevel)

	return sb.String()
}

// Schema returns the embedded CUE schema.
func Schema() string {
	return configSchema
}
