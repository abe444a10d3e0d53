// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/worldc/internal/config"
)

// newConfigCommand creates the `worldc config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage worldc configuration",
		Long: `Manage worldc configuration.

Configuration is read from the file passed with --config, else from
` + config.FileName() + ` in the current directory. Without a file the defaults
apply. Every field can be overridden with a ` + config.EnvPrefix + `_ environment
variable, e.g. ` + config.EnvPrefix + `_OUTPUT_DIR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(cmd.Context(), flags)
			if err != nil {
				renderError(app.stderr, err, flags.verbose)
				return err
			}
			showConfig(app.stdout, p)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				path = config.FileName()
			}
			created, err := config.CreateDefault(path)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s %s already exists\n", WarningStyle.Render("!"), CmdStyle.Render(path))
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(cmd.Context(), flags)
			if err != nil {
				renderError(app.stderr, err, flags.verbose)
				return err
			}
			if p.path == "" {
				fmt.Fprintf(app.stdout, "%s (not found, using defaults)\n", config.FileName())
				return nil
			}
			abs, err := filepath.Abs(p.path)
			if err != nil {
				abs = p.path
			}
			fmt.Fprintln(app.stdout, abs)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(cmd.Context(), flags)
			if err != nil {
				renderError(app.stderr, err, flags.verbose)
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(p.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.Schema())
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, p *project) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	cfg := p.cfg

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if p.path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), p.path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	for _, kv := range []struct{ key, value string }{
		{"world_dir", cfg.WorldDir},
		{"macros_file", cfg.MacrosFile},
		{"items_file", cfg.ItemsFile},
		{"entrance_table_file", cfg.EntranceTableFile},
		{"strict_events", fmt.Sprint(cfg.StrictEvents)},
		{"log_level", cfg.LogLevel.String()},
	} {
		value := valueStyle.Render(kv.value)
		if kv.value == "" {
			value = SubtitleStyle.Render("(none)")
		}
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(kv.key), value)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("output"))
	fmt.Fprintf(w, "  dir: %s\n", valueStyle.Render(cfg.Output.Dir))
	fmt.Fprintf(w, "  package: %s\n", valueStyle.Render(cfg.Output.Package))
	fmt.Fprintf(w, "  runtime_import: %s\n", valueStyle.Render(cfg.Output.RuntimeImport))
	fmt.Fprintf(w, "  manifest: %s\n", valueStyle.Render(fmt.Sprint(cfg.Output.Manifest)))
}
