// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/worldc/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "worldc",
		Short: "Compile a game world model into Go",
		Long: TitleStyle.Render("worldc") + SubtitleStyle.Render(" - a logic compiler for game world models") + `

worldc reads YAML descriptions of regions, stages and areas together with
an item catalog and requirement macros, resolves every exit, entrance and
requirement expression, and emits a Go package that models the world.

` + SubtitleStyle.Render("Examples:") + `
  worldc build              Compile and write the generated package
  worldc check              Compile without writing and print a summary
  worldc config init        Create worldc.cue with the defaults`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./"+config.FileName()+")")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and full error chains")

	root.AddCommand(
		newBuildCommand(app, flags),
		newCheckCommand(app, flags),
		newConfigCommand(app, flags),
		newVersionCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by an ExitError.
// Errors without one are flag or argument errors.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitUsage)
	}
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the worldc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(app.stdout, "worldc %s\n", getVersionString())
			return nil
		},
	}
}
