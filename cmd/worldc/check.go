// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/worldc/internal/compiler"
)

// errStale is returned by check --verify-output when generated files differ.
var errStale = errors.New("generated files are out of date")

func newCheckCommand(app *App, flags *globalFlags) *cobra.Command {
	var (
		explainIssues bool
		verifyOutput  bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile the world model without writing any files",
		Long: `Compile the world model without writing any files and print the size
of every generated enumeration.

With --verify-output the emitted files are also compared against the
output directory, which makes check suitable for CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(cmd.Context(), flags)
			if err != nil {
				renderError(app.stderr, err, flags.verbose)
				return err
			}

			opts := p.compilerOptions(app.logger(p.cfg.LogLevel, flags.verbose))
			if !verifyOutput {
				opts.OutputDir = ""
			}
			r, err := compiler.Check(cmd.Context(), opts)
			if err != nil {
				renderError(app.stderr, err, flags.verbose)
				if explainIssues {
					if explainErr := explain(app.stdout, err); explainErr != nil {
						fmt.Fprintln(app.stderr, WarningStyle.Render("could not render guidance: ")+explainErr.Error())
					}
				}
				return &ExitError{Code: exitCodeOf(err), Err: err}
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render("World summary"))
			fmt.Fprintln(app.stdout, renderSummary(r.Counts))

			if len(r.Stale) > 0 {
				for _, name := range r.Stale {
					fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render("stale:"), CmdStyle.Render(name))
				}
				fmt.Fprintln(app.stderr, SubtitleStyle.Render("Run 'worldc build' to regenerate."))
				return &ExitError{Code: ExitCompile, Err: fmt.Errorf("%w: %d in %s", errStale, len(r.Stale), opts.OutputDir)}
			}
			fmt.Fprintf(app.stdout, "%s world model compiles\n", SuccessStyle.Render("✓"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&explainIssues, "explain", false, "print guidance for every category of error found")
	cmd.Flags().BoolVar(&verifyOutput, "verify-output", false, "fail when the generated files on disk are out of date")
	return cmd
}
