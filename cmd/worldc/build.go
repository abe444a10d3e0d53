// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/worldc/internal/compiler"
	"github.com/invowk/worldc/internal/watch"
)

func newBuildCommand(app *App, flags *globalFlags) *cobra.Command {
	var (
		out, pkg string
		watching bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the world model and write the generated package",
		Long: `Compile the world model and write the generated package.

Files whose content did not change are left untouched, so a build on
unchanged input rewrites nothing. With --watch, worldc keeps running and
rebuilds whenever a source file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.loadProject(cmd.Context(), flags)
			if err != nil {
				renderError(app.stderr, err, flags.verbose)
				return err
			}
			if err := p.override(pkg); err != nil {
				renderError(app.stderr, err, flags.verbose)
				return err
			}

			logger := app.logger(p.cfg.LogLevel, flags.verbose)
			opts := p.compilerOptions(logger)
			if out != "" {
				opts.OutputDir = out
			}

			err = app.build(cmd.Context(), opts, flags.verbose)
			if !watching {
				return err
			}
			if errors.Is(err, compiler.ErrInvalidOptions) {
				return err
			}
			return app.watch(cmd.Context(), p, opts, logger, flags.verbose)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides output.dir)")
	cmd.Flags().StringVar(&pkg, "package", "", "package name of the generated files (overrides output.package)")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "rebuild whenever a source file changes")
	return cmd
}

// build runs one compilation and reports its outcome.
func (a *App) build(ctx context.Context, opts compiler.Options, verbose bool) error {
	r, err := compiler.Build(ctx, opts)
	if err != nil {
		renderError(a.stderr, err, verbose)
		return &ExitError{Code: exitCodeOf(err), Err: err}
	}
	if len(r.Written) == 0 {
		fmt.Fprintf(a.stdout, "%s %s is up to date\n", SuccessStyle.Render("✓"), CmdStyle.Render(opts.OutputDir))
		return nil
	}
	fmt.Fprintf(a.stdout, "%s wrote %s to %s\n",
		SuccessStyle.Render("✓"),
		strings.Join(r.Written, ", "),
		CmdStyle.Render(opts.OutputDir))
	return nil
}

// watch rebuilds on every source change until ctx is canceled.
func (a *App) watch(ctx context.Context, p *project, opts compiler.Options, logger *log.Logger, verbose bool) error {
	roots := []string{opts.Paths.WorldDir, opts.Paths.MacrosFile, opts.Paths.ItemsFile}
	if t := opts.Paths.EntranceTableFile; t != "" {
		if _, err := os.Stat(t); err == nil {
			roots = append(roots, t)
		}
	}
	w, err := watch.New(watch.Config{
		Roots:  roots,
		Skip:   []string{opts.OutputDir},
		Logger: logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("rebuilding", "changed", len(changed))
			if err := a.build(ctx, opts, verbose); err != nil {
				return errors.New("build failed")
			}
			return nil
		},
	})
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	fmt.Fprintln(a.stdout, SubtitleStyle.Render("watching "+p.cfg.WorldDir+" for changes, press Ctrl+C to stop"))
	if err := w.Run(ctx); err != nil {
		return &ExitError{Code: ExitCompile, Err: err}
	}
	return nil
}

// override applies a --package flag and revalidates the output settings.
func (p *project) override(pkg string) error {
	if pkg == "" {
		return nil
	}
	p.cfg.Output.Package = pkg
	if valid, errs := p.cfg.Output.IsValid(); !valid {
		return &ExitError{Code: ExitUsage, Err: errors.Join(errs...)}
	}
	return nil
}

func exitCodeOf(err error) int {
	if errors.Is(err, compiler.ErrInvalidOptions) {
		return ExitUsage
	}
	return ExitCompile
}
