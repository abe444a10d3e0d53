// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/invowk/worldc/internal/compiler"
	"github.com/invowk/worldc/internal/config"
	"github.com/invowk/worldc/internal/emit"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives it and writes through its streams.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// globalFlags holds the persistent flags of the root command.
	globalFlags struct {
		configPath string
		verbose    bool
	}

	// project is a loaded configuration and the directory its relative
	// paths are resolved against.
	project struct {
		cfg     *config.Config
		path    string
		baseDir string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
}

// loadProject loads the configuration selected by the global flags. A
// failure is a usage error.
func (a *App) loadProject(ctx context.Context, flags *globalFlags) (*project, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}
	p := &project{cfg: cfg, path: path}
	if path != "" {
		p.baseDir = filepath.Dir(path)
	}
	return p, nil
}

// logger builds the stderr logger for one command.
func (a *App) logger(level config.LogLevel, verbose bool) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// compilerOptions maps the project configuration onto the pipeline.
func (p *project) compilerOptions(logger *log.Logger) compiler.Options {
	cfg := p.cfg
	return compiler.Options{
		Paths:        cfg.Paths(p.baseDir),
		StrictEvents: cfg.StrictEvents,
		Emit: emit.Options{
			Package:       cfg.Output.Package,
			RuntimeImport: cfg.Output.RuntimeImport,
			Manifest:      cfg.Output.Manifest,
		},
		OutputDir: cfg.OutputDir(p.baseDir),
		Logger:    logger,
	}
}
