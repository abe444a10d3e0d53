// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/invowk/worldc/internal/emit"
	"github.com/invowk/worldc/internal/graph"
	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/items"
	"github.com/invowk/worldc/internal/loader"
)

var (
	// ErrInvalidOptions is the sentinel error wrapped by InvalidOptionsError.
	ErrInvalidOptions = errors.New("invalid compiler options")
	// ErrStage is the sentinel error matched by StageError.
	ErrStage = errors.New("compilation stage failed")
)

type (
	// Options configures a compilation.
	//
	// Required fields: Paths.WorldDir, Paths.MacrosFile and Paths.ItemsFile.
	// OutputDir is required by Build and optional for Check.
	Options struct {
		Paths        loader.Paths
		StrictEvents bool
		Emit         emit.Options
		OutputDir    string
		// Logger receives stage progress. Nil discards it.
		Logger *log.Logger
	}

	// Context is the state of one compilation. Fields are filled in stage
	// order and are nil until their stage has run.
	Context struct {
		Options  Options
		Sources  *loader.Sources
		Registry *items.Registry
		World    *graph.World
		Files    []emit.File

		log *log.Logger
	}

	// Stage is one step of the pipeline.
	Stage struct {
		Name string
		Run  func(*Context) error
	}

	// StageError carries every error a stage reported.
	StageError struct {
		Stage string
		Errs  []error
	}

	// InvalidOptionsError is returned when Options lacks a required field.
	InvalidOptionsError struct {
		Fields []string
	}

	// Result summarizes a finished compilation.
	Result struct {
		World  *graph.World
		Files  []emit.File
		Counts emit.Counts
		// Written lists the files Build rewrote.
		Written []string
		// Stale lists the files Check found missing or out of date.
		Stale []string
	}
)

// Stages returns the pipeline in execution order.
func Stages() []Stage {
	return []Stage{
		{Name: "load", Run: loadSources},
		{Name: "items", Run: buildRegistry},
		{Name: "graph", Run: buildGraph},
		{Name: "emit", Run: generate},
	}
}

// IsValid returns whether the Options name every required input.
func (o Options) IsValid() (bool, []error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"world directory", o.Paths.WorldDir},
		{"macros file", o.Paths.MacrosFile},
		{"items file", o.Paths.ItemsFile},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return false, []error{&InvalidOptionsError{Fields: missing}}
	}
	return true, nil
}

// Compile runs every stage and returns the final Context.
func Compile(ctx context.Context, opts Options) (*Context, error) {
	if valid, errs := opts.IsValid(); !valid {
		return nil, errs[0]
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Context{Options: opts, log: logger}

	for _, stage := range Stages() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compilation canceled before %s: %w", stage.Name, err)
		}
		start := time.Now()
		if err := stage.Run(c); err != nil {
			var diags issue.Diagnostics
			diags.Add(err)
			return nil, &StageError{Stage: stage.Name, Errs: diags.Errors()}
		}
		logger.Debug("stage finished", "stage", stage.Name, "elapsed", time.Since(start).Round(time.Microsecond))
	}
	return c, nil
}

// Build compiles and writes the output files into opts.OutputDir.
func Build(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, &InvalidOptionsError{Fields: []string{"output directory"}}
	}
	c, err := Compile(ctx, opts)
	if err != nil {
		return nil, err
	}
	written, err := emit.WriteDir(opts.OutputDir, c.Files)
	if err != nil {
		return nil, &StageError{Stage: "write", Errs: []error{err}}
	}
	for _, name := range written {
		c.log.Info("wrote", "file", name, "dir", opts.OutputDir)
	}
	if len(written) == 0 {
		c.log.Info("output up to date", "dir", opts.OutputDir)
	}
	r := c.result()
	r.Written = written
	return r, nil
}

// Check compiles without writing. When opts.OutputDir is set it also
// reports which emitted files differ from the copies on disk.
func Check(ctx context.Context, opts Options) (*Result, error) {
	c, err := Compile(ctx, opts)
	if err != nil {
		return nil, err
	}
	r := c.result()
	if opts.OutputDir != "" {
		if r.Stale, err = emit.Stale(opts.OutputDir, c.Files); err != nil {
			return nil, &StageError{Stage: "check", Errs: []error{err}}
		}
	}
	return r, nil
}

func (c *Context) result() *Result {
	return &Result{World: c.World, Files: c.Files, Counts: emit.CountsOf(c.World)}
}

func loadSources(c *Context) error {
	src, err := loader.Load(c.Options.Paths)
	if err != nil {
		return err
	}
	c.Sources = src
	c.log.Debug("sources loaded",
		"files", len(src.Digests),
		"regions", len(src.World.Regions),
		"macros", len(src.Macros),
		"items", len(src.Items),
		"entrance_rows", len(src.EntranceTable))
	return nil
}

func buildRegistry(c *Context) error {
	reg, err := items.NewRegistry(c.Sources.Items)
	if err != nil {
		return err
	}
	c.Registry = reg
	c.log.Debug("items registered", "flags", reg.FlagCount(), "counters", reg.CounterCount())
	return nil
}

func buildGraph(c *Context) error {
	w, err := graph.Build(c.Sources, c.Registry, graph.Options{
		StrictEvents: c.Options.StrictEvents,
		Logger:       c.log,
	})
	if err != nil {
		return err
	}
	c.World = w
	return nil
}

func generate(c *Context) error {
	files, err := emit.Generate(c.World, c.Sources.Digests, c.Options.Emit)
	if err != nil {
		return err
	}
	c.Files = files
	return nil
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("%s: %v", e.Stage, e.Errs[0])
	}
	return fmt.Sprintf("%s: %d errors", e.Stage, len(e.Errs))
}

// Is reports whether target is ErrStage.
func (e *StageError) Is(target error) bool { return target == ErrStage }

// Unwrap returns the individual errors of the stage.
func (e *StageError) Unwrap() []error { return e.Errs }

// IssueId returns the category of the first categorized error.
func (e *StageError) IssueId() issue.Id {
	for _, err := range e.Errs {
		if id := issue.CategoryOf(err); id != 0 {
			return id
		}
	}
	return 0
}

// Error implements the error interface.
func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid compiler options: missing %s", strings.Join(e.Fields, ", "))
}

// Unwrap returns ErrInvalidOptions for errors.Is() compatibility.
func (e *InvalidOptionsError) Unwrap() error { return ErrInvalidOptions }
