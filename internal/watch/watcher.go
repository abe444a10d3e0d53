// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds on source changes. It monitors the directories
// and files of a world model and invokes a callback after a debounce
// period; events inside the window are coalesced so the callback fires
// once with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// DefaultExtensions are the source file types of a world model project.
var DefaultExtensions = []string{".yaml", ".yml", ".cue"}

// ErrNoRoots is returned by New when there is nothing to watch.
var ErrNoRoots = errors.New("watch: no paths to watch")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are files or directories to watch. Directories are watched
		// recursively, including directories created later.
		Roots []string
		// Extensions select the files that trigger the callback. Empty
		// means DefaultExtensions.
		Extensions []string
		// Skip lists directories whose events are ignored, typically the
		// output directory.
		Skip []string
		// Debounce is the quiet period after the last event. Zero or
		// negative values fall back to the default.
		Debounce time.Duration
		// OnChange receives the sorted, deduplicated changed paths. Errors
		// are logged and do not stop the watcher.
		OnChange func(ctx context.Context, changed []string) error
		// Logger receives watcher diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors Roots and fires a debounced callback. Run must be
	// called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		files    map[string]bool
		skip     []string
		exts     []string
		debounce time.Duration
		log      *log.Logger
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every root. A file root is watched
// through its parent directory.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, ErrNoRoots
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		files:    make(map[string]bool),
		exts:     cfg.Extensions,
		debounce: cfg.Debounce,
		log:      cfg.Logger,
	}
	if len(w.exts) == 0 {
		w.exts = DefaultExtensions
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.log == nil {
		w.log = log.New(io.Discard)
	}
	for _, s := range cfg.Skip {
		if abs, err := filepath.Abs(s); err == nil {
			w.skip = append(w.skip, abs)
		}
	}

	for _, root := range cfg.Roots {
		if err := w.addRoot(root); err != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks. A
// callback that is still running when the next batch is due causes that
// batch to be retried after another debounce period.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.log.Error("rebuild failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("closing watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.relevant(evt.Name) {
				continue
			}
			w.log.Debug("change", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) addRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("watch: resolve %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		w.files[abs] = true
		return w.add(filepath.Dir(abs))
	}
	return filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipped(path) || (path != abs && strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: add directory %q: %w", dir, err)
	}
	return nil
}

// maybeAddDir extends a recursive watch to a directory created after New.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.skipped(path) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.log.Warn("watching new directory", "path", path, "err", err)
	}
}

// relevant reports whether an event on path should trigger a rebuild. A
// file root only matches itself; other files match by extension.
func (w *Watcher) relevant(path string) bool {
	if w.skipped(path) {
		return false
	}
	if w.files[path] {
		return true
	}
	if !w.underDirRoot(path) {
		return false
	}
	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(path)))
}

func (w *Watcher) underDirRoot(path string) bool {
	for _, root := range w.cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil || w.files[abs] {
			continue
		}
		if within(abs, path) {
			return true
		}
	}
	return false
}

func (w *Watcher) skipped(path string) bool {
	for _, s := range w.skip {
		if within(s, path) {
			return true
		}
	}
	return false
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
