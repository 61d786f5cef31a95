// Package watch reports debounced changes of a schema tree.
//
// Events arriving within the debounce window are coalesced, so a callback
// fires once per burst of edits with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// defaultExcludes matches editor and VCS noise.
var defaultExcludes = []string{
	".*",
	"**/.*",
	"**.swp",
	"**~",
}

// Config configures a Watcher.
type Config struct {
	// Dir is the root of the watched tree.
	Dir string
	// Exclude holds glob patterns matched against slash separated paths
	// relative to Dir. A matching directory is not descended into.
	Exclude  []string
	Debounce time.Duration
	// OnChange receives the sorted relative paths changed during a burst.
	// Calls never overlap.
	OnChange func(ctx context.Context, changed []string) error
	Logger   *slog.Logger
}

// Watcher watches a directory tree. Run may be called once.
type Watcher struct {
	cfg      Config
	dir      string
	fsw      *fsnotify.Watcher
	excludes []glob.Glob
	debounce time.Duration
	log      *slog.Logger
	started  atomic.Bool
}

// New returns a watcher registered on every non-excluded directory of
// cfg.Dir.
func New(cfg Config) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, errors.New("watch: missing OnChange callback")
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}
	w := &Watcher{
		cfg:      cfg,
		dir:      dir,
		debounce: cfg.Debounce,
		log:      cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	for _, p := range append(slices.Clone(defaultExcludes), cfg.Exclude...) {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("watch: exclude pattern %q: %w", p, err)
		}
		w.excludes = append(w.excludes, g)
	}
	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := w.addTree(dir); err != nil {
		w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Excluded reports whether the slash separated path rel, relative to the
// watched directory, matches an exclude pattern.
func (w *Watcher) Excluded(rel string) bool {
	for _, g := range w.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Run dispatches changes until ctx is canceled. It returns nil on
// cancellation and an error if the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}
	defer w.fsw.Close()

	var (
		mu       sync.Mutex
		pending  = make(map[string]struct{})
		timer    *time.Timer
		callback sync.Mutex
		stopped  bool
	)
	fire := func() {
		callback.Lock()
		defer callback.Unlock()
		if stopped || ctx.Err() != nil {
			return
		}
		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 {
			return
		}
		w.log.Debug("schema changed", "paths", changed)
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.log.Error("change handler failed", "error", err)
		}
	}
	// An already running callback finishes before Run returns.
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		callback.Lock()
		stopped = true
		callback.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, err := filepath.Rel(w.dir, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if w.Excluded(rel) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watch new directory", "path", rel, "error", err)
					}
				}
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// addTree registers root and its non-excluded subdirectories.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch: walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(w.dir, path); err == nil && rel != "." && w.Excluded(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}
