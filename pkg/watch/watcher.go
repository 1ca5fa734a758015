// Package watch reloads style guides when their documents change on disk.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Invalidator drops cached state for a path. *styleguide.Store implements it.
type Invalidator interface {
	Invalidate(path string)
}

// Options configures a GuideWatcher.
type Options struct {
	// Paths are the guide documents to watch. Their parent directories are
	// watched, so paths that do not exist yet are picked up when created.
	Paths []string

	// Debounce groups rapid events on one path. Default: 200ms.
	Debounce time.Duration

	// OnChange runs after the cache entry for path has been dropped.
	OnChange func(path string)

	Logger *slog.Logger
}

// GuideWatcher invalidates cached guides when their files change.
//
// Usage:
//
//	w, err := watch.New(store, watch.Options{Paths: []string{guidePath}})
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type GuideWatcher struct {
	watcher *fsnotify.Watcher
	cache   Invalidator
	opts    Options
	logger  *slog.Logger
	paths   map[string]bool

	// Debouncing
	timers  map[string]*time.Timer
	timerMu sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// Stats describes a running watcher.
type Stats struct {
	WatchedPaths   int
	PendingReloads int
	IsRunning      bool
}

// New creates a GuideWatcher. Nothing is watched until Start.
func New(cache Invalidator, opts Options) (*GuideWatcher, error) {
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("no guide paths to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 200 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths := make(map[string]bool, len(opts.Paths))
	for _, p := range opts.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		paths[abs] = true
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &GuideWatcher{
		watcher:  w,
		cache:    cache,
		opts:     opts,
		logger:   logger,
		paths:    paths,
		timers:   make(map[string]*time.Timer),
		stopChan: make(chan struct{}),
	}, nil
}

// Start watches the directories of the guide paths and processes events in
// a background goroutine. Directories that do not exist are skipped.
func (gw *GuideWatcher) Start() error {
	gw.mu.Lock()
	if gw.stopped {
		gw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	gw.mu.Unlock()

	dirs := make(map[string]bool)
	for p := range gw.paths {
		dirs[filepath.Dir(p)] = true
	}

	watching := 0
	for dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			gw.logger.Debug("skipping missing guide directory", "dir", dir)
			continue
		}
		if err := gw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watching++
	}
	if watching == 0 {
		return fmt.Errorf("none of the guide directories exist")
	}

	gw.logger.Info("style guide watcher started", "paths", len(gw.paths), "dirs", watching)
	go gw.eventLoop()
	return nil
}

// Stop stops watching. Safe to call more than once.
func (gw *GuideWatcher) Stop() error {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.stopped {
		return nil
	}
	gw.stopped = true
	close(gw.stopChan)

	gw.timerMu.Lock()
	for _, t := range gw.timers {
		t.Stop()
	}
	gw.timers = make(map[string]*time.Timer)
	gw.timerMu.Unlock()

	err := gw.watcher.Close()
	gw.logger.Info("style guide watcher stopped")
	return err
}

// Stats returns the watcher's current state.
func (gw *GuideWatcher) Stats() Stats {
	gw.timerMu.Lock()
	pending := len(gw.timers)
	gw.timerMu.Unlock()

	gw.mu.Lock()
	running := !gw.stopped
	gw.mu.Unlock()

	return Stats{WatchedPaths: len(gw.paths), PendingReloads: pending, IsRunning: running}
}

func (gw *GuideWatcher) eventLoop() {
	for {
		select {
		case <-gw.stopChan:
			return

		case event, ok := <-gw.watcher.Events:
			if !ok {
				return
			}
			gw.handleEvent(event)

		case err, ok := <-gw.watcher.Errors:
			if !ok {
				return
			}
			gw.logger.Error("style guide watcher error", "error", err)
		}
	}
}

// handleEvent schedules a reload for any change to a watched guide. Writes,
// creates, removes and renames all count: editors that save by renaming a
// temp file over the guide produce only Create or Rename events.
func (gw *GuideWatcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !gw.paths[path] {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}
	gw.logger.Debug("style guide event", "op", event.Op.String(), "path", path)
	gw.debounceReload(path)
}

// debounceReload runs reload once events for path have been quiet for the
// debounce window.
func (gw *GuideWatcher) debounceReload(path string) {
	gw.timerMu.Lock()
	defer gw.timerMu.Unlock()

	if t, ok := gw.timers[path]; ok {
		t.Stop()
	}
	gw.timers[path] = time.AfterFunc(gw.opts.Debounce, func() {
		gw.timerMu.Lock()
		delete(gw.timers, path)
		gw.timerMu.Unlock()

		gw.reload(path)
	})
}

func (gw *GuideWatcher) reload(path string) {
	gw.mu.Lock()
	stopped := gw.stopped
	gw.mu.Unlock()
	if stopped {
		return
	}

	gw.cache.Invalidate(path)
	gw.logger.Info("style guide changed", "path", path)
	if gw.opts.OnChange != nil {
		gw.opts.OnChange(path)
	}
}
