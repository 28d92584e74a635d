// Package watch re-runs the prefixer on source files as they change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"twprefix/internal/logging"
)

// Handler is called once per settled file change.
type Handler func(ctx context.Context, path string) error

// Filter decides which files and directories are watched.
type Filter interface {
	Accepts(path string) bool
	Ignored(path string) bool
}

// Stats counts watcher activity.
type Stats struct {
	Events    int
	Processed int
	Errors    int
	LastPath  string
	LastEvent time.Time
}

// Watcher watches a directory tree and calls a Handler for changed source
// files once they have been quiet for the debounce window.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	filter      Filter
	handler     Handler
	debounceDur time.Duration
	pending     map[string]time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stats       Stats
}

// New creates a watcher for root. It does not start watching until Start.
func New(root string, filter Filter, debounce time.Duration, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: nil handler")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		watcher:     fw,
		root:        root,
		filter:      filter,
		handler:     handler,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start registers every non-ignored directory under the root and begins
// the event loop in a goroutine. When registration fails the fsnotify
// watcher is released and the Watcher cannot be started again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	n, err := w.addTree(w.root)
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		if cerr := w.watcher.Close(); cerr != nil {
			logging.WatchError("error closing watcher: %v", cerr)
		}
		return err
	}
	logging.Watch("watching %d director(ies) under %s", n, w.root)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.WatchError("error closing watcher: %v", err)
	}
	logging.Watch("stopped")
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) addTree(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if p != w.root && w.filter != nil && w.filter.Ignored(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchError("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.filter == nil || !w.filter.Ignored(event.Name) {
				if _, err := w.addTree(event.Name); err != nil {
					logging.WatchError("watch new dir %s: %v", event.Name, err)
				}
			}
			return
		}
	}

	if w.filter != nil && !w.filter.Accepts(event.Name) {
		return
	}

	logging.WatchDebug("%s %s", event.Op, event.Name)
	w.mu.Lock()
	w.stats.Events++
	w.stats.LastPath = event.Name
	w.stats.LastEvent = time.Now()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush hands settled paths to the handler.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		err := w.handler(ctx, path)
		w.mu.Lock()
		if err != nil {
			w.stats.Errors++
		} else {
			w.stats.Processed++
		}
		w.mu.Unlock()
		if err != nil {
			logging.WatchError("%s: %v", path, err)
		}
	}
}
