// Package watcher provides debounced file system watching for a workspace
// directory.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events produced by one snapshot
// write (temp file create, write, rename) into a single notification.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches a directory and invokes a callback, debounced, when a file
// accepted by its filter changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	filter   func(name string) bool
	delay    time.Duration
	callback func()

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Watcher on dir. A nil filter accepts every file.
func New(dir string, filter func(name string) bool, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	return &Watcher{fsw: fsw, filter: filter, delay: DefaultDebounce, callback: callback}, nil
}

// Run starts the watch loop. It blocks until ctx is canceled or the watcher
// is closed. Errors from the underlying watcher go to errFn when non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.filter(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
