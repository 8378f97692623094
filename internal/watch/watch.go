// Package watch reruns the suite when test files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"simple/internal/logging"
)

// Watcher monitors a test tree for changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	match    func(path string) bool
	skipDirs []string
	log      *logging.Logger
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets how long events are grouped before a notification.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithMatcher restricts notifications to files for which match is true.
func WithMatcher(match func(path string) bool) Option {
	return func(w *Watcher) {
		w.match = match
	}
}

// WithSkipDirs names directories that are never watched.
func WithSkipDirs(dirs ...string) Option {
	return func(w *Watcher) {
		w.skipDirs = dirs
	}
}

// New creates a new file watcher.
func New(log *logging.Logger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		debounce: 300 * time.Millisecond,
		match:    func(string) bool { return true },
		log:      log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// WatchDir adds root and its subdirectories to the watch list.
func (w *Watcher) WatchDir(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && w.skip(filepath.Base(path)) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) skip(base string) bool {
	return strings.HasPrefix(base, ".") || slices.Contains(w.skipDirs, base)
}

// Events returns a channel that emits once per debounced burst of relevant
// changes. Directories created while watching are added automatically.
func (w *Watcher) Events(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})

	go func() {
		defer close(out)

		var timer *time.Timer
		var timerCh <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := w.WatchDir(event.Name); err != nil {
							w.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
						continue
					}
				}
				if !relevant(event.Op) || !w.match(event.Name) {
					continue
				}

				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C

			case <-timerCh:
				select {
				case out <- struct{}{}:
				case <-ctx.Done():
					return
				}
				timerCh = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "error", err)
			}
		}
	}()

	return out
}

// Run calls onChange after every debounced change until ctx is done. An
// error from onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	for range w.Events(ctx) {
		if err := onChange(ctx); err != nil {
			w.log.Error("rerun failed", "error", err)
		}
	}
	return ctx.Err()
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
