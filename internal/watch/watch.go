// Package watch re-runs a callback when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/mithrel/mdnote/internal/logging"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher watches a single file. The parent directory is watched so
// editors that save by renaming a temp file are still seen.
type FileWatcher struct {
	path     string
	debounce time.Duration
	log      *log.Logger
	watcher  *fsnotify.Watcher
}

type Option func(*FileWatcher)

func WithDebounce(d time.Duration) Option { return func(w *FileWatcher) { w.debounce = d } }

func WithLogger(l *log.Logger) Option {
	return func(w *FileWatcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New starts watching path. Call Run to consume events and Close when done.
func New(path string, opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw := &FileWatcher{path: abs, debounce: DefaultDebounce, log: logging.Discard()}
	for _, o := range opts {
		o(fw)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	fw.watcher = w
	return fw, nil
}

// Path is the absolute path being watched.
func (fw *FileWatcher) Path() string { return fw.path }

func (fw *FileWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != fw.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run calls onChange once per burst of changes until ctx is done. Errors
// from onChange are logged and do not stop the loop.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(ev) {
				continue
			}
			fw.log.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(fw.debounce)
			pending = true
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn("watch error", "err", err)
		case <-timer.C:
			pending = false
			if err := onChange(ctx); err != nil {
				fw.log.Error("change handler failed", "path", fw.path, "err", err)
			}
		}
	}
}

// Close stops the underlying watcher.
func (fw *FileWatcher) Close() error { return fw.watcher.Close() }
