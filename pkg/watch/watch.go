// Package watch re-runs a handler when source files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/htmlindent/internal/logging"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 200 * time.Millisecond

// ErrNoPaths is returned when there is nothing to watch.
var ErrNoPaths = errors.New("no paths to watch")

// Handler receives the sorted, deduplicated files that changed during one
// debounce window.
type Handler func(ctx context.Context, paths []string)

// Options configures a Watcher.
type Options struct {
	// Paths are files or directories. Directories are watched recursively,
	// skipping hidden ones.
	Paths []string

	// Debounce is the quiet period before the handler runs. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// Filter reports whether a changed file is of interest. Nil accepts
	// every file.
	Filter func(path string) bool
}

// Watcher batches file system events and hands them to a Handler.
type Watcher struct {
	opts    Options
	fs      *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a Watcher and registers every directory under opts.Paths.
// Named files are watched through their parent directory.
func New(opts Options) (*Watcher, error) {
	if len(opts.Paths) == 0 {
		return nil, ErrNoPaths
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		fs:      fsw,
		pending: make(map[string]struct{}),
	}

	for _, path := range opts.Paths {
		info, err := os.Stat(path)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			path = filepath.Dir(path)
		}
		if err := w.addTree(path); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// WatchList returns the watched directories.
func (w *Watcher) WatchList() []string {
	list := w.fs.WatchList()
	slices.Sort(list)
	return list
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers batched changes to handler until ctx is cancelled or the
// underlying watcher fails. Handler calls never overlap.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	logger := logging.FromContext(ctx)

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if path, relevant := w.handleEvent(ctx, event); relevant {
				logger.Debug("file changed", logging.FieldPath, path, logging.FieldEvent, event.Op.String())
				w.mu.Lock()
				w.pending[path] = struct{}{}
				w.mu.Unlock()
				timer.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			if paths := w.drain(); len(paths) > 0 {
				handler(ctx, paths)
			}
		}
	}
}

// handleEvent returns the file an event concerns and whether it should be
// processed. New directories are added to the watch list as a side effect.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) (string, bool) {
	logger := logging.FromContext(ctx)

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Gone again, as with editor swap files.
		return "", false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("cannot watch new directory", logging.FieldPath, event.Name, logging.FieldError, err)
			}
		}
		return "", false
	}

	if w.opts.Filter != nil && !w.opts.Filter(event.Name) {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	clear(w.pending)
	slices.Sort(paths)
	return paths
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && isHidden(entry.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch tree %s: %w", root, err)
	}
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
