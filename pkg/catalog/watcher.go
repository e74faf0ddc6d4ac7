package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the catalog file and reloads the Store when it changes.
// Hot reload is an opt-in concern: the quoting engines themselves never
// invalidate the cached catalog, and a failed reload keeps the
// last-known-good document active.
//
// Changes are debounced so editors that write in several syscalls trigger
// a single reload.
type Watcher struct {
	store    *Store
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	timer   *time.Timer
}

// NewWatcher creates a watcher over the store's backing file.
func NewWatcher(store *Store, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("cannot watch an in-memory catalog store")
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{store: store, debounce: debounce, logger: logger}, nil
}

// Watch blocks processing file events until the context is cancelled.
// The parent directory is watched rather than the file itself so that
// atomic rename-into-place saves are observed.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	target := filepath.Clean(w.store.Path())
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(target), err)
	}

	w.logger.Info("catalog watcher started",
		"path", target,
		"debounce_ms", w.debounce.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("catalog watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn("catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		start := time.Now()
		if err := w.store.Reload(); err != nil {
			w.logger.Error("catalog reload failed, keeping previous catalog", "error", err)
			return
		}
		w.logger.Info("catalog reloaded", "duration", time.Since(start))
	})
}
