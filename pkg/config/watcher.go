package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is how long the watcher waits for changes to settle.
const DefaultDebounceInterval = 250 * time.Millisecond

// Watcher watches the configuration file and calls a reload callback when it
// changes. The parent directory is watched so that editors replacing the file
// through a rename are still noticed.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: NewDebouncer(interval),
		logger:   logger.With("component", "config.watcher"),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange after each settled
// change to the file. Errors from onChange are logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.watcher.Close()
	}()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("config watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("config file event", "op", event.Op.String())
			w.debounce.Trigger(func() {
				if err := onChange(); err != nil {
					w.logger.Error("config reload failed, keeping previous configuration", "error", err)
					return
				}
				w.logger.Info("configuration reloaded", "path", w.path)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}

// Debouncer collects rapid events and runs only the last callback after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback to run after the interval, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
