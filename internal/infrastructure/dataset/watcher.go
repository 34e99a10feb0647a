package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Holder whenever its backing file changes.
type Watcher struct {
	holder   *Holder
	path     string
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	started  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher watches path. The parent directory is watched rather than the
// file so atomic renames (write temp file, rename over) are seen.
func NewWatcher(holder *Holder, path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		holder:   holder,
		path:     abs,
		debounce: debounce,
		logger:   logger,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the watch loop until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.watchLoop(ctx)
	w.logger.Info("Dataset hot reloading enabled", zap.String("path", w.path))
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("Dataset file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				// Errors are logged and counted by the holder.
				_, _ = w.holder.Reload(ctx)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-ctx.Done():
			return
		case <-w.stopCh:
			w.logger.Info("Stopping dataset watcher")
			return
		}
	}
}

// Stop ends the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	if !w.started.CompareAndSwap(false, true) {
		<-w.done
		return
	}
	w.watcher.Close()
}
