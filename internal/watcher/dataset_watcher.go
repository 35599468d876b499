package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/yourorg/atlas-directory/internal/model"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// Reloader reloads the dataset
type Reloader interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// DatasetWatcher reloads a file dataset when the file changes. The parent
// directory is watched so atomic saves (write temp, rename) are seen.
type DatasetWatcher struct {
	path     string
	reloader Reloader
	debounce time.Duration
	logger   *zap.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewDatasetWatcher creates a watcher for the dataset file at path
func NewDatasetWatcher(path string, reloader Reloader, debounce time.Duration, logger *zap.Logger) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &DatasetWatcher{
		path:     abs,
		reloader: reloader,
		debounce: debounce,
		logger:   logger,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (w *DatasetWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.running = true

	w.logger.Info("Watching dataset file", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (w *DatasetWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Failed to close file watcher", zap.Error(err))
	}
}

func (w *DatasetWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *DatasetWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("Dataset file changed",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *DatasetWatcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ds, err := w.reloader.Load(ctx)
	if err != nil {
		// previous snapshot stays published
		w.logger.Error("Dataset reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("Dataset reloaded from file",
		zap.String("path", w.path),
		zap.Int("version", ds.Version))
}
