package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
)

type implWatcher struct {
	inputDir  string
	extension string
	handler   EventHandler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	settle    time.Duration

	queue  chan string
	mu     sync.Mutex
	queued map[string]bool
	wg     sync.WaitGroup
}

// Start begins monitoring the input directory. It returns when ctx is
// cancelled, after the file being handled (if any) finishes.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s (*%s)", w.inputDir, w.extension)

	w.wg.Add(1)
	go w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for the current file to finish...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isMediaFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}
			w.enqueue(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) enqueue(ctx context.Context, path string) {
	w.mu.Lock()
	if w.queued[path] {
		w.mu.Unlock()
		return
	}
	w.queued[path] = true
	w.mu.Unlock()

	w.logger.Info(ctx, "New media file detected: %s", path)
	select {
	case w.queue <- path:
	case <-ctx.Done():
	}
}

// drain hands queued files to the handler strictly one at a time.
func (w *implWatcher) drain(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			if err := w.waitStable(ctx, path); err != nil {
				w.logger.Warn(ctx, "Skipping %s: %v", path, err)
			} else if err := w.handler(ctx, path); err != nil {
				w.logger.Error(ctx, "Failed to process %s: %v", path, err)
			}
			w.mu.Lock()
			delete(w.queued, path)
			w.mu.Unlock()
		}
	}
}

// waitStable blocks until the file size is unchanged across one settle interval,
// so files still being copied in are not picked up half-written.
func (w *implWatcher) waitStable(ctx context.Context, path string) error {
	last := int64(-1)
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == last {
			return nil
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settle):
		}
	}
}

// isMediaFile checks if the file has the watched extension
func (w *implWatcher) isMediaFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.ToLower(filepath.Ext(base)) == w.extension
}
