package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/caption-batch/internal/logger"
)

const (
	defaultSettle = 2 * time.Second
	queueSize     = 256
)

// New creates a Watcher for new files with the given extension in inputDir.
// Matching files are handed to handler one at a time, in arrival order, once
// their size has stopped changing for settle.
func New(inputDir, extension string, handler EventHandler, log logger.Logger, settle time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle <= 0 {
		settle = defaultSettle
	}

	return &implWatcher{
		inputDir:  inputDir,
		extension: strings.ToLower(extension),
		handler:   handler,
		logger:    log,
		watcher:   watcher,
		settle:    settle,
		queue:     make(chan string, queueSize),
		queued:    make(map[string]bool),
	}, nil
}
