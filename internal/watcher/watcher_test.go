package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-batch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMediaFile(t *testing.T) {
	w := &implWatcher{extension: ".mp4"}

	assert.True(t, w.isMediaFile("/in/talk.mp4"))
	assert.True(t, w.isMediaFile("/in/TALK.MP4"))
	assert.False(t, w.isMediaFile("/in/talk.mov"))
	assert.False(t, w.isMediaFile("/in/.talk.mp4"))
	assert.False(t, w.isMediaFile("/in/talk.mp4.part"))
}

func TestWatcher_HandlesNewFilesSequentially(t *testing.T) {
	dir := t.TempDir()

	var (
		mu      sync.Mutex
		handled []string
		active  int
		maxSeen int
	)
	done := make(chan struct{}, 2)
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		active--
		handled = append(handled, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	w, err := New(dir, ".mp4", handler, logger.Discard(), 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	// give the watcher a moment to start its loop
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp4"), []byte("b"), 0644))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for handler")
		}
	}

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a.mp4", "b.mp4"}, handled)
	assert.Equal(t, 1, maxSeen)
}
