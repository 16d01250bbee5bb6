package engine

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry lazily loads engines and keeps the most recently used ones open.
// It is owned by whoever creates it and must be closed to release the handles.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	cache   *lru.Cache[Key, Engine]
}

// NewRegistry keeps up to size engines loaded; evicted engines are closed.
func NewRegistry(size int, factory Factory) (*Registry, error) {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.NewWithEvict[Key, Engine](size, func(_ Key, e Engine) {
		_ = e.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("create engine cache: %w", err)
	}
	return &Registry{factory: factory, cache: cache}, nil
}

// Acquire returns the engine for key, loading it on first use.
func (r *Registry) Acquire(ctx context.Context, key Key) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.cache.Get(key); ok {
		return e, nil
	}
	e, err := r.factory(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	r.cache.Add(key, e)
	return e, nil
}

// Close releases every loaded engine.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Purge()
	return nil
}
