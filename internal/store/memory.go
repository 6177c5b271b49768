// internal/store/memory.go
//
// In-memory implementation of Backend.
// Used in tests and when STORAGE_BACKEND=memory; state is lost on restart.

package store

import (
	"context"
	"sync"
)

// memory is a map-based Backend.
type memory struct {
	mu    sync.RWMutex      // guards blobs
	blobs map[string][]byte // keyed by storage key
}

// NewMemory constructs an empty in-memory Backend.
func NewMemory() Backend {
	return &memory{blobs: make(map[string][]byte)}
}

func (m *memory) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *memory) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
