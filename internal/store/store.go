// internal/store/store.go
//
// Persistence contract for the score sheets.
// Each game keeps its whole state as one JSON blob under a stable key,
// the same way the browser build kept it in local storage.
//
// Backends:
//   - memory.go: map guarded by an RWMutex (tests, STORAGE_BACKEND=memory).
//   - bolt.go:   single-file bbolt database.
//   - sqlite.go: kv table in the SQLite database (default).
//
// slot.go binds a backend to one key and one state type.

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("not found")

// Backend is a key/value blob store.
type Backend interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, value []byte) error

	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}
