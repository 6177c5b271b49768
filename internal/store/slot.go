package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
)

// Slot is the load/save/clear contract for one game's state.
// Failures are logged and swallowed: the caller keeps working in memory
// and only the latest change is at risk.
type Slot[T any] struct {
	backend Backend
	key     string
}

// NewSlot binds key on backend. A nil backend disables persistence.
func NewSlot[T any](backend Backend, key string) *Slot[T] {
	return &Slot[T]{backend: backend, key: key}
}

// Key is the storage key.
func (s *Slot[T]) Key() string { return s.key }

// Load returns the stored state and true, or the zero value and false when
// nothing usable is stored.
func (s *Slot[T]) Load(ctx context.Context) (T, bool) {
	var v T
	if s == nil || s.backend == nil {
		return v, false
	}
	b, err := s.backend.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("key", s.key).Msg("load state")
		}
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("decode state")
		var zero T
		return zero, false
	}
	return v, true
}

// Save writes v under the slot key.
func (s *Slot[T]) Save(ctx context.Context, v T) {
	if s == nil || s.backend == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("encode state")
		return
	}
	if err := s.backend.Save(ctx, s.key, b); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("save state")
	}
}

// Clear removes the stored state.
func (s *Slot[T]) Clear(ctx context.Context) {
	if s == nil || s.backend == nil {
		return
	}
	if err := s.backend.Clear(ctx, s.key); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("clear state")
	}
}
