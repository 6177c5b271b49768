// internal/category/store.go
//
// Store holds the generala sheet. Any empty category may be filled at any
// time; every effective change appends an Event to the history log.

package category

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/havefun/internal/roster"
	"github.com/robalobadob/havefun/internal/store"
)

// StorageKey is the persistence key of the sheet.
const StorageKey = "have-fun:generala"

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state State
	slot  *store.Slot[State]
	now   func() time.Time
}

// NewStore restores the saved sheet or starts with two default players.
func NewStore(ctx context.Context, backend store.Backend) *Store {
	s := &Store{slot: store.NewSlot[State](backend, StorageKey), now: time.Now}
	s.state = s.loadOrDefault(ctx)
	return s
}

// WithClock replaces the time source used for history timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddPlayer seats a player with an all-unset row.
func (s *Store) AddPlayer(ctx context.Context, name string) (roster.Player, bool) {
	var added roster.Player
	var ok bool
	s.mutate(ctx, func(st State) (State, bool) {
		st.Players, added, ok = roster.Add(st.Players, name)
		if ok {
			st.Scores[added.ID] = emptyRow()
		}
		return st, ok
	})
	return added, ok
}

// RemovePlayer drops the player's row and their history entries.
func (s *Store) RemovePlayer(ctx context.Context, id string) {
	s.mutate(ctx, func(st State) (State, bool) {
		if !roster.Contains(st.Players, id) {
			return st, false
		}
		st.Players = roster.Remove(st.Players, id)
		delete(st.Scores, id)
		kept := st.History[:0]
		for _, ev := range st.History {
			if ev.PlayerID != id {
				kept = append(kept, ev)
			}
		}
		st.History = kept
		return st, true
	})
}

// RenamePlayer applies a trimmed, non-empty name.
func (s *Store) RenamePlayer(ctx context.Context, id, name string) {
	s.mutate(ctx, func(st State) (State, bool) {
		if !roster.Contains(st.Players, id) {
			return st, false
		}
		st.Players = roster.Rename(st.Players, id, name)
		return st, true
	})
}

// SetScore writes value into the player's category and logs the change.
// Writing the value already there is a no-op and logs nothing.
func (s *Store) SetScore(ctx context.Context, id string, k Key, value Cell) {
	s.mutate(ctx, func(st State) (State, bool) {
		if _, ok := Lookup(k); !ok || !roster.Contains(st.Players, id) {
			return st, false
		}
		row, ok := st.Scores[id]
		if !ok {
			row = emptyRow()
		}
		prev := row[k]
		if prev == value {
			return st, false
		}
		row[k] = value
		st.Scores[id] = row
		st.History = append(st.History, Event{
			ID:       uuid.NewString(),
			At:       s.now().UnixMilli(),
			PlayerID: id,
			Category: k,
			Value:    value,
			Prev:     prev,
		})
		return st, true
	})
}

// Reset clears every row and the history; the players stay.
func (s *Store) Reset(ctx context.Context) {
	s.mutate(ctx, func(st State) (State, bool) {
		st.Scores = make(map[string]Row, len(st.Players))
		for _, p := range st.Players {
			st.Scores[p.ID] = emptyRow()
		}
		st.History = []Event{}
		return st, true
	})
}

// Rehydrate clears persisted state and reloads it, falling back to defaults.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot.Clear(ctx)
	s.state = s.loadOrDefault(ctx)
}

func (s *Store) mutate(ctx context.Context, fn func(State) (State, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed := fn(s.state.clone())
	if !changed {
		return
	}
	s.state = next
	s.slot.Save(ctx, next)
}

func (s *Store) loadOrDefault(ctx context.Context) State {
	st, ok := s.slot.Load(ctx)
	if !ok || len(st.Players) == 0 {
		return defaultState()
	}
	if st.Scores == nil {
		st.Scores = map[string]Row{}
	}
	if st.History == nil {
		st.History = []Event{}
	}
	// Sheets saved before a category existed get it back as unset.
	for _, p := range st.Players {
		row := st.Scores[p.ID]
		if row == nil {
			row = emptyRow()
		}
		for _, d := range Defs {
			if _, ok := row[d.Key]; !ok {
				row[d.Key] = Unset()
			}
		}
		st.Scores[p.ID] = row
	}
	log.Debug().Str("game", "generala").Int("events", len(st.History)).Msg("restored sheet")
	return st
}
