// internal/accumulator/store.go
//
// Store holds one accumulator sheet and is its only mutation surface.
// Every mutation builds the next State from a copy and swaps it in whole,
// then writes it through the persistence slot (best effort).

package accumulator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/havefun/internal/roster"
	"github.com/robalobadob/havefun/internal/store"
)

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	rules Rules
	state State
	slot  *store.Slot[State]
}

// NewStore restores the sheet saved under rules.StorageKey, or starts a
// fresh one with a single default player.
func NewStore(ctx context.Context, rules Rules, backend store.Backend) *Store {
	s := &Store{rules: rules, slot: store.NewSlot[State](backend, rules.StorageKey)}
	s.state = s.loadOrDefault(ctx)
	return s
}

// Rules returns the game constants.
func (s *Store) Rules() Rules { return s.rules }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddPlayer seats a new player; no-op when the table is full.
func (s *Store) AddPlayer(ctx context.Context, name string) (roster.Player, bool) {
	var added roster.Player
	var ok bool
	s.mutate(ctx, func(st State) (State, bool) {
		st.Players, added, ok = roster.Add(st.Players, name)
		if ok {
			st.Turns[added.ID] = []Cell{}
		}
		return st, ok
	})
	return added, ok
}

// RemovePlayer drops the player and their turns.
func (s *Store) RemovePlayer(ctx context.Context, id string) {
	s.mutate(ctx, func(st State) (State, bool) {
		if !roster.Contains(st.Players, id) {
			return st, false
		}
		st.Players = roster.Remove(st.Players, id)
		delete(st.Turns, id)
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

// SetScoreAt fills turn for the player, padding earlier turns as unfilled.
// The value is stored as given; entry bounds belong to Admit.
func (s *Store) SetScoreAt(ctx context.Context, id string, turn, value int) {
	s.mutate(ctx, func(st State) (State, bool) {
		if turn < 0 || !roster.Contains(st.Players, id) {
			return st, false
		}
		st.Turns[id] = withCell(st.Turns[id], turn, value)
		return st, true
	})
}

// AdmitAndSet runs Admit and SetScoreAt under one lock, so concurrent
// entries are checked against each other. It reports whether the entry
// was stored.
func (s *Store) AdmitAndSet(ctx context.Context, id string, turn, value int) bool {
	var admitted bool
	s.mutate(ctx, func(st State) (State, bool) {
		if !roster.Contains(st.Players, id) {
			return st, false
		}
		v, ok := Admit(s.rules, st, id, turn, value)
		if !ok {
			return st, false
		}
		st.Turns[id] = withCell(st.Turns[id], turn, v)
		admitted = true
		return st, true
	})
	return admitted
}

// UndoLast drops the player's last turn.
func (s *Store) UndoLast(ctx context.Context, id string) {
	s.mutate(ctx, func(st State) (State, bool) {
		cells := st.Turns[id]
		if len(cells) == 0 {
			return st, false
		}
		st.Turns[id] = cells[:len(cells)-1]
		return st, true
	})
}

// Reset starts over with a single default player.
func (s *Store) Reset(ctx context.Context) {
	s.mutate(ctx, func(State) (State, bool) { return defaultState(), true })
}

// Rehydrate clears persisted state and reloads it, falling back to defaults.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot.Clear(ctx)
	s.state = s.loadOrDefault(ctx)
}

// withCell pads cells with unfilled turns up to turn and scores it.
func withCell(cells []Cell, turn, value int) []Cell {
	for len(cells) <= turn {
		cells = append(cells, Cell{})
	}
	cells[turn] = Score(value)
	return cells
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
	if st.Turns == nil {
		st.Turns = map[string][]Cell{}
	}
	log.Debug().Str("game", s.rules.Name).Int("players", len(st.Players)).Msg("restored sheet")
	return st
}
