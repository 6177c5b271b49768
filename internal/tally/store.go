package tally

import (
	"context"
	"sync"

	"github.com/robalobadob/havefun/internal/store"
)

// StorageKey is the persistence key of the tally.
const StorageKey = "have-fun:truco"

// State is the persisted tally.
type State struct {
	Teams map[SideKey]Side `json:"teams"`
}

func (s State) clone() State {
	out := State{Teams: make(map[SideKey]Side, len(Sides))}
	for _, k := range Sides {
		out.Teams[k] = s.Teams[k]
	}
	return out
}

func defaultState() State {
	return State{Teams: map[SideKey]Side{Us: {}, Them: {}}}
}

// Store holds both sides. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	rules Rules
	state State
	slot  *store.Slot[State]
}

// NewStore restores the saved tally or starts at zero.
func NewStore(ctx context.Context, rules Rules, backend store.Backend) *Store {
	s := &Store{rules: rules, slot: store.NewSlot[State](backend, StorageKey)}
	s.state = s.loadOrDefault(ctx)
	return s
}

func (s *Store) Rules() Rules { return s.rules }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Increment adds a stick to side.
func (s *Store) Increment(ctx context.Context, side SideKey) {
	s.mutate(ctx, side, s.rules.Increment)
}

// Decrement removes a stick from side.
func (s *Store) Decrement(ctx context.Context, side SideKey) {
	s.mutate(ctx, side, s.rules.Decrement)
}

// Reset zeroes both sides.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
	s.slot.Save(ctx, s.state)
}

// Rehydrate clears persisted state and reloads it, falling back to zero.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot.Clear(ctx)
	s.state = s.loadOrDefault(ctx)
}

func (s *Store) mutate(ctx context.Context, side SideKey, step func(Side) Side) {
	if !side.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.state.Teams[side]
	next := step(cur)
	if next == cur {
		return
	}
	st := s.state.clone()
	st.Teams[side] = next
	s.state = st
	s.slot.Save(ctx, st)
}

func (s *Store) loadOrDefault(ctx context.Context) State {
	st, ok := s.slot.Load(ctx)
	if !ok {
		return defaultState()
	}
	// Saved under a larger preset: pull each side back inside this one.
	out := defaultState()
	for _, k := range Sides {
		side := st.Teams[k]
		side.Minor = max(0, min(s.rules.TierCap, side.Minor))
		side.Major = max(0, min(s.rules.TierCap, side.Major, s.rules.Ceiling-side.Minor))
		out.Teams[k] = side
	}
	return out
}
