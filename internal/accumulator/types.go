// internal/accumulator/types.go
//
// Type definitions for the turn-by-turn accumulator sheets.
// Defines:
//   - Rules: constants that tell chinchón and diez mil apart.
//   - Cell: one turn's score, explicitly filled or unfilled.
//   - State: the persisted sheet (players + turn-indexed cells).

package accumulator

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/robalobadob/havefun/internal/roster"
)

// Rules configures one accumulator game.
type Rules struct {
	Name       string // route and log name
	StorageKey string // persistence key, stable across sessions
	Target     int    // score the totals are compared against

	// Clamp bounds entries to [EntryMin, EntryMax] before they reach the store.
	Clamp    bool
	EntryMin int
	EntryMax int

	// GuardRemaining rejects entries that would push the total past Target.
	GuardRemaining bool

	// QuickValues are the one-tap entries offered by the entry pad.
	QuickValues []int
}

// FoulPenalty is the fixed diez mil penalty for a foul.
const FoulPenalty = -100

// Chinchon is the fixed-target game: penalty points toward 100, lower is better.
var Chinchon = Rules{
	Name:       "chinchon",
	StorageKey: "chinchon-store",
	Target:     100,
	Clamp:      true,
	EntryMin:   0,
	EntryMax:   100,
}

// DiezMil is the big-target dice game played to 10 000.
var DiezMil = Rules{
	Name:           "diez-mil",
	StorageKey:     "have-fun:10000",
	Target:         10000,
	GuardRemaining: true,
	QuickValues: []int{
		FoulPenalty, 0, 50, 100, 150, 200, 250, 300, 350, 400,
		450, 500, 600, 700, 750, 800, 900, 1000, 1200, 1500,
	},
}

// Cell is a turn that is either unfilled or holds a score.
// Unfilled and a scored zero both add nothing, but only one of them was played.
type Cell struct {
	Value  int
	Filled bool
}

// Score returns a filled cell.
func Score(v int) Cell { return Cell{Value: v, Filled: true} }

// MarshalJSON encodes unfilled cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Filled {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.Value)), nil
}

// UnmarshalJSON accepts null or an integer.
func (c *Cell) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Cell{}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("accumulator cell: %w", err)
	}
	*c = Score(n)
	return nil
}

// State is the persisted sheet.
type State struct {
	Players []roster.Player   `json:"players"`
	Turns   map[string][]Cell `json:"turns"`
}

func (s State) clone() State {
	out := State{
		Players: roster.Clone(s.Players),
		Turns:   make(map[string][]Cell, len(s.Turns)),
	}
	for id, cells := range s.Turns {
		out.Turns[id] = append([]Cell(nil), cells...)
	}
	return out
}

func defaultState() State {
	players, _, _ := roster.Add(nil, "")
	return State{Players: players, Turns: map[string][]Cell{}}
}
