// internal/category/types.go
//
// Type definitions for the generala sheet.
// Defines:
//   - Key / Defs: the closed set of categories in display order.
//   - Cell: unset, a number, or crossed out ("X").
//   - Event: one entry of the append-only history log.
//   - State: the persisted sheet.

package category

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/robalobadob/havefun/internal/roster"
)

// Key names a category.
type Key string

const (
	Ones     Key = "ones"
	Twos     Key = "twos"
	Threes   Key = "threes"
	Fours    Key = "fours"
	Fives    Key = "fives"
	Sixes    Key = "sixes"
	Escalera Key = "escalera"
	Full     Key = "full"
	Poker    Key = "poker"
	Generala Key = "generala"
	Doble    Key = "doble"
)

// Def describes a category. Face is the die face for the upper section and
// zero for bonus categories.
type Def struct {
	Key   Key    `json:"key"`
	Label string `json:"label"`
	Face  int    `json:"face,omitempty"`
}

// Defs lists every category in display order.
var Defs = []Def{
	{Ones, "1", 1},
	{Twos, "2", 2},
	{Threes, "3", 3},
	{Fours, "4", 4},
	{Fives, "5", 5},
	{Sixes, "6", 6},
	{Escalera, "Escalera", 0},
	{Full, "Full", 0},
	{Poker, "Poker", 0},
	{Generala, "Generala", 0},
	{Doble, "Doble", 0},
}

// Award is what a bonus category pays, normally or when served on the first roll.
type Award struct {
	Normal int `json:"normal"`
	Served int `json:"served"`
}

// Awards holds the bonus category payouts.
var Awards = map[Key]Award{
	Escalera: {Normal: 20, Served: 25},
	Full:     {Normal: 30, Served: 35},
	Poker:    {Normal: 40, Served: 45},
	Generala: {Normal: 50, Served: 100},
	Doble:    {Normal: 100, Served: 120},
}

// Lookup returns the definition for k.
func Lookup(k Key) (Def, bool) {
	for _, d := range Defs {
		if d.Key == k {
			return d, true
		}
	}
	return Def{}, false
}

type cellKind uint8

const (
	kindUnset cellKind = iota
	kindNumber
	kindCrossed
)

// crossedMark is the wire form of a crossed-out cell.
const crossedMark = "X"

// Cell is one category slot. The zero value is unset.
type Cell struct {
	kind  cellKind
	value int
}

// Unset returns an empty cell.
func Unset() Cell { return Cell{} }

// Number returns a scored cell.
func Number(v int) Cell { return Cell{kind: kindNumber, value: v} }

// Crossed returns a crossed-out cell.
func Crossed() Cell { return Cell{kind: kindCrossed} }

func (c Cell) IsSet() bool     { return c.kind != kindUnset }
func (c Cell) IsCrossed() bool { return c.kind == kindCrossed }

// Number returns the score and whether the cell holds one.
func (c Cell) Number() (int, bool) { return c.value, c.kind == kindNumber }

// Points is what the cell adds to a total.
func (c Cell) Points() int {
	if c.kind == kindNumber {
		return c.value
	}
	return 0
}

func (c Cell) String() string {
	switch c.kind {
	case kindNumber:
		return fmt.Sprint(c.value)
	case kindCrossed:
		return crossedMark
	}
	return ""
}

// MarshalJSON encodes null, a number or "X".
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case kindNumber:
		return json.Marshal(c.value)
	case kindCrossed:
		return json.Marshal(crossedMark)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts null, an integer or "X".
func (c *Cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = Unset()
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != crossedMark {
			return fmt.Errorf("category cell: unexpected mark %q", s)
		}
		*c = Crossed()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("category cell: %w", err)
	}
	*c = Number(n)
	return nil
}

// Row is a player's column of the sheet.
type Row map[Key]Cell

func emptyRow() Row {
	row := make(Row, len(Defs))
	for _, d := range Defs {
		row[d.Key] = Unset()
	}
	return row
}

// Event records one change to the sheet.
type Event struct {
	ID       string `json:"id"`
	At       int64  `json:"at"` // unix milliseconds
	PlayerID string `json:"playerId"`
	Category Key    `json:"category"`
	Value    Cell   `json:"value"`
	Prev     Cell   `json:"prev"`
}

// State is the persisted sheet.
type State struct {
	Players []roster.Player `json:"players"`
	Scores  map[string]Row  `json:"scores"`
	History []Event         `json:"history"`
}

func (s State) clone() State {
	out := State{
		Players: roster.Clone(s.Players),
		Scores:  make(map[string]Row, len(s.Scores)),
		History: append([]Event{}, s.History...),
	}
	for id, row := range s.Scores {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Scores[id] = cp
	}
	return out
}

func defaultState() State {
	players := []roster.Player{
		{ID: "p1", Name: roster.DefaultName(1)},
		{ID: "p2", Name: roster.DefaultName(2)},
	}
	st := State{Players: players, Scores: map[string]Row{}, History: []Event{}}
	for _, p := range players {
		st.Scores[p.ID] = emptyRow()
	}
	return st
}
