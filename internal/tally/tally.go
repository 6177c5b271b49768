// internal/tally/tally.go
//
// Match-stick tally for truco.
// Each side fills a first tier (malas) before a second (buenas); each tier
// holds TierCap sticks and the side is capped at Ceiling overall.
//
// Presets:
//   - Fifteen: one full tier of 15, the default game.
//   - Thirty:  malas then buenas, 15 each.
//   - Legacy:  two tiers of 5, capped at 10.

package tally

import "fmt"

// SideKey names a side of the table.
type SideKey string

const (
	Us   SideKey = "us"
	Them SideKey = "them"
)

// Sides lists both sides in display order.
var Sides = []SideKey{Us, Them}

// Valid reports whether k names a side.
func (k SideKey) Valid() bool { return k == Us || k == Them }

// Side is one side's sticks.
type Side struct {
	Minor int `json:"minor"`
	Major int `json:"major"`
}

// Total is the side's combined count.
func (s Side) Total() int { return s.Minor + s.Major }

// Rules bounds a side.
type Rules struct {
	TierCap int
	Ceiling int
}

var (
	Fifteen = Rules{TierCap: 15, Ceiling: 15}
	Thirty  = Rules{TierCap: 15, Ceiling: 30}
	Legacy  = Rules{TierCap: 5, Ceiling: 10}
)

// RulesFor picks the preset whose ceiling is n.
func RulesFor(ceiling int) (Rules, error) {
	switch ceiling {
	case Fifteen.Ceiling:
		return Fifteen, nil
	case Thirty.Ceiling:
		return Thirty, nil
	case Legacy.Ceiling:
		return Legacy, nil
	}
	return Rules{}, fmt.Errorf("unsupported truco ceiling %d", ceiling)
}

// Increment adds a stick: minor first, then major; a full side is unchanged.
func (r Rules) Increment(s Side) Side {
	switch {
	case s.Total() >= r.Ceiling:
	case s.Minor < r.TierCap:
		s.Minor++
	case s.Major < r.TierCap:
		s.Major++
	}
	return s
}

// Decrement removes a stick: major first, then minor.
func (Rules) Decrement(s Side) Side {
	switch {
	case s.Major > 0:
		s.Major--
	case s.Minor > 0:
		s.Minor--
	}
	return s
}

// Square is one box of five sticks. Sticks go down in the order
// left, top, right, bottom, then the diagonal.
type Square struct {
	Left   bool `json:"left"`
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Diag   bool `json:"diag"`
}

// SquareSize is the number of sticks per square.
const SquareSize = 5

// Squares draws a count of 0..15 as three squares; out-of-range counts are clamped.
func Squares(count int) [3]Square {
	total := max(0, min(3*SquareSize, count))
	var out [3]Square
	for i := range out {
		n := max(0, min(SquareSize, total-i*SquareSize))
		out[i] = Square{
			Left:   n >= 1,
			Top:    n >= 2,
			Right:  n >= 3,
			Bottom: n >= 4,
			Diag:   n >= 5,
		}
	}
	return out
}

// Filled counts the sticks drawn in a square.
func (q Square) Filled() int {
	n := 0
	for _, on := range []bool{q.Left, q.Top, q.Right, q.Bottom, q.Diag} {
		if on {
			n++
		}
	}
	return n
}
