package accumulator

import "fmt"

// Total sums the player's filled cells.
func Total(st State, id string) int {
	sum := 0
	for _, c := range st.Turns[id] {
		if c.Filled {
			sum += c.Value
		}
	}
	return sum
}

// Remaining is Target minus the total; negative once overshot.
func Remaining(r Rules, st State, id string) int { return r.Target - Total(st, id) }

// Over reports a total past the target (out of a chinchón game).
func Over(r Rules, st State, id string) bool { return Total(st, id) > r.Target }

// MaxTurns is the longest turn sequence among seated players.
func MaxTurns(st State) int {
	n := 0
	for _, p := range st.Players {
		if l := len(st.Turns[p.ID]); l > n {
			n = l
		}
	}
	return n
}

// Rows is how many turn rows a sheet shows: one free row after the last.
func Rows(st State) int { return max(1, MaxTurns(st)+1) }

// Point is one step of the evolution chart.
type Point struct {
	Turn   string         `json:"turn"`
	Index  int            `json:"index"`
	Totals map[string]int `json:"totals"`
}

// Series returns running totals per turn for every player.
func Series(st State) []Point {
	n := max(1, MaxTurns(st))
	out := make([]Point, n)
	running := make(map[string]int, len(st.Players))
	for i := 0; i < n; i++ {
		pt := Point{Turn: fmt.Sprintf("T%d", i+1), Index: i, Totals: make(map[string]int, len(st.Players))}
		for _, p := range st.Players {
			if cells := st.Turns[p.ID]; i < len(cells) && cells[i].Filled {
				running[p.ID] += cells[i].Value
			}
			pt.Totals[p.ID] = running[p.ID]
		}
		out[i] = pt
	}
	return out
}
