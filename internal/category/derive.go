package category

import (
	"strconv"

	"github.com/robalobadob/havefun/internal/roster"
)

// Total sums the player's numeric cells.
func Total(st State, id string) int {
	sum := 0
	for _, c := range st.Scores[id] {
		sum += c.Points()
	}
	return sum
}

// Step is one point of the evolution chart.
type Step struct {
	Step   int            `json:"step"`
	Label  string         `json:"label"`
	Totals map[string]int `json:"totals"`
}

// Series replays history into running totals, one step per event plus a
// leading all-zero step.
func Series(players []roster.Player, history []Event) []Step {
	sheet := make(map[string]Row, len(players))
	out := make([]Step, 0, len(history)+1)

	zero := make(map[string]int, len(players))
	for _, p := range players {
		zero[p.ID] = 0
	}
	out = append(out, Step{Step: 0, Label: "0", Totals: zero})

	for i, ev := range history {
		row := sheet[ev.PlayerID]
		if row == nil {
			row = Row{}
			sheet[ev.PlayerID] = row
		}
		row[ev.Category] = ev.Value

		totals := make(map[string]int, len(players))
		for _, p := range players {
			sum := 0
			for _, c := range sheet[p.ID] {
				sum += c.Points()
			}
			totals[p.ID] = sum
		}
		out = append(out, Step{Step: i + 1, Label: strconv.Itoa(i + 1), Totals: totals})
	}
	return out
}
