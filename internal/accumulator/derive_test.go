package accumulator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/havefun/internal/roster"
)

func sheet() State {
	return State{
		Players: []roster.Player{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Turns: map[string][]Cell{
			"a": {Score(10), {}, Score(5)},
			"b": {Score(1)},
		},
	}
}

func TestRowsLeavesAFreeRow(t *testing.T) {
	assert.Equal(t, 4, Rows(sheet()))
	assert.Equal(t, 1, Rows(State{}))
}

func TestSeries(t *testing.T) {
	pts := Series(sheet())
	require.Len(t, pts, 3)
	assert.Equal(t, "T1", pts[0].Turn)
	assert.Equal(t, map[string]int{"a": 10, "b": 1}, pts[0].Totals)
	assert.Equal(t, map[string]int{"a": 10, "b": 1}, pts[1].Totals)
	assert.Equal(t, map[string]int{"a": 15, "b": 1}, pts[2].Totals)

	empty := Series(State{Players: []roster.Player{{ID: "a"}}})
	require.Len(t, empty, 1)
	assert.Equal(t, 0, empty[0].Totals["a"])
}

func TestCellJSON(t *testing.T) {
	b, err := json.Marshal([]Cell{{}, Score(0), Score(-100)})
	require.NoError(t, err)
	assert.Equal(t, `[null,0,-100]`, string(b))

	var cells []Cell
	require.NoError(t, json.Unmarshal([]byte(`[null, 30, 0]`), &cells))
	assert.Equal(t, []Cell{{}, Score(30), Score(0)}, cells)

	var c Cell
	assert.Error(t, json.Unmarshal([]byte(`12.5`), &c))
	assert.Error(t, json.Unmarshal([]byte(`1e40`), &c))
}

func TestAdmitChinchonClamps(t *testing.T) {
	st := sheet()
	v, ok := Admit(Chinchon, st, "a", 0, 140)
	assert.True(t, ok)
	assert.Equal(t, 100, v)

	v, ok = Admit(Chinchon, st, "a", 0, -10)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestAdmitDiezMilGuardsRemaining(t *testing.T) {
	st := State{
		Players: []roster.Player{{ID: "a"}},
		Turns:   map[string][]Cell{"a": {Score(9000), Score(500)}},
	}

	// rewriting turn 1 ignores its current 500
	opts := Entry(DiezMil, st, "a", 1)
	assert.Equal(t, 1000, opts.Max)
	require.NotNil(t, opts.Current)
	assert.Equal(t, 500, *opts.Current)

	_, ok := Admit(DiezMil, st, "a", 2, 600)
	assert.False(t, ok, "9500 + 600 overshoots")
	v, ok := Admit(DiezMil, st, "a", 2, 500)
	assert.True(t, ok)
	assert.Equal(t, 500, v)
	_, ok = Admit(DiezMil, st, "a", 2, FoulPenalty)
	assert.True(t, ok)
}

func TestEntryQuickValues(t *testing.T) {
	st := State{
		Players: []roster.Player{{ID: "a"}},
		Turns:   map[string][]Cell{"a": {Score(9700)}},
	}
	opts := Entry(DiezMil, st, "a", 1)
	assert.Equal(t, 300, opts.Max)
	assert.Nil(t, opts.Current)
	require.Len(t, opts.Quick, len(DiezMil.QuickValues))
	for _, q := range opts.Quick {
		assert.Equal(t, q.Value > 300, q.Disabled, "quick value %d", q.Value)
	}

	assert.Empty(t, Entry(Chinchon, st, "a", 0).Quick)
}

func TestAdmitOnlyTakesSheetRows(t *testing.T) {
	st := sheet()
	_, ok := Admit(Chinchon, st, "b", 3, 5)
	assert.True(t, ok, "the free row after the longest sequence")

	_, ok = Admit(Chinchon, st, "b", 4, 5)
	assert.False(t, ok)
	_, ok = Admit(DiezMil, st, "a", 3000000, 50)
	assert.False(t, ok)
	_, ok = Admit(Chinchon, st, "a", -1, 5)
	assert.False(t, ok)
}
