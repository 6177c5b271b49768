package accumulator

// QuickValue is a one-tap entry and whether the pad should offer it.
type QuickValue struct {
	Value    int  `json:"value"`
	Disabled bool `json:"disabled"`
}

// EntryOptions describes the entry pad for one cell.
type EntryOptions struct {
	// Max is the largest value that keeps the total at or below Target,
	// ignoring whatever the cell holds now.
	Max int `json:"max"`
	// Current is the value already in the cell, if filled.
	Current *int         `json:"current,omitempty"`
	Quick   []QuickValue `json:"quick"`
}

// Entry computes the pad for the player's cell at turn.
func Entry(r Rules, st State, id string, turn int) EntryOptions {
	opts := EntryOptions{Max: r.Target - (Total(st, id) - cellValue(st, id, turn))}
	if cells := st.Turns[id]; turn >= 0 && turn < len(cells) && cells[turn].Filled {
		v := cells[turn].Value
		opts.Current = &v
	}
	opts.Quick = make([]QuickValue, 0, len(r.QuickValues))
	for _, q := range r.QuickValues {
		opts.Quick = append(opts.Quick, QuickValue{Value: q, Disabled: r.GuardRemaining && q > 0 && q > opts.Max})
	}
	return opts
}

// Admit applies the entry policy to a raw value. It returns the value to
// store, or false when the entry must be ignored.
// Only the rows on the sheet take entries: existing turns and the free row
// after the longest sequence.
func Admit(r Rules, st State, id string, turn, v int) (int, bool) {
	if turn < 0 || turn > MaxTurns(st) {
		return 0, false
	}
	if r.Clamp {
		v = min(r.EntryMax, max(r.EntryMin, v))
	}
	// Penalties always go through, even past the target.
	if r.GuardRemaining && v > 0 && v > Entry(r, st, id, turn).Max {
		return 0, false
	}
	return v, true
}

func cellValue(st State, id string, turn int) int {
	cells := st.Turns[id]
	if turn < 0 || turn >= len(cells) || !cells[turn].Filled {
		return 0
	}
	return cells[turn].Value
}
