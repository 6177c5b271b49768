// internal/roster/roster.go
//
// Player roster shared by every score sheet.
// Responsibilities:
//   - Add players (auto-named when no name is given), capped at MaxPlayers.
//   - Remove and rename players in place, keeping display order.
//
// Notes:
//   - Every function returns a fresh slice; callers swap state wholesale.
//   - Invalid input (blank names, unknown ids, full table) is a silent no-op.

package roster

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// MaxPlayers is the table size for every game.
	MaxPlayers = 6
	// MaxNameLen is counted in runes.
	MaxNameLen = 16
)

// Player is a seat at the table.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultName is the auto-generated name for the n-th seat (1-based).
func DefaultName(n int) string { return fmt.Sprintf("Jugador %d", n) }

// Add appends a player. An empty name becomes DefaultName(len+1).
// Returns the original slice and false if the table is already full.
func Add(players []Player, name string) ([]Player, Player, bool) {
	if len(players) >= MaxPlayers {
		return players, Player{}, false
	}
	name = normalize(name)
	if name == "" {
		name = DefaultName(len(players) + 1)
	}
	p := Player{ID: NewID(), Name: name}
	out := make([]Player, 0, len(players)+1)
	out = append(out, players...)
	out = append(out, p)
	return out, p, true
}

// Remove drops the player with id, preserving the order of the rest.
func Remove(players []Player, id string) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Rename applies a trimmed, non-empty name to the player with id.
func Rename(players []Player, id, name string) []Player {
	out := Clone(players)
	name = normalize(name)
	if name == "" {
		return out
	}
	for i := range out {
		if out[i].ID == id {
			out[i].Name = name
		}
	}
	return out
}

// Index returns the position of id, or -1.
func Index(players []Player, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is seated.
func Contains(players []Player, id string) bool { return Index(players, id) >= 0 }

// Clone copies the slice.
func Clone(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	return out
}

// NewID returns a compact 16-hex-char identifier.
func NewID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// normalize trims and cuts the name to MaxNameLen runes.
func normalize(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > MaxNameLen {
		name = strings.TrimSpace(string(r[:MaxNameLen]))
	}
	return name
}
