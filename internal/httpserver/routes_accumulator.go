// internal/httpserver/routes_accumulator.go
//
// Routes for the turn-by-turn sheets (chinchón and diez mil), mounted at
// /{rules.Name}:
//   - GET    /                                → sheet view
//   - POST   /players                         → add player   {name?}
//   - PATCH  /players/{id}                    → rename       {name}
//   - DELETE /players/{id}                    → remove player
//   - PUT    /players/{id}/turns/{turn}       → set score    {value}
//   - DELETE /players/{id}/turns/last         → undo last turn
//   - GET    /players/{id}/turns/{turn}/entry → entry pad for a cell
//   - GET    /series                          → evolution chart data
//   - POST   /reset                           → new game (reset + rehydrate)
//
// Entries pass through accumulator.Admit under the store lock; an entry it
// refuses leaves the sheet alone and the view comes back with "ignored": true.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/havefun/internal/accumulator"
	"github.com/robalobadob/havefun/internal/notify"
	"github.com/robalobadob/havefun/internal/roster"
)

// accumulatorServer wraps one sheet and, for games with a winning
// condition, its watcher.
type accumulatorServer struct {
	store *accumulator.Store
	rules accumulator.Rules
	watch *notify.Watcher // nil when the game has no winner notification
}

// mountAccumulator registers the routes for one accumulator sheet.
// Only diez mil announces a winner; in chinchón crossing the target means
// the player is out.
func (s *Server) mountAccumulator(st *accumulator.Store, debounce time.Duration) {
	a := &accumulatorServer{store: st, rules: st.Rules()}
	if a.rules.GuardRemaining {
		a.watch = notify.NewWatcher(notify.CrossedAtLeast(a.rules.Target), debounce)
		a.watch.Prime(a.totals(st.Snapshot()))
	}
	s.r.Route("/"+a.rules.Name, func(r chi.Router) {
		r.Get("/", a.handleView)
		r.Post("/players", a.handleAddPlayer)
		r.Patch("/players/{id}", a.handleRename)
		r.Delete("/players/{id}", a.handleRemove)
		r.Put("/players/{id}/turns/{turn}", a.handleSetScore)
		r.Delete("/players/{id}/turns/last", a.handleUndo)
		r.Get("/players/{id}/turns/{turn}/entry", a.handleEntry)
		r.Get("/series", a.handleSeries)
		r.Post("/reset", a.handleReset)
	})
}

// -----------------------------------------------------------------------------
// views

type accumulatorPlayerView struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Total     int                `json:"total"`
	Remaining int                `json:"remaining"`
	Over      bool               `json:"over"`
	Turns     []accumulator.Cell `json:"turns"`
}

type accumulatorView struct {
	Game    string                  `json:"game"`
	Target  int                     `json:"target"`
	Rows    int                     `json:"rows"`
	Players []accumulatorPlayerView `json:"players"`
	Winner  *winnerView             `json:"winner,omitempty"`
	Ignored bool                    `json:"ignored,omitempty"`
}

func (a *accumulatorServer) totals(st accumulator.State) []notify.Total {
	out := make([]notify.Total, 0, len(st.Players))
	for _, p := range st.Players {
		out = append(out, notify.Total{Key: p.ID, Value: accumulator.Total(st, p.ID)})
	}
	return out
}

// view renders the sheet and checks for a new winner.
func (a *accumulatorServer) view() accumulatorView {
	st := a.store.Snapshot()
	v := accumulatorView{
		Game:    a.rules.Name,
		Target:  a.rules.Target,
		Rows:    accumulator.Rows(st),
		Players: make([]accumulatorPlayerView, 0, len(st.Players)),
	}
	for _, p := range st.Players {
		turns := st.Turns[p.ID]
		if turns == nil {
			turns = []accumulator.Cell{}
		}
		v.Players = append(v.Players, accumulatorPlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Total:     accumulator.Total(st, p.ID),
			Remaining: accumulator.Remaining(a.rules, st, p.ID),
			Over:      accumulator.Over(a.rules, st, p.ID),
			Turns:     turns,
		})
	}
	if a.watch != nil {
		if id, ok := a.watch.Observe(a.totals(st)); ok {
			v.Winner = playerWinner(st.Players, id)
			log.Info().Str("game", a.rules.Name).Str("winner", id).Msg("target reached")
		}
	}
	return v
}

func playerWinner(players []roster.Player, id string) *winnerView {
	if i := roster.Index(players, id); i >= 0 {
		return &winnerView{ID: id, Name: players[i].Name}
	}
	return &winnerView{ID: id}
}

// -----------------------------------------------------------------------------
// handlers

func (a *accumulatorServer) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.view())
}

func (a *accumulatorServer) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	a.store.AddPlayer(r.Context(), name)
	writeJSON(w, a.view())
}

func (a *accumulatorServer) handleRename(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	a.store.RenamePlayer(r.Context(), chi.URLParam(r, "id"), name)
	writeJSON(w, a.view())
}

func (a *accumulatorServer) handleRemove(w http.ResponseWriter, r *http.Request) {
	a.store.RemovePlayer(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, a.view())
}

// setScoreReq is the body of PUT /players/{id}/turns/{turn}.
type setScoreReq struct {
	Value *int `json:"value"`
}

func (a *accumulatorServer) handleSetScore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	turn, err := strconv.Atoi(chi.URLParam(r, "turn"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_turn")
		return
	}
	var req setScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	if !a.store.AdmitAndSet(r.Context(), id, turn, *req.Value) {
		v := a.view()
		v.Ignored = true
		writeJSON(w, v)
		return
	}
	writeJSON(w, a.view())
}

func (a *accumulatorServer) handleUndo(w http.ResponseWriter, r *http.Request) {
	a.store.UndoLast(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, a.view())
}

func (a *accumulatorServer) handleEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	turn, err := strconv.Atoi(chi.URLParam(r, "turn"))
	if err != nil || turn < 0 {
		writeError(w, http.StatusBadRequest, "bad_turn")
		return
	}
	st := a.store.Snapshot()
	if !roster.Contains(st.Players, id) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, accumulator.Entry(a.rules, st, id, turn))
}

func (a *accumulatorServer) handleSeries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, accumulator.Series(a.store.Snapshot()))
}

func (a *accumulatorServer) handleReset(w http.ResponseWriter, r *http.Request) {
	a.store.Reset(r.Context())
	a.store.Rehydrate(r.Context())
	if a.watch != nil {
		a.watch.Prime(a.totals(a.store.Snapshot()))
	}
	writeJSON(w, a.view())
}
