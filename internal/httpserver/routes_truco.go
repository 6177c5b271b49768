// internal/httpserver/routes_truco.go
//
// Routes for the truco tally, mounted at /truco:
//   - GET  /                 → both sides with their squares
//   - POST /{side}/increment → add a stick ("us" | "them")
//   - POST /{side}/decrement → remove a stick
//   - POST /reset            → zero both sides

package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/havefun/internal/notify"
	"github.com/robalobadob/havefun/internal/tally"
)

type trucoServer struct {
	store *tally.Store
	rules tally.Rules
	watch *notify.Watcher
}

func (s *Server) mountTruco(st *tally.Store, debounce time.Duration) {
	t := &trucoServer{store: st, rules: st.Rules()}
	t.watch = notify.NewWatcher(notify.ReachedExactly(t.rules.Ceiling), debounce)
	t.watch.Prime(trucoTotals(st.Snapshot()))

	s.r.Route("/truco", func(r chi.Router) {
		r.Get("/", t.handleView)
		r.Post("/{side}/increment", t.handleStep(st.Increment))
		r.Post("/{side}/decrement", t.handleStep(st.Decrement))
		r.Post("/reset", t.handleReset)
	})
}

type tierView struct {
	Count   int             `json:"count"`
	Squares [3]tally.Square `json:"squares"`
}

type sideView struct {
	Total int      `json:"total"`
	Minor tierView `json:"minor"`
	Major tierView `json:"major"`
}

type trucoView struct {
	Ceiling int                        `json:"ceiling"`
	TierCap int                        `json:"tierCap"`
	Teams   map[tally.SideKey]sideView `json:"teams"`
	Winner  *winnerView                `json:"winner,omitempty"`
}

var sideLabels = map[tally.SideKey]string{tally.Us: "Nosotros", tally.Them: "Ellos"}

func trucoTotals(st tally.State) []notify.Total {
	out := make([]notify.Total, 0, len(tally.Sides))
	for _, k := range tally.Sides {
		out = append(out, notify.Total{Key: string(k), Value: st.Teams[k].Total()})
	}
	return out
}

func (t *trucoServer) view() trucoView {
	st := t.store.Snapshot()
	v := trucoView{
		Ceiling: t.rules.Ceiling,
		TierCap: t.rules.TierCap,
		Teams:   make(map[tally.SideKey]sideView, len(tally.Sides)),
	}
	for _, k := range tally.Sides {
		side := st.Teams[k]
		v.Teams[k] = sideView{
			Total: side.Total(),
			Minor: tierView{Count: side.Minor, Squares: tally.Squares(side.Minor)},
			Major: tierView{Count: side.Major, Squares: tally.Squares(side.Major)},
		}
	}
	if key, ok := t.watch.Observe(trucoTotals(st)); ok {
		k := tally.SideKey(key)
		v.Winner = &winnerView{ID: key, Name: sideLabels[k]}
		log.Info().Str("game", "truco").Str("winner", key).Msg("ceiling reached")
	}
	return v
}

func (t *trucoServer) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, t.view())
}

func (t *trucoServer) handleStep(step func(ctx context.Context, side tally.SideKey)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		side := tally.SideKey(chi.URLParam(r, "side"))
		if !side.Valid() {
			writeError(w, http.StatusNotFound, "unknown_side")
			return
		}
		step(r.Context(), side)
		writeJSON(w, t.view())
	}
}

func (t *trucoServer) handleReset(w http.ResponseWriter, r *http.Request) {
	t.store.Reset(r.Context())
	t.watch.Prime(trucoTotals(t.store.Snapshot()))
	writeJSON(w, t.view())
}
