// internal/httpserver/routes_generala.go
//
// Routes for the generala sheet, mounted at /generala:
//   - GET    /                              → sheet view
//   - POST   /players, PATCH/DELETE /players/{id}
//   - PUT    /players/{id}/scores/{category} → set cell {value: n | "X" | null}
//   - GET    /options/{category}             → entry pad choices
//   - GET    /history                        → change log
//   - GET    /series                         → evolution chart data
//   - POST   /reset                          → clear sheet, keep players

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/havefun/internal/category"
)

type generalaServer struct {
	store *category.Store
}

func (s *Server) mountGenerala(st *category.Store) {
	g := &generalaServer{store: st}
	s.r.Route("/generala", func(r chi.Router) {
		r.Get("/", g.handleView)
		r.Post("/players", g.handleAddPlayer)
		r.Patch("/players/{id}", g.handleRename)
		r.Delete("/players/{id}", g.handleRemove)
		r.Put("/players/{id}/scores/{category}", g.handleSetScore)
		r.Get("/options/{category}", g.handleOptions)
		r.Get("/history", g.handleHistory)
		r.Get("/series", g.handleSeries)
		r.Post("/reset", g.handleReset)
	})
}

type generalaCellView struct {
	Category category.Key  `json:"category"`
	Label    string        `json:"label"`
	Value    category.Cell `json:"value"`
}

type generalaPlayerView struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Total  int                `json:"total"`
	Scores []generalaCellView `json:"scores"`
}

type generalaView struct {
	Categories []category.Def       `json:"categories"`
	Players    []generalaPlayerView `json:"players"`
	Ignored    bool                 `json:"ignored,omitempty"`
}

func (g *generalaServer) view() generalaView {
	st := g.store.Snapshot()
	v := generalaView{Categories: category.Defs, Players: make([]generalaPlayerView, 0, len(st.Players))}
	for _, p := range st.Players {
		row := st.Scores[p.ID]
		cells := make([]generalaCellView, 0, len(category.Defs))
		for _, d := range category.Defs {
			cells = append(cells, generalaCellView{Category: d.Key, Label: d.Label, Value: row[d.Key]})
		}
		v.Players = append(v.Players, generalaPlayerView{
			ID:     p.ID,
			Name:   p.Name,
			Total:  category.Total(st, p.ID),
			Scores: cells,
		})
	}
	return v
}

func (g *generalaServer) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, g.view())
}

func (g *generalaServer) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g.store.AddPlayer(r.Context(), name)
	writeJSON(w, g.view())
}

func (g *generalaServer) handleRename(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g.store.RenamePlayer(r.Context(), chi.URLParam(r, "id"), name)
	writeJSON(w, g.view())
}

func (g *generalaServer) handleRemove(w http.ResponseWriter, r *http.Request) {
	g.store.RemovePlayer(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, g.view())
}

// setCellReq is the body of PUT /players/{id}/scores/{category}.
// A missing value means clear.
type setCellReq struct {
	Value category.Cell `json:"value"`
}

func (g *generalaServer) handleSetScore(w http.ResponseWriter, r *http.Request) {
	k := category.Key(chi.URLParam(r, "category"))
	if _, ok := category.Lookup(k); !ok {
		writeError(w, http.StatusNotFound, "unknown_category")
		return
	}
	var req setCellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !category.Valid(k, req.Value) {
		v := g.view()
		v.Ignored = true
		writeJSON(w, v)
		return
	}
	g.store.SetScore(r.Context(), chi.URLParam(r, "id"), k, req.Value)
	writeJSON(w, g.view())
}

func (g *generalaServer) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts := category.Options(category.Key(chi.URLParam(r, "category")))
	if opts == nil {
		writeError(w, http.StatusNotFound, "unknown_category")
		return
	}
	writeJSON(w, opts)
}

func (g *generalaServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, g.store.Snapshot().History)
}

func (g *generalaServer) handleSeries(w http.ResponseWriter, r *http.Request) {
	st := g.store.Snapshot()
	writeJSON(w, category.Series(st.Players, st.History))
}

func (g *generalaServer) handleReset(w http.ResponseWriter, r *http.Request) {
	g.store.Reset(r.Context())
	writeJSON(w, g.view())
}
