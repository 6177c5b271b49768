// internal/httpserver/server.go
//
// HTTP wiring for the score keeper.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - One route group per game, each backed by its store:
//       /chinchon, /diez-mil  → accumulator sheets (routes_accumulator.go)
//       /generala             → category sheet      (routes_generala.go)
//       /truco                → tally               (routes_truco.go)
//
// Notes:
//   - The server runs on the device that keeps the scores; there is no
//     auth and no sync.
//   - Stores never fail; bad input comes back as the unchanged view.
//   - Win notifications ride on the response of the request that caused them.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/havefun/internal/accumulator"
	"github.com/robalobadob/havefun/internal/category"
	"github.com/robalobadob/havefun/internal/tally"
)

// Deps are the stores and knobs the server is built from.
type Deps struct {
	Chinchon *accumulator.Store
	DiezMil  *accumulator.Store
	Generala *category.Store
	Truco    *tally.Store

	// WinDebounce is the minimum gap between two notifications for the same winner.
	WinDebounce time.Duration
	// ClientOrigin is the single origin allowed by CORS.
	ClientOrigin string
}

// Server bundles the router and the game stores.
type Server struct {
	r *chi.Mux
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{r: chi.NewRouter()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.ClientOrigin))            // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"havefun","games":["/chinchon","/diez-mil","/generala","/truco"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	if d.Chinchon != nil {
		s.mountAccumulator(d.Chinchon, d.WinDebounce)
	}
	if d.DiezMil != nil {
		s.mountAccumulator(d.DiezMil, d.WinDebounce)
	}
	if d.Generala != nil {
		s.mountGenerala(d.Generala)
	}
	if d.Truco != nil {
		s.mountTruco(d.Truco, d.WinDebounce)
	}

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ helpers ------------------------------------

// winnerView names whoever just crossed the line.
type winnerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// nameReq is the body of player create/rename requests.
type nameReq struct {
	Name string `json:"name"`
}

// decodeName reads an optional {"name": ...} body; an empty body is fine.
func decodeName(r *http.Request) (string, bool) {
	var req nameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.Is(err, io.EOF)
	}
	return req.Name, true
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
