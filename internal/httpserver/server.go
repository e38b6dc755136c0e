// internal/httpserver/server.go
//
// HTTP server wiring for the solver service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/datasets".
//   - Solve endpoints (optional auth): mounted under /solve.
//   - Auth + history endpoints: /auth/*, /solves/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is
//     present; guests are tracked with an anonymous cookie.
//   - History is optional: with no database the solve endpoints still work and
//     the history endpoints answer 503.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-solver/internal/config"
	"github.com/robalobadob/wordle-solver/internal/history"
	"github.com/robalobadob/wordle-solver/internal/session"
	"github.com/robalobadob/wordle-solver/internal/solver"
	"github.com/robalobadob/wordle-solver/internal/words"
)

// Server bundles router, session store, dataset cache and history store.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	sessions session.Store
	lists    *words.Cache
	history  *history.Store // nil when history is disabled
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, sessions session.Store, lists *words.Cache, hist *history.Store) *Server {
	s := &Server{r: chi.NewRouter(), cfg: cfg, sessions: sessions, lists: lists, history: hist}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time; searches are CPU-bound
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","/datasets","POST /solve/new","POST /solve/{id}/feedback","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/datasets", s.handleDatasets)

	// Solve endpoints — OPTIONAL AUTH (guests can solve)
	s.mountSolve(s.r.With(s.withOptionalAuth()))

	// Auth + history
	s.mountAuthRoutes()

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

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ helpers -------------------------------------

type errorRes struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorRes{Error: msg})
}

// solverStatus maps engine and loader errors to HTTP status codes.
func solverStatus(err error) int {
	switch {
	case errors.Is(err, solver.ErrShape),
		errors.Is(err, solver.ErrInvalidMark),
		errors.Is(err, solver.ErrUnsupportedLength):
		return http.StatusBadRequest
	case errors.Is(err, solver.ErrExhausted):
		return http.StatusConflict
	case errors.Is(err, solver.ErrEmptyGuessSet), errors.Is(err, words.ErrEmptyList):
		return http.StatusUnprocessableEntity
	case errors.Is(err, words.ErrDatasetUnknown), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

type datasetsRes struct {
	Datasets  []string `json:"datasets"`
	MinLength int      `json:"minLength"`
	MaxLength int      `json:"maxLength"`
}

// handleDatasets lists the dataset directories available to /solve/new.
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := s.lists.Datasets()
	if err != nil {
		log.Error().Err(err).Msg("list datasets")
		writeError(w, http.StatusInternalServerError, "datasets_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, datasetsRes{Datasets: names, MinLength: solver.MinLength, MaxLength: solver.MaxLength})
}
