package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aria-team/dialogd/internal/scenario"
)

// RespondRequest is the payload for POST /api/v1/dialog/respond.
type RespondRequest struct {
	Text string `json:"text"`
}

type Server struct {
	router *chi.Mux
	dialog *scenario.Router
	logger *slog.Logger
	port   int

	// The dialog router and its session state expect a single caller at a
	// time; mu serializes the lifecycle handlers so concurrent HTTP requests
	// cannot race on shared state. One in-flight turn is the dialog model
	// anyway.
	mu sync.Mutex
}

func NewServer(port int, dialog *scenario.Router, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		dialog: dialog,
		logger: logger,
		port:   port,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1/dialog", func(r chi.Router) {
		r.Get("/version", s.version)
		r.Post("/open", s.open)
		r.Post("/close", s.close)
		r.Post("/session/start", s.startSession)
		r.Post("/respond", s.respond)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.dialog.Version()})
}

func (s *Server) open(w http.ResponseWriter, r *http.Request) {
	var creds scenario.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dialog.Open(creds); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	name, _ := s.dialog.ActiveScenario()
	writeJSON(w, http.StatusOK, map[string]string{"scenario": name})
}

func (s *Server) close(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dialog.Close(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dialog.StartSession(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "session started"})
}

// respond runs one dialog turn. Guardrail substitutions and graceful
// degradations come back as normal results; only malformed requests produce
// an HTTP error.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	result := s.dialog.Respond(r.Context(), req.Text)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, scenario.ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, scenario.ErrUnknownScenario):
		return http.StatusBadRequest
	case errors.Is(err, scenario.ErrNoActiveScenario):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
