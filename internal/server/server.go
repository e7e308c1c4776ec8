// Package server exposes the dialogue orchestrator over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/socraticchat/socratic/internal/dialogue"
)

// Server holds the HTTP surface and its collaborators.
type Server struct {
	orch   *dialogue.Orchestrator
	store  *dialogue.Store
	logger *slog.Logger
}

// New creates a server around the orchestrator. The store is passed for
// read-only operational visibility (session counts).
func New(orch *dialogue.Orchestrator, store *dialogue.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		orch:   orch,
		store:  store,
		logger: logger,
	}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)

	return s.withLogging(withCORS(mux))
}
