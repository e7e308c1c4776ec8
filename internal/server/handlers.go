package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/socraticchat/socratic/internal/dialogue"
	"github.com/socraticchat/socratic/internal/version"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response       string `json:"response"`
	SessionID      string `json:"session_id"`
	ProcessedInput string `json:"processed_input,omitempty"`
}

type sessionResponse struct {
	SessionID    string             `json:"session_id"`
	Messages     []dialogue.Message `json:"messages"`
	MessageCount int                `json:"message_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "SocraticChat API is running",
		"version": version.Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"sessions":  s.store.Len(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	turn, err := s.orch.HandleTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       turn.Reply,
		SessionID:      turn.SessionID,
		ProcessedInput: turn.ProcessedInput,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orch.Inspect(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:    sess.ID,
		Messages:     sess.History(),
		MessageCount: sess.MessageCount(),
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    sess.UpdatedAt(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.orch.Clear(id); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": id,
		"status":     "deleted",
	})
}

// writeError maps classified errors to HTTP statuses. Provider-classified
// cases carry the provider detail; anything unclassified gets a generic
// body and the detail goes to the log only.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dialogue.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Message cannot be empty"})
	case errors.Is(err, dialogue.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Session not found"})
	case errors.Is(err, dialogue.ErrProviderAuth):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: err.Error()})
	case errors.Is(err, dialogue.ErrProviderRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Detail: err.Error()})
	case errors.Is(err, dialogue.ErrProviderTimeout), errors.Is(err, dialogue.ErrProviderUnavailable):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	default:
		s.logger.Error("unclassified error", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "An unexpected error occurred. Please try again."})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
