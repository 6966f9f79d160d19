package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/jdelgato/chatgate/internal/config"
	"github.com/jdelgato/chatgate/internal/domain"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type logsResponse struct {
	Logs []domain.Exchange `json:"logs"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// handleChat runs one full conversation cycle: orchestrate the remote
// assistant, persist the exchange, return the reply.
//
// Ordering is deliberate: a log record only ever exists for a completed
// orchestration. Under the strict write policy a failed append fails the
// whole request; under best-effort the caller still gets the response and
// the write failure stays in the server logs.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.responder == nil {
		s.writeError(w, http.StatusInternalServerError, "assistant unavailable")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := SessionID(r)

	response, err := s.responder.Run(r.Context(), req.Message)
	if err != nil {
		// Cause detail stays server-side; callers get a uniform failure.
		s.log.Error().Err(err).Str("sessionId", sessionID).Msg("orchestration failed")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := s.exchanges.Append(r.Context(), sessionID, req.Message, response); err != nil {
		if s.cfg.Audit.WritePolicy == config.WritePolicyBestEffort {
			s.log.Error().Err(err).Str("sessionId", sessionID).Msg("exchange log write failed (best-effort, response still returned)")
		} else {
			s.log.Error().Err(err).Str("sessionId", sessionID).Msg("exchange log write failed")
			s.writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	s.writeJSON(w, http.StatusOK, chatResponse{Response: response})
}

// handleListLogs returns every recorded exchange, newest first.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.exchanges.ListAll(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing exchange logs failed")
		s.writeError(w, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	s.writeJSON(w, http.StatusOK, logsResponse{Logs: logs})
}

// handleListSessionLogs returns one session's exchanges, newest first.
func (s *Server) handleListSessionLogs(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	logs, err := s.exchanges.ListBySession(r.Context(), sessionID)
	if err != nil {
		s.log.Error().Err(err).Str("sessionId", sessionID).Msg("listing exchange logs failed")
		s.writeError(w, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	s.writeJSON(w, http.StatusOK, logsResponse{Logs: logs})
}

// handleDeleteAllLogs irreversibly clears the exchange log.
func (s *Server) handleDeleteAllLogs(w http.ResponseWriter, r *http.Request) {
	n, err := s.exchanges.DeleteAll(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("deleting exchange logs failed")
		s.writeError(w, http.StatusInternalServerError, "failed to delete logs")
		return
	}

	s.log.Info().Int64("deleted", n).Str("sessionId", SessionID(r)).Msg("all exchange logs deleted")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "All logs deleted",
		"deleted": n,
	})
}

// handleHealth reports liveness. It sits outside the identity gate.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.version})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
