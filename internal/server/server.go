// Package server provides the JSON HTTP handlers for the Smart Guide API.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartguide/smartguide/internal/gamification"
	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/interview"
	"github.com/smartguide/smartguide/internal/user"
)

// Handler bundles the API endpoints and their collaborators.
type Handler struct {
	interviews *interview.Service
	histories  history.Repository
	progress   gamification.Repository
	users      user.Repository
}

// NewHandler creates a new Handler.
func NewHandler(
	interviews *interview.Service,
	histories history.Repository,
	progress gamification.Repository,
	users user.Repository,
) *Handler {
	return &Handler{
		interviews: interviews,
		histories:  histories,
		progress:   progress,
		users:      users,
	}
}

// Routes returns the API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/interview", h.handleInterview)
	mux.HandleFunc("GET /api/history", h.handleHistoryList)
	mux.HandleFunc("POST /api/history", h.handleHistoryCreate)
	mux.HandleFunc("GET /api/gamification", h.handleGamificationGet)
	mux.HandleFunc("POST /api/gamification", h.handleGamificationSave)
	mux.HandleFunc("GET /api/analytics", h.handleAnalytics)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("Failed to encode response body", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
