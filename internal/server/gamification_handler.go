package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartguide/smartguide/internal/gamification"
)

type gamificationSaveRequest struct {
	UserID string    `json:"userId"`
	Points *int      `json:"points"`
	Level  *int      `json:"level"`
	Streak *int      `json:"streak"`
	Badges []string  `json:"badges"`
	// LastPracticedAt is optional so clients that only sync totals keep their
	// stored streak anchor.
	LastPracticedAt string `json:"lastPracticedAt"`
}

type gamificationResponse struct {
	UserID string             `json:"userId"`
	State  gamification.State `json:"gamification"`
}

// handleGamificationGet returns a user's stored progress, or a null
// gamification body when nothing has been synced yet.
func (h *Handler) handleGamificationGet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		if id := IdentityFromContext(r.Context()); id != nil {
			userID = id.UserID
		}
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	progress, err := h.progress.FindByUser(r.Context(), userID)
	if err != nil {
		slog.Default().Error("Failed to fetch gamification", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch gamification")
		return
	}
	if progress == nil {
		writeJSON(w, http.StatusOK, map[string]any{"gamification": nil})
		return
	}

	state, err := progress.State()
	if err != nil {
		slog.Default().Error("Failed to decode gamification state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch gamification")
		return
	}
	writeJSON(w, http.StatusOK, gamificationResponse{UserID: userID, State: state})
}

// handleGamificationSave upserts the client-held state as-is; the server does
// not re-derive points or streaks on sync.
func (h *Handler) handleGamificationSave(w http.ResponseWriter, r *http.Request) {
	var req gamificationSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	userID := req.UserID
	if userID == "" {
		if id := IdentityFromContext(r.Context()); id != nil {
			userID = id.UserID
		}
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	state := gamification.State{
		Points:          valueOrDefault(req.Points, 0),
		Level:           valueOrDefault(req.Level, 1),
		Streak:          valueOrDefault(req.Streak, 0),
		Badges:          req.Badges,
		LastPracticedAt: req.LastPracticedAt,
	}
	if state.Badges == nil {
		state.Badges = []string{}
	}

	progress, err := gamification.NewProgress(userID, state)
	if err != nil {
		slog.Default().Error("Failed to encode gamification state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save gamification")
		return
	}
	if err := h.progress.Upsert(r.Context(), progress); err != nil {
		slog.Default().Error("Failed to save gamification", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save gamification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "gamification": state})
}

func valueOrDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
