package server

import (
	"log/slog"
	"net/http"

	"github.com/smartguide/smartguide/internal/history"
	"github.com/smartguide/smartguide/internal/statistics"
)

// handleAnalytics aggregates recent history into the performance report
// consumed by the analytics and performance pages.
func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		if id := IdentityFromContext(r.Context()); id != nil {
			userID = id.UserID
		}
	}

	records, err := h.histories.FindRecent(r.Context(), userID, history.DefaultListLimit)
	if err != nil {
		slog.Default().Error("Failed to load history for analytics", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}
	writeJSON(w, http.StatusOK, statistics.Calculate(records))
}
