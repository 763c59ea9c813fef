package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartguide/smartguide/internal/history"
)

type historyCreateRequest struct {
	UserID   string `json:"userId"`
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Rating   *int   `json:"rating"`
}

// handleHistoryList returns recent practice records, newest first. An
// authenticated request without an explicit userId filter lists the caller's
// own records.
func (h *Handler) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		if id := IdentityFromContext(r.Context()); id != nil {
			userID = id.UserID
		}
	}

	records, err := h.histories.FindRecent(r.Context(), userID, history.DefaultListLimit)
	if err != nil {
		slog.Default().Error("Failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": records})
}

// handleHistoryCreate stores one evaluated answer. The owner comes from the
// body, or from the verified identity when the body omits it; anonymous
// records are stored without an owner.
func (h *Handler) handleHistoryCreate(w http.ResponseWriter, r *http.Request) {
	var req historyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.Topic == "" || req.Question == "" || req.Answer == "" || req.Feedback == "" || req.Rating == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	userID := req.UserID
	if userID == "" {
		if id := IdentityFromContext(r.Context()); id != nil {
			userID = id.UserID
		}
	}

	record := history.Record{
		Topic:    req.Topic,
		Question: req.Question,
		Answer:   req.Answer,
		Feedback: req.Feedback,
		Rating:   *req.Rating,
	}
	if userID != "" {
		record.UserID = sql.NullString{String: userID, Valid: true}
	}

	if err := h.histories.Create(r.Context(), &record); err != nil {
		slog.Default().Error("Failed to save history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": record.ID})
}
