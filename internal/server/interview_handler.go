package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartguide/smartguide/internal/inference"
	"github.com/smartguide/smartguide/internal/interview"
)

const (
	actionGenerateQuestion = "generate-question"
	actionEvaluateAnswer   = "evaluate-answer"
)

type interviewRequest struct {
	Action   string `json:"action"`
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type rateLimitResponse struct {
	Error          string `json:"error"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallbackReason"`
}

// handleInterview dispatches a practice action to the generator or evaluator
// and maps internal failures to transport responses. Rate-limit failures that
// escape the service are soft: they come back as 200 with fallback markers.
func (h *Handler) handleInterview(w http.ResponseWriter, r *http.Request) {
	var req interviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	switch req.Action {
	case actionGenerateQuestion:
		question, err := h.interviews.GenerateQuestion(r.Context(), req.Topic)
		if err != nil {
			h.writeInterviewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, question)

	case actionEvaluateAnswer:
		if req.Question == "" || req.Answer == "" {
			writeError(w, http.StatusBadRequest, "Question and answer are required for evaluation.")
			return
		}
		evaluation, err := h.interviews.EvaluateAnswer(r.Context(), req.Question, req.Answer)
		if err != nil {
			h.writeInterviewError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, evaluation)

	default:
		writeError(w, http.StatusBadRequest, "Invalid action.")
	}
}

func (h *Handler) writeInterviewError(w http.ResponseWriter, err error) {
	slog.Default().Error("Interview pipeline failed", "error", err)
	if inference.IsRateLimitError(err) {
		writeJSON(w, http.StatusOK, rateLimitResponse{
			Error:          "OpenAI rate limit reached. Showing fallback content.",
			Fallback:       true,
			FallbackReason: interview.FallbackReasonRateLimit,
		})
		return
	}
	writeError(w, inference.StatusCode(err), err.Error())
}
