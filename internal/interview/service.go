// Package interview implements the question-generation and answer-evaluation
// pipeline with deterministic fallbacks for rate-limited model calls.
package interview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/smartguide/smartguide/internal/inference"
)

// DefaultTopic is used when a request does not name a topic.
const DefaultTopic = "general"

const (
	// FallbackReasonRateLimit marks results produced locally after the model
	// was classified as rate limited.
	FallbackReasonRateLimit = "rate-limit"

	indeterminateFeedback = "Could not evaluate the answer."
	heuristicFeedback     = "Rate limited: using a heuristic evaluation. Structure your answer with a clear opening, 2-3 key points, and a concise closing example to improve your score."
)

// Question is the result of a generation request. Topic always carries the
// requested topic, Fallback marks locally-produced content.
type Question struct {
	Question       string `json:"question"`
	Topic          string `json:"topic"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// Evaluation is the result of scoring an answer. Rating is in [1, 10] except
// for the indeterminate sentinel, where it is 0.
type Evaluation struct {
	Feedback       string `json:"feedback"`
	Rating         int    `json:"rating"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallbackReason,omitempty"`
}

// Service orchestrates model calls for generating and evaluating interview
// questions. It holds no state between calls.
type Service struct {
	client inference.Client
}

func NewService(client inference.Client) *Service {
	return &Service{client: client}
}

// GenerateQuestion asks the model for an interview question on the topic.
// After retry exhaustion on rate limits it degrades to the static fallback
// table; any other failure propagates.
func (s *Service) GenerateQuestion(ctx context.Context, topic string) (Question, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	response, err := s.client.GenerateQuestion(ctx, inference.GenerateQuestionRequest{Topic: topic})
	if err != nil {
		if !inference.IsRateLimitError(err) {
			return Question{}, fmt.Errorf("client.GenerateQuestion() > %w", err)
		}
		return Question{
			Question:       FallbackQuestion(topic),
			Topic:          topic,
			Fallback:       true,
			FallbackReason: FallbackReasonRateLimit,
		}, nil
	}

	return Question{
		Question: response.Question,
		Topic:    topic,
		Fallback: false,
	}, nil
}

// EvaluateAnswer asks the model for structured feedback and a rating. On rate
// limit exhaustion it falls back to a heuristic score from answer length; a
// usable-but-malformed model response yields the indeterminate sentinel
// (rating 0, not a fallback). Any other failure propagates.
func (s *Service) EvaluateAnswer(ctx context.Context, question, answer string) (Evaluation, error) {
	response, err := s.client.EvaluateAnswer(ctx, inference.EvaluateAnswerRequest{
		Question: question,
		Answer:   answer,
	})
	if err != nil {
		if inference.IsRateLimitError(err) {
			return Evaluation{
				Feedback:       heuristicFeedback,
				Rating:         heuristicRating(answer),
				Fallback:       true,
				FallbackReason: FallbackReasonRateLimit,
			}, nil
		}
		if errors.Is(err, inference.ErrMalformedResponse) {
			return indeterminateEvaluation(), nil
		}
		return Evaluation{}, fmt.Errorf("client.EvaluateAnswer() > %w", err)
	}

	if response.Feedback == "" || response.Rating == nil {
		return indeterminateEvaluation(), nil
	}

	return Evaluation{
		Feedback: response.Feedback,
		Rating:   clampRating(int(math.Round(*response.Rating))),
		Fallback: false,
	}, nil
}

// indeterminateEvaluation is the sentinel for "the model answered but
// unusably". Rating 0 is outside the normal range on purpose.
func indeterminateEvaluation() Evaluation {
	return Evaluation{
		Feedback: indeterminateFeedback,
		Rating:   0,
		Fallback: false,
	}
}

// heuristicRating approximates a score from the trimmed answer length:
// round(length/120) clamped to [1, 10].
func heuristicRating(answer string) int {
	length := len(strings.TrimSpace(answer))
	return clampRating(int(math.Round(float64(length) / 120)))
}

func clampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 10 {
		return 10
	}
	return rating
}
