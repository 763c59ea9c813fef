package inference

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the model operations for the interview pipeline
type Client interface {
	GenerateQuestion(ctx context.Context, params GenerateQuestionRequest) (GenerateQuestionResponse, error)
	EvaluateAnswer(ctx context.Context, params EvaluateAnswerRequest) (EvaluateAnswerResponse, error)
}

// GenerateQuestionRequest holds parameters for generating an interview question
type GenerateQuestionRequest struct {
	Topic string `json:"topic"`
}

type GenerateQuestionResponse struct {
	Question string `json:"question"`
}

// EvaluateAnswerRequest holds the question/answer pair to score
type EvaluateAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// EvaluateAnswerResponse mirrors the structured output schema. Rating is a
// pointer so a missing field can be told apart from an explicit zero.
type EvaluateAnswerResponse struct {
	Feedback string   `json:"feedback"`
	Rating   *float64 `json:"rating"`
}

const (
	DefaultMaxRetryAttempts = 3
	DefaultRetryBaseDelay   = 800 * time.Millisecond
)

// RetryConfig controls the bounded exponential backoff around model calls.
// The delay before the Nth retry is BaseDelay * 2^(N-1).
type RetryConfig struct {
	MaxRetries uint
	BaseDelay  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultMaxRetryAttempts,
		BaseDelay:  DefaultRetryBaseDelay,
	}
}
