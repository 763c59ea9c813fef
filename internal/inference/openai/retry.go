package openai

import (
	"context"
	"log/slog"

	"github.com/avast/retry-go"

	"github.com/smartguide/smartguide/internal/inference"
)

// invokeWithRetry runs op with bounded exponential backoff. Only errors the
// classifier marks retryable (rate limits, 5xx) trigger another attempt; the
// delay before the Nth retry is BaseDelay * 2^(N-1). On exhaustion or a
// non-retryable failure the last attempt's error is returned unchanged.
func (client *Client) invokeWithRetry(ctx context.Context, op func() error) error {
	var lastErr error
	err := retry.Do(
		func() error {
			if err := op(); err != nil {
				lastErr = err
				if !inference.ShouldRetry(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.retryConfig.MaxRetries+1),
		retry.Delay(client.retryConfig.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			slog.Default().Info("Retrying OpenAI API call",
				"attempt", attempt+1,
				"error", err)
		}),
	)
	if err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}
