package inference

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RequestError is the canonical shape every transport failure is normalized
// into at the client boundary. The classifier only ever inspects this type.
type RequestError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request error %d: %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// ErrMalformedResponse marks a response that arrived from the model but could
// not be used: undecodable content or an empty completion. It is not
// retryable and is not a rate-limit condition.
var ErrMalformedResponse = errors.New("malformed model response")

// IsRateLimitError reports whether the error is a request-quota failure:
// status 429, or a code/message mentioning "rate limit" or "quota".
func IsRateLimitError(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	if reqErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	combined := strings.ToLower(reqErr.Code + " " + reqErr.Message)
	return strings.Contains(combined, "rate limit") || strings.Contains(combined, "quota")
}

// IsServerError reports whether the error carries a 5xx status code.
func IsServerError(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.StatusCode >= 500 && reqErr.StatusCode < 600
}

// ShouldRetry determines if an error should trigger a retry. Both rate limits
// and transient server errors are retried; everything else fails fast.
func ShouldRetry(err error) bool {
	return IsRateLimitError(err) || IsServerError(err)
}

// StatusCode extracts the best-available status code from an error chain,
// defaulting to 500 when none is present.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode > 0 {
		return reqErr.StatusCode
	}
	return http.StatusInternalServerError
}
