package alphavantage

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the body is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response")

// NetworkError wraps a transport failure, including timeouts.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-200 response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

// RateLimitedError means the vendor quota is exhausted. The user may retry later.
type RateLimitedError struct {
	Message string
}

func (e *RateLimitedError) Error() string { return "API rate limit: " + e.Message }

// IsRateLimited reports whether err is, or wraps, a RateLimitedError.
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
