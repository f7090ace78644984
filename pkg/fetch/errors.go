package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates the request could not be built at all,
	// for example from a malformed URL. Never retried.
	ErrInvalidRequest = errors.New("invalid request")
)

// StatusError reports a response with a non-success status code. Status
// failures are terminal; only transport failures are retried.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// RetryError is returned once the backoff ceiling is reached. It wraps the
// last transport error observed.
type RetryError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("giving up on %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// IsRetryExhausted reports whether err means the backoff ceiling was reached
func IsRetryExhausted(err error) bool {
	var retryErr *RetryError
	return errors.As(err, &retryErr)
}
