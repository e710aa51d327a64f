package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by backed caches (Redis) when the backend
// cannot be reached. Callers that can recompute should treat it as a miss.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError wraps an error to indicate the operation may succeed on
// another attempt (network timeouts, connection resets).
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError. Wrapping nil returns nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks whether an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff retries fn up to 3 times with exponential backoff.
// Only errors wrapped with [Retryable] trigger retries; anything else is
// returned immediately. Used for backend probes (Redis ping, Mongo ping)
// where the first attempt races service startup.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
