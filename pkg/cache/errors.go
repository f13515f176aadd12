package cache

import (
	"context"
	"errors"
	"time"

	hgerrors "github.com/matzehuels/hexglobe/pkg/errors"
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable or carries the
// GEOMETRY_UNAVAILABLE code.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re) || hgerrors.IsRetryable(err)
}

// RetryAttempts and RetryDelay control RetryWithBackoff.
var (
	RetryAttempts = 3
	RetryDelay    = 50 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or RetryAttempts is exhausted. The delay doubles after each try.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	var lastErr error

	for i := 0; i < RetryAttempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < RetryAttempts-1 {
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
