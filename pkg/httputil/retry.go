package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryBudget is the number of retries attempted after the initial call
// for rate-limiting-class failures.
const RetryBudget = 3

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses, rate limits)
// with this type so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with linearly increasing backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The wait after the n-th failed attempt is n*delay,
// so a 1s base yields 1s, 2s, 3s pauses.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay * time.Duration(i+1)):
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with the
// default budget: one initial attempt plus [RetryBudget] retries, 1 second
// base delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, RetryBudget+1, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
