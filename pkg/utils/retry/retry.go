package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry marks an error as worth another attempt.
// Wrap (or join) transient errors with it to ask Blocking for a retry.
var ErrRetry = errors.New("retry")

// Backoff is a (blocking) function returning when to retry.
//
// If the context is canceled while waiting, it returns ctx.Err().
type Backoff func(context.Context) error

// StaticBackoff waits for a fixed interval between attempts.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits initialInterval before the first retry and
// multiplies the wait by r after each one.
func ExponentialBackoff(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(int64(float64(interval) * r))
			return nil
		}
	}
}

// Blocking calls f until it succeeds, returns a non-retryable error, or
// runs out of attempts.
//
// f asks for a retry by returning an error wrapping ErrRetry. Between
// attempts, Blocking waits per b. maxAttempts <= 0 means unbounded.
//
// The value of the last call of f is always returned, also on error.
func Blocking[T any](ctx context.Context, b Backoff, maxAttempts int, f func() (T, error)) (T, error) {
	last := *new(T)
	attempt := 0
	for {
		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		attempt += 1
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
		if 0 < maxAttempts && maxAttempts <= attempt {
			return last, err
		}
		if err := b(ctx); err != nil {
			return last, err
		}
	}
}
