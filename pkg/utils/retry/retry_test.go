package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/opsberry/deskfab/pkg/utils/retry"
)

func TestBlocking(t *testing.T) {
	ctx := context.Background()
	immediate := retry.StaticBackoff(time.Microsecond)

	t.Run("it returns the first success", func(t *testing.T) {
		attempts := 0
		value, err := retry.Blocking(ctx, immediate, 5, func() (int, error) {
			attempts += 1
			if attempts < 3 {
				return 0, fmt.Errorf("not yet: %w", retry.ErrRetry)
			}
			return 42, nil
		})

		if err != nil {
			t.Fatal(err)
		}
		if value != 42 || attempts != 3 {
			t.Errorf("unmatch: value=%d attempts=%d", value, attempts)
		}
	})

	t.Run("a non-retryable error is returned at once", func(t *testing.T) {
		expected := errors.New("fatal")
		attempts := 0
		_, err := retry.Blocking(ctx, immediate, 5, func() (int, error) {
			attempts += 1
			return 0, expected
		})

		if !errors.Is(err, expected) {
			t.Errorf("unmatch error: %v", err)
		}
		if attempts != 1 {
			t.Errorf("unmatch attempts: %d", attempts)
		}
	})

	t.Run("it gives up after maxAttempts, returning the last error", func(t *testing.T) {
		attempts := 0
		_, err := retry.Blocking(ctx, immediate, 3, func() (int, error) {
			attempts += 1
			return attempts, fmt.Errorf("still failing: %w", retry.ErrRetry)
		})

		if !errors.Is(err, retry.ErrRetry) {
			t.Errorf("unmatch error: %v", err)
		}
		if attempts != 3 {
			t.Errorf("unmatch attempts: %d", attempts)
		}
	})

	t.Run("cancelation interrupts the backoff wait", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := retry.Blocking(cctx, retry.StaticBackoff(time.Hour), 0, func() (int, error) {
			return 0, retry.ErrRetry
		})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("unmatch error: %v", err)
		}
	})
}

func TestExponentialBackoff(t *testing.T) {
	t.Run("it grows the interval by r", func(t *testing.T) {
		ctx := context.Background()
		b := retry.ExponentialBackoff(time.Millisecond, 2.0)

		waits := []time.Duration{}
		for i := 0; i < 3; i++ {
			before := time.Now()
			if err := b(ctx); err != nil {
				t.Fatal(err)
			}
			waits = append(waits, time.Since(before))
		}

		// 1ms, 2ms, 4ms nominal. only check monotone growth: timers
		// have slack.
		if waits[2] < 4*time.Millisecond {
			t.Errorf("third wait too short: %v", waits)
		}
	})
}
