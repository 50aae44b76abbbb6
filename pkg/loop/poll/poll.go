// Package poll gives every status wait in provisioning one shape:
// a bounded number of checks at a fixed interval.
//
// The backends expose no push-based completion signal, so asynchronous
// operations (collection creation, knowledge base activation, ingestion,
// agent preparation, agent deletion) are observed only by repeated polls.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsberry/deskfab/pkg/loop"
)

var ErrExhausted = errors.New("polling exhausted")

// Spec bounds one polling loop. MaxAttempts <= 0 means unbounded
// (the caller's context is then the only brake).
type Spec struct {
	Interval    time.Duration `yaml:"interval"`
	MaxAttempts int           `yaml:"maxAttempts"`
}

func (s Spec) String() string {
	if s.MaxAttempts <= 0 {
		return fmt.Sprintf("every %s", s.Interval)
	}
	return fmt.Sprintf("up to %d times every %s", s.MaxAttempts, s.Interval)
}

// Condition checks the observed resource once.
//
// done = true stops polling with the returned value. An error stops
// polling immediately and is returned as is.
type Condition[T any] func(ctx context.Context) (value T, done bool, err error)

// WaitFor polls cond per spec until it reports done, fails, or the
// attempt bound is hit. On exhaustion it returns the last observed value
// together with ErrExhausted, so callers may treat a non-terminal status
// as best-effort.
func WaitFor[T any](ctx context.Context, spec Spec, cond Condition[T]) (T, error) {
	type state struct {
		attempt int
		value   T
	}

	final, err := loop.Start(ctx, state{}, func(ctx context.Context, s state) (state, loop.Next) {
		value, done, err := cond(ctx)
		s.value = value
		if err != nil {
			return s, loop.Break(err)
		}
		if done {
			return s, loop.Break(nil)
		}
		s.attempt += 1
		if 0 < spec.MaxAttempts && spec.MaxAttempts <= s.attempt {
			return s, loop.Break(fmt.Errorf("%w: %s", ErrExhausted, spec))
		}
		return s, loop.Continue(spec.Interval)
	})
	return final.value, err
}

// Settle blocks for d, or until ctx is done.
//
// Some backends propagate changes eventually and expose no readiness
// signal at all; the only correct move is a fixed wait.
func Settle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
