package loop

import (
	"context"
	"fmt"
	"time"
)

// Next tells Start what to do after a task returns.
type Next struct {
	// if not nil, breaks with error
	err error

	// if quit == true and err == nil, breaks without error
	quit bool

	// otherwise, continue loop after interval.
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}
	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// Continue loop, sleeping interval before the next round.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break loop. Pass nil to break without error.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task receives the value of the previous round and returns the value
// for the next one, together with Continue(...) or Break(...).
type Task[T any] func(context.Context, T) (T, Next)

// Start runs task in a loop, starting from init, until the task breaks
// or ctx is done.
//
// The last T is always returned, whether or not an error comes with it.
func Start[T any](ctx context.Context, init T, task Task[T]) (T, error) {
	select {
	case <-ctx.Done():
		return init, ctx.Err()
	default:
	}

	value := init
	for {
		v, n := task(ctx, value)
		if n.err != nil {
			return v, n.err
		}
		if n.quit {
			return v, nil
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			// shutting down has priority over the timer.
			if !timer.Stop() {
				<-timer.C
			}
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}
