// Package settle joins independent concurrent calls without letting one failure
// cancel or hide another.
package settle

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Outcome is the settled result of one call.
type Outcome[T any] struct {
	Value T
	Err   error
}

func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Both runs fa and fb concurrently and waits for both. A panic in either call is
// recovered and reported as that call's error. The context passed to each call is
// never cancelled because of the other call.
func Both[A, B any](ctx context.Context, fa func(context.Context) (A, error), fb func(context.Context) (B, error)) (Outcome[A], Outcome[B]) {
	var (
		group errgroup.Group
		first Outcome[A]
		other Outcome[B]
	)

	group.Go(func() error {
		first = run(ctx, fa)

		return nil
	})

	group.Go(func() error {
		other = run(ctx, fb)

		return nil
	})

	_ = group.Wait()

	return first, other
}

func run[T any](ctx context.Context, fn func(context.Context) (T, error)) (outcome Outcome[T]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().Str("stack", string(debug.Stack())).Interface("panic", recovered).Msg("recovered panic in settled call")

			outcome = Outcome[T]{Err: fmt.Errorf("panic: %v", recovered)}
		}
	}()

	value, err := fn(ctx)

	return Outcome[T]{Value: value, Err: err}
}
