package concurrent

import (
	"context"
	"fmt"
	"golang.org/x/sync/errgroup"
	"time"
)

type Task[T any] struct {
	Timeout time.Duration
	Run     func(ctx context.Context) (T, error)
}

type Outcome[T any] struct {
	Value    T
	Err      error
	Duration time.Duration
}

// Settle runs every task concurrently and waits until each one has either returned or hit its own
// deadline. It never fails fast: outcomes are returned in task order, one per task. A task still
// running after its deadline is abandoned and whatever it returns later is dropped.
func Settle[T any](ctx context.Context, tasks []Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			outcomes[i] = runBounded(ctx, task)
			return nil
		})
	}

	_ = g.Wait()

	return outcomes
}

func runBounded[T any](ctx context.Context, task Task[T]) Outcome[T] {
	start := time.Now()

	var cancel context.CancelFunc
	if task.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	// buffered so a task finishing after the deadline never blocks
	ch := make(chan Outcome[T], 1)
	go func() {
		var o Outcome[T]
		defer func() {
			if r := recover(); r != nil {
				o = Outcome[T]{Err: fmt.Errorf("task panicked: %v", r)}
			}

			ch <- o
		}()

		o.Value, o.Err = task.Run(ctx)
	}()

	select {
	case o := <-ch:
		o.Duration = time.Since(start)
		return o

	case <-ctx.Done():
		return Outcome[T]{Err: ctx.Err(), Duration: time.Since(start)}
	}
}
