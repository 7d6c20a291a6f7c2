// Package async models a simulated remote call: a fixed delay followed by
// an effect that always runs. It is the boundary where retries and
// timeouts would live once a real backend replaces the simulation.
package async

import (
	"context"
	"sync"
	"time"
)

type Task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Group tracks running tasks so shutdown can let their effects land.
type Group struct {
	wg sync.WaitGroup
}

// Wait blocks until every task started in g finished, or ctx is done.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run waits delay in a new goroutine, then runs fn exactly once. There is
// no cancellation: fn runs whether or not anyone awaits the task. g may be
// nil.
func Run[T any](g *Group, delay time.Duration, fn func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	if g != nil {
		g.wg.Add(1)
	}
	go func() {
		defer close(t.done)
		if g != nil {
			defer g.wg.Done()
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			<-timer.C
		}
		t.val, t.err = fn()
	}()
	return t
}

// Await blocks until the task finished or ctx is done. Giving up on ctx
// does not stop the task.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (t *Task[T]) Done() <-chan struct{} { return t.done }
