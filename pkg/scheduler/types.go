package scheduler

import (
	"context"
)

type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() chan T {
	return f.input
}

func (f *Future[T]) Stop() {
	f.cancel()
}

// Await blocks until every future delivered its result or ctx is done.
// Results keep the order of the futures; futures still pending when ctx
// ends are stopped and reported with ctx.Err().
func Await[T any](ctx context.Context, futures []*Future[Result[T]]) []Result[T] {
	results := make([]Result[T], len(futures))
	for i, f := range futures {
		select {
		case r := <-f.C():
			results[i] = r
		case <-ctx.Done():
			f.Stop()
			results[i] = Result[T]{Err: ctx.Err()}
		}
	}
	return results
}
