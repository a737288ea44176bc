package async

import (
	"context"
	"fmt"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation finishes and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to end, whichever comes first.
// Giving up on the wait does not stop the computation.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, fmt.Errorf("%w: %w", ErrAwaitAborted, ctx.Err())
	}
}

// Done is closed when the computation has finished.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports completion without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in its own goroutine and returns its Future.
// A context cancelled before the goroutine starts completes the Future with ctx.Err().
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// Run is Async for functions that take only a context.
func Run[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	return Async(ctx, struct{}{}, func(ctx context.Context, _ struct{}) (U, error) {
		return fn(ctx)
	})
}

// Resolved returns an already completed Future.
func Resolved[U any](result U, err error) *Future[U] {
	f := &Future[U]{result: result, err: err, done: make(chan struct{})}
	close(f.done)
	return f
}

// WaitAll waits for every future in order and stops at the first error.
// Results of futures awaited so far are returned alongside the error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
