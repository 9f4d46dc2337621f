package pool

import (
	"context"
	"errors"

	"github.com/liangbm3/BasicTreadPool/internal/queue"
)

// Submit queues fn for execution and returns a Future for its result.
// It does not wait for fn to run. Once Shutdown has begun it fails with an
// error matching both ErrPoolShuttingDown and ErrQueueClosed.
//
// Example:
//
//	future, err := pool.Submit(p, func() (int, error) {
//	    return compute(), nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Option 1: Block until result is ready
//	result, err := future.Get()
//
//	// Option 2: Wait with timeout
//	result, err := future.GetWithTimeout(5 * time.Second)
//
//	// Option 3: Check if ready without blocking
//	if future.IsReady() {
//	    result, _ := future.Get()
//	}
func Submit[R any](p *Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return submit(p, func(context.Context) (R, error) {
		return fn()
	})
}

// SubmitFunc queues a function that cannot fail. Its Future only carries an
// error if fn panics.
func SubmitFunc[R any](p *Pool, fn func() R) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return submit(p, func(context.Context) (R, error) {
		return fn(), nil
	})
}

// SubmitContext queues fn and hands it the pool's base context (see WithContext).
func SubmitContext[R any](p *Pool, fn func(ctx context.Context) (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return submit(p, fn)
}

// Submit1 queues fn with one bound argument. The argument is copied when
// Submit1 is called, so later changes by the caller are not seen by fn
// (the usual caveat applies to pointers, slices and maps).
func Submit1[A, R any](p *Pool, fn func(A) (R, error), a A) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return submit(p, func(context.Context) (R, error) {
		return fn(a)
	})
}

// Submit2 is Submit1 with two bound arguments.
//
// Example:
//
//	future, _ := pool.Submit2(p, func(x, y float64) (float64, error) {
//	    return x*y + 10, nil
//	}, 3.14, 2.0)
func Submit2[A, B, R any](p *Pool, fn func(A, B) (R, error), a A, b B) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return submit(p, func(context.Context) (R, error) {
		return fn(a, b)
	})
}

// Go queues a function with no result. The returned Future resolves to
// struct{}{} once fn has returned, or to a *PanicError if it panicked.
func Go(p *Pool, fn func()) (*Future[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return submit(p, func(context.Context) (struct{}, error) {
		fn()
		return struct{}{}, nil
	})
}

func submit[R any](p *Pool, fn func(context.Context) (R, error)) (*Future[R], error) {
	if p.shutdown.Load() {
		return nil, shuttingDown(ErrQueueClosed)
	}

	c := newTaskCell(p.seq.Add(1), fn)

	var err error
	if p.cfg.nonBlockingSubmit {
		err = p.queue.TryPush(c)
	} else {
		err = p.queue.Push(c)
	}

	if err != nil {
		if errors.Is(err, queue.ErrClosed) {
			return nil, shuttingDown(err)
		}
		return nil, err
	}

	p.metrics.taskSubmitted()
	return c.future, nil
}
