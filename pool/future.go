package pool

import (
	"context"
	"sync"
	"time"
)

// Future is the caller's handle on the eventual outcome of one submitted task.
//
// The outcome is written exactly once by the worker that ran the task and then
// published by closing the done channel; every read after that observes the
// same value and error. All methods are safe for concurrent use.
type Future[R any] struct {
	id    uint64
	done  chan struct{}
	once  sync.Once
	value R
	err   error
}

func newFuture[R any](id uint64) *Future[R] {
	return &Future[R]{
		id:   id,
		done: make(chan struct{}),
	}
}

// ID returns the task's submission sequence number within its pool.
func (f *Future[R]) ID() uint64 {
	return f.id
}

// Get blocks until the task has finished and returns its result.
// A task that failed or panicked yields its error; calling Get again
// returns the same result.
//
// Example:
//
//	future, _ := pool.Submit(p, func() (int, error) { return 6 * 7, nil })
//	v, err := future.Get()
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithContext is Get bounded by ctx. If ctx ends first it returns
// ctx.Err(); the task itself is unaffected and can be read again later.
// A result that is already available is returned even if ctx is done.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	if v, err, ready := f.TryGet(); ready {
		return v, err
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// GetWithTimeout is Get bounded by d, returning ErrGetTimeout when d elapses first.
// A result that is already available is returned even for d <= 0.
func (f *Future[R]) GetWithTimeout(d time.Duration) (R, error) {
	if v, err, ready := f.TryGet(); ready {
		return v, err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero R
		return zero, ErrGetTimeout
	}
}

// TryGet returns the result without blocking. ready reports whether the
// task has finished; value and err are zero until it has.
func (f *Future[R]) TryGet() (value R, err error, ready bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		return value, nil, false
	}
}

func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the result is available, for use in select.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// complete publishes the outcome. Only the first call has any effect.
func (f *Future[R]) complete(value R, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}
