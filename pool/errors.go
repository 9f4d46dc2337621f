package pool

import (
	"errors"
	"fmt"

	"github.com/liangbm3/BasicTreadPool/internal/queue"
)

var (
	// ErrInvalidWorkerCount is returned by New when the worker count is below 1.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrInvalidConfig is returned by New when an option carries an unusable value.
	ErrInvalidConfig = errors.New("invalid pool configuration")

	// ErrPoolShuttingDown is returned by every submit function once Shutdown has begun.
	// The returned error also matches ErrQueueClosed.
	ErrPoolShuttingDown = errors.New("pool is shutting down")

	ErrQueueClosed = queue.ErrClosed
	ErrQueueFull   = queue.ErrFull

	ErrNilTask = errors.New("task function is nil")

	// ErrTaskExited is the failure recorded for a task that called
	// runtime.Goexit. Its worker is replaced and the pool keeps running.
	ErrTaskExited = errors.New("task exited its goroutine")

	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
	ErrGetTimeout      = errors.New("timed out waiting for task result")
)

// PanicError is the failure recorded for a task whose function panicked.
// The worker that ran it recovers and keeps serving the queue.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it is itself an error, so that
// errors.As can reach e.g. a runtime.Error for an integer divide by zero.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func shuttingDown(cause error) error {
	return fmt.Errorf("%w: %w", ErrPoolShuttingDown, cause)
}
