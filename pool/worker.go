package pool

import (
	"context"
	"runtime"
	"time"

	"github.com/liangbm3/BasicTreadPool/internal/cpu"
	"go.uber.org/multierr"
)

// worker is the loop run by each of the pool's goroutines. It pops cells
// until the queue reports closed-and-empty, so every task accepted before
// Shutdown is executed exactly once. Task errors and panics never end the
// loop; a task calling runtime.Goexit does, and taskExited replaces the worker.
func (p *Pool) worker(workerID int) error {
	if p.cfg.cpuAffinity {
		release, err := cpu.Pin(workerID)
		defer release()
		if err != nil {
			debugLog("worker %d: pinning to core %d failed: %v", workerID, cpu.Core(workerID), err)
		}
	}

	debugLog("worker %d started", workerID)
	for {
		c, ok := p.queue.Pop()
		if !ok {
			debugLog("worker %d stopped", workerID)
			return nil
		}

		p.execute(workerID, c)
		p.queue.Done()
	}
}

// execute runs one cell through rate limiting, hooks, recovery and retries,
// then publishes the outcome to its Future.
func (p *Pool) execute(workerID int, c cell) {
	var (
		start    time.Time
		busy     bool
		finished bool
	)
	defer func() {
		if finished {
			return
		}
		// Only runtime.Goexit unwinds this far; panics are recovered below.
		if busy {
			p.metrics.taskStopped(time.Since(start))
		}
		p.taskExited(workerID, c)
	}()

	var panicked bool
	err := p.waitTurn(p.cfg.ctx)
	if err == nil {
		start, busy = time.Now(), true
		p.metrics.taskStarted()

		panicked, err = p.run(p.cfg.ctx, c)

		p.metrics.taskStopped(time.Since(start))
		busy = false
	}

	if p.cfg.onTaskEnd != nil {
		p.safeHook("OnTaskEnd", c.id(), func() {
			p.cfg.onTaskEnd(c.id(), err)
		})
	}
	p.metrics.taskSettled(err, panicked)

	c.settle(err)
	finished = true
}

// taskExited settles a cell whose goroutine is being torn down by
// runtime.Goexit and starts a worker to take over the dead one's slot.
// The OnTaskEnd hook is not called for such a task.
func (p *Pool) taskExited(workerID int, c cell) {
	debugLog("worker %d: task %d called runtime.Goexit, replacing worker", workerID, c.id())

	p.metrics.taskSettled(ErrTaskExited, false)
	c.settle(ErrTaskExited)
	p.queue.Done()

	// The exiting goroutine is still counted by the group, so adding to it
	// here cannot race with Wait returning.
	p.group.Go(func() error {
		return p.worker(workerID)
	})
}

// waitTurn blocks on the rate limiter, if any.
func (p *Pool) waitTurn(ctx context.Context) error {
	if p.cfg.rateLimiter == nil {
		return nil
	}
	if err := p.cfg.rateLimiter.Wait(ctx); err != nil {
		// Rate limiter's error doesn't wrap context errors, so check context explicitly
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (p *Pool) run(ctx context.Context, c cell) (panicked bool, err error) {
	if p.cfg.beforeTaskStart != nil {
		p.safeHook("BeforeTaskStart", c.id(), func() {
			p.cfg.beforeTaskStart(c.id())
		})
	}

	err = p.runWithRecovery(ctx, c)
	_, panicked = err.(*PanicError)
	return panicked, err
}

// runWithRecovery converts a panic in the task into a *PanicError so the
// worker survives it. A panic ends the task; it is not retried.
func (p *Pool) runWithRecovery(ctx context.Context, c cell) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()

	return p.runWithRetry(ctx, c)
}

// runWithRetry calls the task up to maxAttempts times until it succeeds.
// The error of a task that never succeeds combines every attempt's error.
func (p *Pool) runWithRetry(ctx context.Context, c cell) error {
	var errs error
	var delay time.Duration

	for attempt := range p.cfg.maxAttempts {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		if attempt > 0 {
			delay = p.cfg.backoff.Delay(attempt-1, delay)
			if err := sleepCtx(ctx, delay); err != nil {
				return multierr.Append(errs, err)
			}
		}

		err := c.call(ctx)
		if err == nil {
			return nil
		}
		errs = multierr.Append(errs, err)

		if attempt < p.cfg.maxAttempts-1 {
			p.metrics.taskRetried()
			if p.cfg.onRetry != nil {
				p.safeHook("OnRetry", c.id(), func() {
					p.cfg.onRetry(c.id(), attempt+1, err)
				})
			}
		}
	}

	return errs
}

// safeHook runs a user hook, swallowing any panic so hooks cannot kill a worker.
func (p *Pool) safeHook(name string, taskID uint64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			debugLog("task %d: %s hook panicked: %v", taskID, name, r)
		}
	}()
	fn()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
