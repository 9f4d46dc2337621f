// Package pool provides a fixed-size worker pool that runs heterogeneous
// functions concurrently and hands back a Future for each one.
//
// A Pool owns N worker goroutines and one FIFO task queue. Functions of any
// result type are submitted with the generic package-level functions
// (Submit, SubmitFunc, SubmitContext, Submit1, Submit2, Go); each returns
// immediately with a Future that can be waited on or polled.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
//
//	futures := make([]*pool.Future[int], 8)
//	for i := range futures {
//	    futures[i], _ = pool.SubmitFunc(p, func() int { return i * i })
//	}
//	for _, f := range futures {
//	    v, _ := f.Get()
//	    fmt.Println(v)
//	}
//
// # Bound Arguments
//
// Submit1 and Submit2 bind arguments at submission time. Arguments are
// copied, so the caller may reuse its variables right away:
//
//	f, _ := pool.Submit1(p, func(s string) (string, error) {
//	    return "processed: " + s, nil
//	}, "Hello")
//
// # Failures
//
// An error returned by a task, or a panic inside it, is captured by the
// worker and delivered only through that task's Future. Panics arrive as
// *PanicError; errors.As reaches the original panic value when it is an
// error (for example a runtime.Error from an integer divide by zero). A
// failing task never stops its worker or affects other tasks.
//
// # Shutdown
//
// Shutdown closes the queue to new work and blocks until every task that was
// already accepted has run. Later submissions fail with an error matching
// both ErrPoolShuttingDown and ErrQueueClosed. Shutdown is idempotent, and
// Close makes the pool usable with defer as an io.Closer.
//
// # Configuration Options
//
//   - WithQueueCapacity(n): Bound the task queue (default: unbounded)
//   - WithNonBlockingSubmit(): Fail with ErrQueueFull instead of blocking on a full queue
//   - WithRetryPolicy(maxAttempts, initialDelay): Retry tasks that return an error
//   - WithBackoff(kind, maxDelay, jitter): Pick exponential, jittered or decorrelated delays
//   - WithRateLimit(tasksPerSecond, burst): Throttle task starts
//   - WithCPUAffinity(): Pin each worker to an OS thread and CPU core
//   - WithMetrics(registerer, namespace): Export Prometheus metrics
//   - WithContext(ctx): Base context for SubmitContext tasks and waits
//   - WithBeforeTaskStart, WithOnTaskEnd, WithOnRetry: Observe task lifecycle
//
// The same settings can be loaded from YAML with LoadConfig and
// NewFromConfig.
//
// Build with -tags debug to log worker lifecycle events to stderr.
package pool
