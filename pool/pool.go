package pool

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/liangbm3/BasicTreadPool/internal/queue"
	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size set of worker goroutines draining one shared FIFO task
// queue. Tasks of any result type are submitted with the package-level
// Submit functions and observed through the returned Future.
//
// A Pool owns its queue and workers for its whole life: workers start in New
// and stop only after Shutdown has drained every accepted task.
type Pool struct {
	cfg     *config
	queue   *queue.Queue[cell]
	workers int
	metrics *metrics
	group   errgroup.Group

	seq atomic.Uint64

	shutdownOnce sync.Once
	shutdown     atomic.Bool
	done         chan struct{} // Closed when all workers have finished
}

// New creates a pool and starts exactly workerCount workers before returning.
//
// Parameters:
//   - workerCount: number of workers, at least 1
//   - opts: functional options (queue capacity, retries, rate limit, metrics, hooks)
//
// Returns:
//   - error: wraps ErrInvalidWorkerCount or ErrInvalidConfig on bad input
//
// Example:
//
//	p, err := pool.New(4, pool.WithQueueCapacity(128))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
func New(workerCount int, opts ...Option) (*Pool, error) {
	if workerCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, workerCount)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:     cfg,
		queue:   queue.New[cell](cfg.queueCapacity),
		workers: workerCount,
		done:    make(chan struct{}),
	}
	m, err := newMetrics(cfg.registerer, cfg.namespace, p.queue.Len)
	if err != nil {
		return nil, err
	}
	p.metrics = m

	for i := range workerCount {
		p.group.Go(func() error {
			return p.worker(i)
		})
	}

	go func() {
		_ = p.group.Wait()
		p.metrics.unregister()
		debugLog("all %d workers exited", workerCount)
		close(p.done)
	}()

	return p, nil
}

// Shutdown stops accepting tasks and blocks until every task already
// submitted has run and all workers have exited. It is safe to call more than
// once and from several goroutines; every call waits for the full drain.
// Calling it from inside a task of the same pool deadlocks.
func (p *Pool) Shutdown() {
	p.beginShutdown()
	<-p.done
}

// ShutdownTimeout is Shutdown with an upper bound on the wait.
// It returns ErrShutdownTimeout if the drain takes longer than timeout; the
// drain itself keeps going and a later Shutdown still waits for it.
// A timeout <= 0 waits forever.
//
// Example:
//
//	if err := p.ShutdownTimeout(5 * time.Second); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
func (p *Pool) ShutdownTimeout(timeout time.Duration) error {
	p.beginShutdown()
	return waitUntil(p.done, timeout)
}

// Close implements io.Closer; it is Shutdown and always returns nil.
func (p *Pool) Close() error {
	p.Shutdown()
	return nil
}

// beginShutdown closes the queue exactly once: new pushes fail while workers
// keep popping until the queue is empty.
func (p *Pool) beginShutdown() {
	p.shutdownOnce.Do(func() {
		p.shutdown.Store(true)
		debugLog("shutdown requested with %d tasks outstanding", p.queue.Outstanding())
		p.queue.Close()
	})
}

func (p *Pool) IsShutdown() bool {
	return p.shutdown.Load()
}

// Done returns a channel closed once every worker has exited after Shutdown.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

func (p *Pool) WorkerCount() int {
	return p.workers
}

// QueueLength returns the number of tasks waiting to be picked up by a worker.
func (p *Pool) QueueLength() int {
	return p.queue.Len()
}

// QueueCapacity returns the queue bound, 0 when unbounded.
func (p *Pool) QueueCapacity() int {
	return p.queue.Cap()
}

// Outstanding returns the number of queued plus currently running tasks.
func (p *Pool) Outstanding() int {
	return p.queue.Outstanding()
}
