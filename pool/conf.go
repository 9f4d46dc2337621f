package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/liangbm3/BasicTreadPool/internal/backoff"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// BackoffType selects how the delay between retries grows.
type BackoffType = backoff.Kind

const (
	// BackoffExponential doubles the delay on each retry (default).
	BackoffExponential = backoff.Exponential
	// BackoffJittered adds random jitter to the exponential delay.
	BackoffJittered = backoff.Jittered
	// BackoffDecorrelated uses decorrelated jitter.
	BackoffDecorrelated = backoff.Decorrelated
)

// Option configures a Pool.
type Option func(*config)

type config struct {
	ctx context.Context

	queueCapacity     int
	nonBlockingSubmit bool

	rateLimiter *rate.Limiter
	rateErr     error

	maxAttempts int
	backoff     backoff.Policy

	cpuAffinity bool

	registerer prometheus.Registerer
	namespace  string

	beforeTaskStart BeforeTaskStartFunc
	onTaskEnd       TaskEndFunc
	onRetry         RetryFunc
}

func defaultConfig() *config {
	return &config{
		ctx:         context.Background(),
		maxAttempts: 1,
		backoff: backoff.Policy{
			Kind:   backoff.Exponential,
			Max:    5 * time.Second,
			Jitter: 0.1,
		},
	}
}

func (c *config) validate() error {
	if c.queueCapacity < 0 {
		return fmt.Errorf("%w: queue capacity %d is negative", ErrInvalidConfig, c.queueCapacity)
	}
	if c.nonBlockingSubmit && c.queueCapacity == 0 {
		return fmt.Errorf("%w: non-blocking submit needs a bounded queue", ErrInvalidConfig)
	}
	if c.rateErr != nil {
		return c.rateErr
	}
	if c.maxAttempts < 1 {
		return fmt.Errorf("%w: max attempts %d is below 1", ErrInvalidConfig, c.maxAttempts)
	}
	if c.ctx == nil {
		return fmt.Errorf("%w: nil context", ErrInvalidConfig)
	}
	return nil
}

// WithContext sets the base context handed to SubmitContext functions and
// used for rate limiting and retry waits. Once it is cancelled, tasks still in
// the queue are dequeued and fail with the context error instead of running.
// Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		cfg.ctx = ctx
	}
}

// WithQueueCapacity bounds the task queue to size pending tasks. Submitting
// to a full queue blocks until a worker makes room, unless
// WithNonBlockingSubmit is also given. The default, 0, is unbounded.
func WithQueueCapacity(size int) Option {
	return func(cfg *config) {
		cfg.queueCapacity = size
	}
}

// WithNonBlockingSubmit makes submission to a full bounded queue fail with
// ErrQueueFull instead of waiting.
func WithNonBlockingSubmit() Option {
	return func(cfg *config) {
		cfg.nonBlockingSubmit = true
	}
}

// WithRateLimit caps how fast workers start tasks.
// tasksPerSecond is the sustained rate and burst the number of tasks that
// may start back to back.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond <= 0 || burst <= 0 {
			cfg.rateErr = fmt.Errorf("%w: rate limit %.2f/s burst %d", ErrInvalidConfig, tasksPerSecond, burst)
			return
		}
		cfg.rateErr = nil
		cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
	}
}

// WithRetryPolicy retries a task whose function returns an error, up to
// maxAttempts runs in total, waiting initialDelay before the first retry and
// growing the delay per WithBackoff. Panics are never retried.
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) Option {
	return func(cfg *config) {
		cfg.maxAttempts = maxAttempts
		if initialDelay >= 0 {
			cfg.backoff.Initial = initialDelay
		}
	}
}

// WithBackoff selects the retry delay algorithm. maxDelay caps each delay
// (0 = no cap) and jitterFactor (0..1) is used by BackoffJittered.
func WithBackoff(kind BackoffType, maxDelay time.Duration, jitterFactor float64) Option {
	return func(cfg *config) {
		cfg.backoff.Kind = kind
		cfg.backoff.Max = maxDelay
		cfg.backoff.Jitter = jitterFactor
	}
}

// WithCPUAffinity locks every worker to its own OS thread and, on Linux, pins
// that thread to CPU (worker index mod NumCPU).
func WithCPUAffinity() Option {
	return func(cfg *config) {
		cfg.cpuAffinity = true
	}
}

// WithMetrics registers the pool's Prometheus collectors on reg under the
// given namespace. They are unregistered again when the pool shuts down.
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(cfg *config) {
		cfg.registerer = reg
		cfg.namespace = namespace
	}
}

func WithBeforeTaskStart(fn BeforeTaskStartFunc) Option {
	return func(cfg *config) {
		cfg.beforeTaskStart = fn
	}
}

func WithOnTaskEnd(fn TaskEndFunc) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}

func WithOnRetry(fn RetryFunc) Option {
	return func(cfg *config) {
		cfg.onRetry = fn
	}
}
