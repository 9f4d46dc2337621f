package pool

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsSubsystem = "threadpool"

// metrics holds the Prometheus collectors of one pool. A nil *metrics is
// valid and records nothing.
type metrics struct {
	reg prometheus.Registerer

	submitted prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
	panics    prometheus.Counter
	retries   prometheus.Counter
	busy      prometheus.Gauge
	queued    prometheus.GaugeFunc
	duration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer, namespace string, queueLen func() int) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &metrics{
		reg: reg,
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by the pool",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks that finished without error",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks that finished with an error or panic",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "task_panics_total",
			Help:      "Total number of task panics recovered by workers",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "task_retries_total",
			Help:      "Total number of task retry attempts",
		}),
		busy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "busy_workers",
			Help:      "Number of workers currently executing a task",
		}),
		queued: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "queue_length",
			Help:      "Number of tasks waiting in the queue",
		}, func() float64 {
			return float64(queueLen())
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "task_duration_seconds",
			Help:      "Task execution time in seconds, including retries but not rate limit waits",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	var registered []prometheus.Collector
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			for _, r := range registered {
				reg.Unregister(r)
			}
			return nil, fmt.Errorf("%w: registering metrics: %w", ErrInvalidConfig, err)
		}
		registered = append(registered, c)
	}
	return m, nil
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.submitted, m.completed, m.failed, m.panics,
		m.retries, m.busy, m.queued, m.duration,
	}
}

func (m *metrics) taskSubmitted() {
	if m != nil {
		m.submitted.Inc()
	}
}

func (m *metrics) taskStarted() {
	if m != nil {
		m.busy.Inc()
	}
}

func (m *metrics) taskRetried() {
	if m != nil {
		m.retries.Inc()
	}
}

func (m *metrics) taskStopped(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.busy.Dec()
	m.duration.Observe(elapsed.Seconds())
}

func (m *metrics) taskSettled(err error, panicked bool) {
	if m == nil {
		return
	}
	if panicked {
		m.panics.Inc()
	}
	if err != nil {
		m.failed.Inc()
		return
	}
	m.completed.Inc()
}

// unregister removes the collectors so the registry can host a new pool.
func (m *metrics) unregister() {
	if m == nil {
		return
	}
	for _, c := range m.collectors() {
		m.reg.Unregister(c)
	}
}
