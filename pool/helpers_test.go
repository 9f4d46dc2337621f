package pool

import "testing"

// poolConfig defines a test configuration for a pool variant
type poolConfig struct {
	name string
	opts []Option
}

// getAllConfigs returns the queue/worker variants every behavioural test runs against
func getAllConfigs() []poolConfig {
	return []poolConfig{
		{
			name: "Unbounded",
		},
		{
			name: "Bounded",
			opts: []Option{WithQueueCapacity(16)},
		},
		{
			name: "Pinned",
			opts: []Option{WithCPUAffinity()},
		},
	}
}

// runPoolTest runs testFunc once per variant with a freshly started pool that
// is shut down when the subtest ends.
func runPoolTest(t *testing.T, testFunc func(t *testing.T, p *Pool), workerCount int, additionalOpts ...Option) {
	t.Helper()

	for _, cfg := range getAllConfigs() {
		t.Run(cfg.name, func(t *testing.T) {
			opts := append(append([]Option{}, cfg.opts...), additionalOpts...)
			p, err := New(workerCount, opts...)
			if err != nil {
				t.Fatalf("failed to create pool: %v", err)
			}
			defer p.Shutdown()

			testFunc(t, p)
		})
	}
}
