package benchmarks

import (
	"github.com/liangbm3/BasicTreadPool/pool"
)

// poolConfig defines a benchmark configuration for a pool variant
type poolConfig struct {
	name string
	opts []pool.Option
}

// getAllConfigs returns the pool variants every benchmark is run against
func getAllConfigs() []poolConfig {
	return []poolConfig{
		{
			name: "Unbounded",
		},
		{
			name: "Bounded",
			opts: []pool.Option{pool.WithQueueCapacity(1024)},
		},
		{
			name: "Pinned",
			opts: []pool.Option{pool.WithCPUAffinity()},
		},
	}
}

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations, task int) int {
	result := 0
	for i := 0; i < iterations; i++ {
		result += i * task
	}
	return result
}
