package pool

import (
	"fmt"
	"os"
	"time"

	"github.com/liangbm3/BasicTreadPool/internal/backoff"
	"gopkg.in/yaml.v3"
)

// Config is the file form of a pool's settings.
//
//	workers: 4
//	queue_capacity: 256
//	non_blocking_submit: false
//	cpu_affinity: false
//	rate_limit:
//	  tasks_per_second: 50
//	  burst: 10
//	retry:
//	  max_attempts: 3
//	  initial_delay: 100ms
//	  max_delay: 5s
//	  backoff: jittered
//	  jitter: 0.2
type Config struct {
	Workers           int              `yaml:"workers"`
	QueueCapacity     int              `yaml:"queue_capacity"`
	NonBlockingSubmit bool             `yaml:"non_blocking_submit"`
	CPUAffinity       bool             `yaml:"cpu_affinity"`
	RateLimit         *RateLimitConfig `yaml:"rate_limit,omitempty"`
	Retry             *RetryConfig     `yaml:"retry,omitempty"`
}

type RateLimitConfig struct {
	TasksPerSecond float64 `yaml:"tasks_per_second"`
	Burst          int     `yaml:"burst"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Backoff      string        `yaml:"backoff"`
	Jitter       float64       `yaml:"jitter"`
}

// LoadConfig reads a YAML pool configuration from path.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML pool configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Options converts the file settings into pool options.
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if c.QueueCapacity != 0 {
		opts = append(opts, WithQueueCapacity(c.QueueCapacity))
	}
	if c.NonBlockingSubmit {
		opts = append(opts, WithNonBlockingSubmit())
	}
	if c.CPUAffinity {
		opts = append(opts, WithCPUAffinity())
	}
	if rl := c.RateLimit; rl != nil {
		opts = append(opts, WithRateLimit(rl.TasksPerSecond, rl.Burst))
	}
	if r := c.Retry; r != nil {
		kind, ok := backoff.ParseKind(r.Backoff)
		if !ok {
			return nil, fmt.Errorf("%w: unknown backoff %q", ErrInvalidConfig, r.Backoff)
		}
		opts = append(opts,
			WithRetryPolicy(r.MaxAttempts, r.InitialDelay),
			WithBackoff(kind, r.MaxDelay, r.Jitter),
		)
	}

	return opts, nil
}

// NewFromConfig builds a pool from cfg. extra options are applied after the
// ones derived from cfg and so take precedence.
func NewFromConfig(cfg *Config, extra ...Option) (*Pool, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(cfg.Workers, append(opts, extra...)...)
}
