// Package backoff computes the delay a worker waits before retrying a failed task.
package backoff

import (
	"math/rand/v2"
	"time"
)

// Kind selects the delay algorithm.
type Kind int

const (
	// Exponential doubles the delay on each retry: initial * 2^retry.
	Exponential Kind = iota
	// Jittered is Exponential scaled by a random factor in [1-jitter, 1+jitter].
	Jittered
	// Decorrelated picks a random delay in [initial, 3*previous], the
	// "decorrelated jitter" scheme that keeps concurrent retries from lining up.
	Decorrelated
)

func (k Kind) String() string {
	switch k {
	case Jittered:
		return "jittered"
	case Decorrelated:
		return "decorrelated"
	default:
		return "exponential"
	}
}

// ParseKind maps a config string to a Kind. Unknown names report false.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "exponential":
		return Exponential, true
	case "jittered":
		return Jittered, true
	case "decorrelated":
		return Decorrelated, true
	}
	return Exponential, false
}

// shiftLimit keeps 1<<retry from overflowing a time.Duration.
const shiftLimit = 62

// Policy is immutable and safe for concurrent use by every worker.
type Policy struct {
	Kind    Kind
	Initial time.Duration
	Max     time.Duration
	Jitter  float64 // only used by Jittered, clamped to [0, 1]
}

// Delay returns the wait before retry number retry (0 = first retry). prev is
// the delay returned for the previous retry of the same task and only matters
// for Decorrelated.
func (p Policy) Delay(retry int, prev time.Duration) time.Duration {
	if retry < 0 || p.Initial <= 0 {
		return 0
	}

	switch p.Kind {
	case Jittered:
		j := min(max(p.Jitter, 0), 1)
		factor := 1 + (rand.Float64()*2-1)*j
		d := float64(p.exponential(retry)) * factor
		// float64(ceiling) rounds up to 2^63 when uncapped, which no Duration reaches
		if d >= float64(p.ceiling()) {
			return p.ceiling()
		}
		return p.cap(time.Duration(d))

	case Decorrelated:
		if retry == 0 || prev <= 0 {
			return p.Initial
		}
		upper := p.ceiling()
		if prev < upper/3 {
			upper = p.cap(prev * 3)
		}
		if upper <= p.Initial {
			return p.Initial
		}
		return p.Initial + rand.N(upper-p.Initial)

	default:
		return p.exponential(retry)
	}
}

func (p Policy) exponential(retry int) time.Duration {
	if retry >= shiftLimit {
		return p.ceiling()
	}
	d := p.Initial << uint(retry)
	if d <= 0 || d/p.Initial != 1<<uint(retry) {
		return p.ceiling()
	}
	return p.cap(d)
}

func (p Policy) cap(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}

func (p Policy) ceiling() time.Duration {
	if p.Max > 0 {
		return p.Max
	}
	return time.Duration(1<<63 - 1)
}
