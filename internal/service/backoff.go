package service

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"mpesa-payment-gateway/config"
)

// ExponentialBackoff implements ports.BackoffPolicy with full-window jitter:
// delay = min(initial * multiplier^n, max), then +/- jitterFactor of itself.
// Jitter keeps a burst of jobs failed at the same instant from thundering
// back in lockstep.
type ExponentialBackoff struct {
	initial      time.Duration
	max          time.Duration
	multiplier   float64
	jitterFactor float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewExponentialBackoff builds a policy from queue configuration with a
// time-seeded RNG.
func NewExponentialBackoff(cfg config.QueueConfig) *ExponentialBackoff {
	return NewExponentialBackoffWithSource(cfg, rand.NewSource(time.Now().UnixNano()))
}

// NewExponentialBackoffWithSource accepts an explicit source so tests can
// pin the jitter.
func NewExponentialBackoffWithSource(cfg config.QueueConfig, src rand.Source) *ExponentialBackoff {
	return &ExponentialBackoff{
		initial:      cfg.InitialDelay,
		max:          cfg.MaxDelay,
		multiplier:   cfg.Multiplier,
		jitterFactor: cfg.JitterFactor,
		rng:          rand.New(src),
	}
}

// Delay returns the jittered wait after retryCount completed attempts.
// The result is never negative and the pre-jitter value never exceeds max.
func (b *ExponentialBackoff) Delay(retryCount int) time.Duration {
	base := float64(b.initial) * math.Pow(b.multiplier, float64(retryCount))
	if base > float64(b.max) {
		base = float64(b.max)
	}

	b.mu.Lock()
	jitter := base * b.jitterFactor * (2*b.rng.Float64() - 1)
	b.mu.Unlock()

	d := time.Duration(base + jitter)
	if d < 0 {
		d = 0
	}
	return d
}
