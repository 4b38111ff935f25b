package service

import (
	"math/rand"
	"testing"
	"time"

	"mpesa-payment-gateway/config"

	"github.com/stretchr/testify/assert"
)

func backoffConfig() config.QueueConfig {
	return config.QueueConfig{
		InitialDelay: time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

func TestExponentialBackoff_Growth(t *testing.T) {
	cfg := backoffConfig()
	cfg.JitterFactor = 0 // exact values
	b := NewExponentialBackoffWithSource(cfg, rand.NewSource(1))

	assert.Equal(t, time.Second, b.Delay(0))
	assert.Equal(t, 2*time.Second, b.Delay(1))
	assert.Equal(t, 4*time.Second, b.Delay(2))
	assert.Equal(t, 8*time.Second, b.Delay(3))
}

func TestExponentialBackoff_Cap(t *testing.T) {
	cfg := backoffConfig()
	cfg.JitterFactor = 0
	b := NewExponentialBackoffWithSource(cfg, rand.NewSource(1))

	// 2^20 seconds is far past the cap.
	assert.Equal(t, 5*time.Minute, b.Delay(20))
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	b := NewExponentialBackoffWithSource(backoffConfig(), rand.NewSource(7))

	for i := 0; i < 200; i++ {
		d := b.Delay(3) // base 8s, jitter within +/- 800ms
		assert.GreaterOrEqual(t, d, 7200*time.Millisecond)
		assert.LessOrEqual(t, d, 8800*time.Millisecond)
	}
}

func TestExponentialBackoff_JitterBoundsAtCap(t *testing.T) {
	b := NewExponentialBackoffWithSource(backoffConfig(), rand.NewSource(7))

	for i := 0; i < 200; i++ {
		d := b.Delay(30)
		assert.GreaterOrEqual(t, d, 270*time.Second)
		assert.LessOrEqual(t, d, 330*time.Second)
	}
}

func TestExponentialBackoff_NeverNegative(t *testing.T) {
	cfg := backoffConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.JitterFactor = 1.0
	b := NewExponentialBackoffWithSource(cfg, rand.NewSource(3))

	for i := 0; i < 500; i++ {
		assert.GreaterOrEqual(t, b.Delay(0), time.Duration(0))
	}
}
