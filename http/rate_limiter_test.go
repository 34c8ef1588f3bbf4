package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, retry := limiter.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = limiter.Allow("10.0.0.2")
	assert.True(t, ok, "clients have separate buckets")

	now = now.Add(20 * time.Second)
	_, retry = limiter.Allow("10.0.0.1")
	assert.Equal(t, 40*time.Second, retry)

	now = now.Add(40 * time.Second)
	ok, _ = limiter.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.Allow("10.0.0.1")

	now = now.Add(2 * bucketCleanupThreshold)
	limiter.cleanup()
	assert.Empty(t, limiter.clients)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}
