package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/teapick/internal/config"
)

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter(&config.RateLimitConfig{
		Requests: 60,
		Window:   time.Minute,
		Burst:    3,
	})
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, info, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.ResetTime, now.Unix())

	// other clients have their own bucket
	allowed, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	// one token is back after a second at 60 requests per minute
	now = now.Add(time.Second)
	allowed, _, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimiter_EvictsIdleClients(t *testing.T) {
	// 1 token per second with a burst of 3: a bucket is full again after 3s,
	// so clients idle for window+3s are forgotten.
	limiter := NewMemoryRateLimiter(&config.RateLimitConfig{
		Requests: 60,
		Window:   time.Minute,
		Burst:    3,
	})
	require.Equal(t, 63*time.Second, limiter.idleTTL)

	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	now := start
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		_, _, err := limiter.Allow(ctx, fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		require.NoError(t, err)
	}
	assert.Equal(t, 1000, limiter.Len())

	// Exhaust one client; it must stay limited while it is still tracked.
	now = start.Add(30 * time.Second)
	for i := 0; i < 3; i++ {
		_, _, _ = limiter.Allow(ctx, "192.0.2.1")
	}
	allowed, _, err := limiter.Allow(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 1001, limiter.Len())

	now = start.Add(64 * time.Second)
	_, _, err = limiter.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)

	// Only the client seen at +30s and the new one survive the sweep.
	assert.Equal(t, 2, limiter.Len())
}

func TestMemoryRateLimiter_BoundedOverTime(t *testing.T) {
	limiter := NewMemoryRateLimiter(&config.RateLimitConfig{
		Requests: 120,
		Window:   time.Minute,
		Burst:    20,
	})
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 50000; i++ {
		now = now.Add(time.Hour)
		_, _, err := limiter.Allow(ctx, fmt.Sprintf("client-%d", i))
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, limiter.Len(), 1)
}

func TestNewRateLimiter_Backends(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	memory := NewRateLimiter(&config.RateLimitConfig{Backend: "memory", Requests: 10, Window: time.Second, Burst: 1}, nil, logger)
	assert.Equal(t, RateLimitBackendMemory, memory.Backend())

	// redis without a client falls back to memory
	fallback := NewRateLimiter(&config.RateLimitConfig{Backend: "redis", Requests: 10, Window: time.Second, Burst: 1}, nil, logger)
	assert.Equal(t, RateLimitBackendMemory, fallback.Backend())
}
