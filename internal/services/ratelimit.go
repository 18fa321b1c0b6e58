package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/temcen/teapick/internal/config"
	"github.com/temcen/teapick/pkg/models"
)

const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// NewRateLimiter builds the limiter selected by cfg. A nil redis client
// with the redis backend falls back to the in-memory limiter.
func NewRateLimiter(cfg *config.RateLimitConfig, redisClient *redis.Client, logger *logrus.Logger) RateLimiter {
	if cfg.Backend == RateLimitBackendRedis {
		if redisClient != nil {
			return NewRedisRateLimiter(cfg, redisClient, logger)
		}
		logger.Warn("Redis rate limiting requested without a Redis client, using memory backend")
	}
	return NewMemoryRateLimiter(cfg)
}

// RedisRateLimiter implements a sliding window limit shared by every
// server instance that points at the same Redis.
type RedisRateLimiter struct {
	config      *config.RateLimitConfig
	logger      *logrus.Logger
	redisClient *redis.Client
	now         func() time.Time
}

func NewRedisRateLimiter(cfg *config.RateLimitConfig, redisClient *redis.Client, logger *logrus.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		config:      cfg,
		logger:      logger,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (l *RedisRateLimiter) Backend() string {
	return RateLimitBackendRedis
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, *models.RateLimitInfo, error) {
	limit := l.config.Requests
	window := l.config.Window
	redisKey := fmt.Sprintf("teapick:rate_limit:%s", key)

	now := l.now()
	windowStart := now.Add(-window)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	pipe := l.redisClient.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: a Redis outage must not take recommendations down.
		l.logger.WithError(err).Error("Failed to execute rate limit pipeline")
		return true, &models.RateLimitInfo{
			Limit:     limit,
			Remaining: limit - 1,
			ResetTime: now.Add(window).Unix(),
		}, nil
	}

	count := int(countCmd.Val())
	remaining := limit - count - 1
	if remaining < 0 {
		remaining = 0
	}

	return count < limit, &models.RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(window).Unix(),
	}, nil
}

// MemoryRateLimiter keeps one token bucket per client in process memory.
// Buckets idle long enough to have refilled are dropped, since a fresh
// bucket behaves the same.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryRateLimiter(cfg *config.RateLimitConfig) *MemoryRateLimiter {
	limit := rate.Inf
	if cfg.Requests > 0 && cfg.Window > 0 {
		limit = rate.Every(cfg.Window / time.Duration(cfg.Requests))
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	idleTTL := cfg.Window
	if limit != rate.Inf {
		idleTTL += time.Duration(float64(burst) / float64(limit) * float64(time.Second))
	}
	if idleTTL <= 0 {
		idleTTL = time.Minute
	}

	return &MemoryRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    limit,
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (l *MemoryRateLimiter) Backend() string {
	return RateLimitBackendMemory
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string) (bool, *models.RateLimitInfo, error) {
	now := l.now()
	limiter := l.limiterFor(key, now)

	allowed := limiter.AllowN(now, 1)
	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	reset := now
	if l.limit != rate.Inf && l.limit > 0 {
		missing := float64(l.burst) - limiter.TokensAt(now)
		reset = now.Add(time.Duration(missing / float64(l.limit) * float64(time.Second)))
	}

	return allowed, &models.RateLimitInfo{
		Limit:     l.burst,
		Remaining: remaining,
		ResetTime: reset.Unix(),
	}, nil
}

// Len returns the number of tracked clients.
func (l *MemoryRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *MemoryRateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Sweep at most once per TTL so the cost stays amortized per request.
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for k, entry := range l.limiters {
			if now.Sub(entry.lastSeen) >= l.idleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}
