package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// RedisLimiterImpl implements domain.RateLimiter with a sliding window over a
// Redis sorted set per key. Each attempt is one member scored by its time;
// members older than the window are trimmed on every check.
type RedisLimiterImpl struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter creates a new sliding-window rate limiter.
func NewRedisLimiter(client *redis.Client) domain.RateLimiter {
	return &RedisLimiterImpl{
		client: client,
		prefix: "ratelimit:",
	}
}

// Check implements domain.RateLimiter. The attempt is recorded even when the
// limit is already reached, so an attacker hammering a key keeps the window
// saturated.
func (l *RedisLimiterImpl) Check(ctx context.Context, key string, max int, window time.Duration) error {
	redisKey := l.prefix + key
	now := time.Now()
	windowStart := now.Add(-window)

	if err := l.client.ZRemRangeByScore(ctx, redisKey,
		"0", strconv.FormatInt(windowStart.UnixNano(), 10)).Err(); err != nil {
		return fmt.Errorf("failed to trim rate-limit window: %w", err)
	}

	count, err := l.client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("failed to count rate-limit attempts: %w", err)
	}

	if err := l.client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	}).Err(); err != nil {
		return fmt.Errorf("failed to record rate-limit attempt: %w", err)
	}
	if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
		return fmt.Errorf("failed to expire rate-limit key: %w", err)
	}

	if count >= int64(max) {
		return domain.ErrRateLimited
	}
	return nil
}
