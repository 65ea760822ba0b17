package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestRedisLimiter_AllowsUpToMax(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRedisLimiter(client)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := limiter.Check(ctx, "login_email:alice@example.com", 5, 15*time.Minute); err != nil {
			t.Fatalf("attempt %d should pass, got %v", i, err)
		}
	}

	if err := limiter.Check(ctx, "login_email:alice@example.com", 5, 15*time.Minute); err != domain.ErrRateLimited {
		t.Errorf("attempt 6 should be limited, got %v", err)
	}
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRedisLimiter(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Check(ctx, "register_ip:203.0.113.7", 3, time.Hour); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if err := limiter.Check(ctx, "register_ip:203.0.113.7", 3, time.Hour); err != domain.ErrRateLimited {
		t.Errorf("expected saturated key to fail, got %v", err)
	}

	// A different IP is untouched.
	if err := limiter.Check(ctx, "register_ip:198.51.100.9", 3, time.Hour); err != nil {
		t.Errorf("independent key should pass, got %v", err)
	}
}

func TestRedisLimiter_WindowRollsOver(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRedisLimiter(client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Check(ctx, "login_ip:203.0.113.7", 2, time.Minute); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if err := limiter.Check(ctx, "login_ip:203.0.113.7", 2, time.Minute); err != domain.ErrRateLimited {
		t.Fatalf("expected limit to trip, got %v", err)
	}

	// The whole key expires once the window elapses without attempts.
	mr.FastForward(2 * time.Minute)

	if err := limiter.Check(ctx, "login_ip:203.0.113.7", 2, time.Minute); err != nil {
		t.Errorf("expected counter to reset after window, got %v", err)
	}
}

func TestRedisLimiter_SaturatedKeyStaysLimited(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewRedisLimiter(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limiter.Check(ctx, "login_email:bob@example.com", 2, time.Minute)
	}
	// Limited calls still record attempts, so hammering never unlocks early.
	for i := 0; i < 3; i++ {
		if err := limiter.Check(ctx, "login_email:bob@example.com", 2, time.Minute); err != domain.ErrRateLimited {
			t.Errorf("expected continued limiting, got %v", err)
		}
	}
}
