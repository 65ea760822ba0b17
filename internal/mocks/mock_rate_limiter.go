package mocks

import (
	"context"
	"time"
)

// MockRateLimiter implements domain.RateLimiter for testing.
type MockRateLimiter struct {
	CheckFunc func(ctx context.Context, key string, max int, window time.Duration) error
}

// NewMockRateLimiter creates a new MockRateLimiter with default behaviors.
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

func (m *MockRateLimiter) Check(ctx context.Context, key string, max int, window time.Duration) error {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx, key, max, window)
	}
	// Default behavior: not limited
	return nil
}
