package mocks

import (
	"context"
	"time"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing.
type MockSessionRepository struct {
	CreateFunc           func(ctx context.Context, session *domain.Session) error
	FindByTokenFunc      func(ctx context.Context, token string) (*domain.Session, error)
	TouchFunc            func(ctx context.Context, token string, at time.Time) error
	DeactivateFunc       func(ctx context.Context, token string) error
	ListActiveByUserFunc func(ctx context.Context, userID uint) ([]*domain.Session, error)
	DeleteExpiredFunc    func(ctx context.Context) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, token, at)
	}
	// Default behavior: success
	return nil
}

func (m *MockSessionRepository) Deactivate(ctx context.Context, token string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

func (m *MockSessionRepository) ListActiveByUser(ctx context.Context, userID uint) ([]*domain.Session, error) {
	if m.ListActiveByUserFunc != nil {
		return m.ListActiveByUserFunc(ctx, userID)
	}
	// Default behavior: no active sessions
	return nil, nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) error {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return nil
}
