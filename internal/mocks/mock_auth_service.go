package mocks

import (
	"context"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// MockAuthService implements domain.AuthService for handler testing.
type MockAuthService struct {
	RegisterFunc        func(ctx context.Context, in domain.RegisterInput) (*domain.PublicUser, error)
	LoginFunc           func(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error)
	ValidateSessionFunc func(ctx context.Context, sessionToken string) (*domain.PublicUser, error)
	RefreshTokenFunc    func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc          func(ctx context.Context, sessionToken string) error
	GetUserProfileFunc  func(ctx context.Context, userID uint) (*domain.PublicUser, error)
	ListSessionsFunc    func(ctx context.Context, userID uint) ([]*domain.Session, error)
	RevokeSessionFunc   func(ctx context.Context, userID uint, sessionToken string) error
}

// NewMockAuthService creates a new MockAuthService.
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.PublicUser, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) ValidateSession(ctx context.Context, sessionToken string) (*domain.PublicUser, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, sessionToken)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockAuthService) Logout(ctx context.Context, sessionToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionToken)
	}
	return nil
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.PublicUser, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) ListSessions(ctx context.Context, userID uint) ([]*domain.Session, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAuthService) RevokeSession(ctx context.Context, userID uint, sessionToken string) error {
	if m.RevokeSessionFunc != nil {
		return m.RevokeSessionFunc(ctx, userID, sessionToken)
	}
	return nil
}
