package mocks

import (
	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GenerateAccessTokenFunc  func(user *domain.User, sessionToken string) (string, error)
	GenerateRefreshTokenFunc func(userID uint, sessionToken string) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) GenerateAccessToken(user *domain.User, sessionToken string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(user, sessionToken)
	}
	// Default behavior: recognizable fake token
	return "access_token_" + sessionToken, nil
}

func (m *MockTokenService) GenerateRefreshToken(userID uint, sessionToken string) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID, sessionToken)
	}
	return "refresh_token_" + sessionToken, nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	// Default behavior: invalid
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}
