package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
	"github.com/stevensoneremeh/eriggalive-auth/internal/mocks"
)

func protectedRouter(tokenSvc domain.TokenService, authSvc domain.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokenSvc, authSvc), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		sessionToken, _ := c.Get("session_token")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "session_token": sessionToken})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	validClaims := &domain.TokenClaims{UserID: 1, SessionToken: "tok_s", TokenType: "access"}
	validUser := &domain.PublicUser{ID: 1, Email: "a@b.com"}

	tests := []struct {
		name           string
		header         string
		setup          func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService)
		expectedStatus int
	}{
		{
			name:   "valid token with live session",
			header: "Bearer good",
			setup: func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims, nil
				}
				authSvc.ValidateSessionFunc = func(ctx context.Context, sessionToken string) (*domain.PublicUser, error) {
					if sessionToken != "tok_s" {
						t.Errorf("expected session tok_s, got %s", sessionToken)
					}
					return validUser, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			setup:          func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			header:         "Token abc",
			setup:          func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			setup: func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenExpired
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "valid token behind a dead session",
			header: "Bearer good",
			setup: func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims, nil
				}
				authSvc.ValidateSessionFunc = func(ctx context.Context, sessionToken string) (*domain.PublicUser, error) {
					return nil, domain.ErrSessionInactive
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "banned user behind a live session",
			header: "Bearer good",
			setup: func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims, nil
				}
				authSvc.ValidateSessionFunc = func(ctx context.Context, sessionToken string) (*domain.PublicUser, error) {
					return nil, domain.ErrUserBanned
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "session user mismatch",
			header: "Bearer good",
			setup: func(tokenSvc *mocks.MockTokenService, authSvc *mocks.MockAuthService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return validClaims, nil
				}
				authSvc.ValidateSessionFunc = func(ctx context.Context, sessionToken string) (*domain.PublicUser, error) {
					return &domain.PublicUser{ID: 99}, nil
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mocks.NewMockTokenService()
			authSvc := mocks.NewMockAuthService()
			tt.setup(tokenSvc, authSvc)
			r := protectedRouter(tokenSvc, authSvc)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
