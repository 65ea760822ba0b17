package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// AuthMW wraps the token service and auth service for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	authSvc  domain.AuthService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, authSvc domain.AuthService) *AuthMW {
	return &AuthMW{
		tokenSvc: tokenSvc,
		authSvc:  authSvc,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.authSvc)
}
