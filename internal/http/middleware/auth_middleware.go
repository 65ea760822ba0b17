package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// AuthMiddleware authenticates requests with a Bearer access token. A valid
// signature is not enough: the session behind the token must still be live,
// so logout and eviction take effect immediately.
func AuthMiddleware(tokenSvc domain.TokenService, authSvc domain.AuthService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			switch err {
			case domain.ErrTokenExpired:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			}
			c.Abort()
			return
		}

		user, err := authSvc.ValidateSession(c.Request.Context(), claims.SessionToken)
		if err != nil {
			switch err {
			case domain.ErrUserBanned:
				c.JSON(http.StatusForbidden, gin.H{"error": "account is banned"})
			case domain.ErrUserInactive:
				c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session invalid or expired"})
			}
			c.Abort()
			return
		}

		if user.ID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session user mismatch"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_tier", user.Tier)
		c.Set("user_role", user.Role)
		c.Set("session_token", claims.SessionToken)

		c.Next()
	})
}
