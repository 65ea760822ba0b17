package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), domain.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FullName:  req.FullName,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"user": user}})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), domain.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		RememberMe: req.RememberMe,
	})
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"session_token": result.SessionToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"user":          result.User,
		},
	})
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
		},
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
}

// Logout deactivates the caller's current session
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionToken, exists := c.Get("session_token")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionToken.(string)); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "logged out"}})
}

// sessionView is the caller-facing shape of one session.
type sessionView struct {
	Token        string `json:"token"`
	IPAddress    string `json:"ip_address"`
	UserAgent    string `json:"user_agent"`
	Current      bool   `json:"current"`
	RememberMe   bool   `json:"remember_me"`
	CreatedAt    string `json:"created_at"`
	LastActivity string `json:"last_activity"`
	ExpiresAt    string `json:"expires_at"`
}

// Sessions lists the caller's active sessions, most recently active first
func (h *AuthHandlers) Sessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	current, _ := c.Get("session_token")

	sessions, err := h.authSvc.ListSessions(c.Request.Context(), userID)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView{
			Token:        s.Token,
			IPAddress:    s.IPAddress,
			UserAgent:    s.UserAgent,
			Current:      current == s.Token,
			RememberMe:   s.RememberMe,
			CreatedAt:    s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			LastActivity: s.LastActivity.UTC().Format("2006-01-02T15:04:05Z"),
			ExpiresAt:    s.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"sessions": views}})
}

// RevokeSession deactivates one of the caller's sessions by token
func (h *AuthHandlers) RevokeSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	token := c.Param("token")
	if err := h.authSvc.RevokeSession(c.Request.Context(), userID, token); err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "session revoked"}})
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// writeAuthError maps domain errors to HTTP responses. Unknown errors are
// redacted to a generic 500; internals never leak to the caller.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isDuplicate(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case domain.IsAccountLocked(err):
		c.JSON(http.StatusLocked, gin.H{"error": err.Error()})
	default:
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		case domain.ErrTokenInvalid, domain.ErrTokenExpired, domain.ErrTokenMalformed:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		case domain.ErrSessionNotFound, domain.ErrSessionInactive, domain.ErrSessionExpired:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session invalid or expired"})
		case domain.ErrUserBanned:
			c.JSON(http.StatusForbidden, gin.H{"error": "account is banned"})
		case domain.ErrUserInactive:
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
		case domain.ErrSessionForbidden:
			c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another user"})
		case domain.ErrRateLimited:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, retry later"})
		case domain.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}
}

func isDuplicate(err error) bool {
	_, ok := domain.IsDuplicateIdentity(err)
	return ok
}
