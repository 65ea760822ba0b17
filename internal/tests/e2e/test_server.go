package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	httpx "github.com/stevensoneremeh/eriggalive-auth/internal/http"
	"github.com/stevensoneremeh/eriggalive-auth/internal/http/handlers"
	"github.com/stevensoneremeh/eriggalive-auth/internal/http/middleware"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/auth"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/database"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/ratelimit"
	"github.com/stevensoneremeh/eriggalive-auth/internal/infrastructure/repositories"
	"github.com/stevensoneremeh/eriggalive-auth/internal/services"
)

// TestServer runs the full stack in-process: gin router, sqlite in place of
// Postgres and miniredis in place of Redis. Requests go straight through
// ServeHTTP; no network listener is involved.
type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *miniredis.Miniredis
}

func defaultTestConfig() services.AuthConfig {
	return services.AuthConfig{
		AccessTTL:             15 * time.Minute,
		MaxConcurrentSessions: 3,
		SessionDuration:       24 * time.Hour,
		RememberMeDuration:    30 * 24 * time.Hour,
		MaxLoginAttempts:      5,
		LockoutWindow:         15 * time.Minute,
		LockoutDuration:       30 * time.Minute,
		LoginIPMax:            50,
		LoginIPWindow:         15 * time.Minute,
		LoginEmailMax:         50,
		LoginEmailWindow:      15 * time.Minute,
		RegisterIPMax:         50,
		RegisterIPWindow:      time.Hour,
		WelcomeBonus:          500,
	}
}

// NewTestServer wires the complete service. mutate may adjust the policy
// config before wiring; pass nil for defaults. The default rate limits are
// generous so only tests that want throttling hit it.
func NewTestServer(t *testing.T, mutate func(cfg *services.AuthConfig)) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := defaultTestConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb)
	auditRepo := repositories.NewAuditRepository(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audit := services.NewAuditLogger(auditRepo, logger)
	limiter := ratelimit.NewRedisLimiter(rdb)
	passwordSvc := auth.NewPasswordService(bcrypt.MinCost)
	tokenSvc := auth.NewJWTService("e2e-test-secret", "eriggalive", "eriggalive-app", cfg.AccessTTL, 7*24*time.Hour)

	authSvc := services.NewAuthService(userRepo, sessionRepo, auditRepo, audit, limiter, passwordSvc, tokenSvc, cfg)

	authH := handlers.NewAuthHandlers(authSvc)
	jwtMW := middleware.NewAuthMW(tokenSvc, authSvc)

	return &TestServer{
		Router: httpx.BuildRouter(authH, jwtMW),
		DB:     db,
		Redis:  mr,
	}
}

// DoJSON issues a JSON request against the in-process router.
func (s *TestServer) DoJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// loginResult is the decoded envelope of a successful login or refresh.
type loginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionToken string `json:"session_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID          uint   `json:"id"`
		Email       string `json:"email"`
		Username    string `json:"username"`
		Tier        string `json:"tier"`
		CoinBalance int64  `json:"coin_balance"`
		Level       int    `json:"level"`
	} `json:"user"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

// MustRegister registers a user and fails the test on any error.
func (s *TestServer) MustRegister(t *testing.T, email, username, password string) {
	t.Helper()
	w := s.DoJSON(t, http.MethodPost, "/auth/register", map[string]string{
		"email":     email,
		"username":  username,
		"full_name": "Test Fan",
		"password":  password,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())
}

// MustLogin logs in and returns the token envelope.
func (s *TestServer) MustLogin(t *testing.T, email, password string) loginResult {
	t.Helper()
	w := s.DoJSON(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	return decodeData[loginResult](t, w)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
