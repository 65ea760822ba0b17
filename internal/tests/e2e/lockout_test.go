package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevensoneremeh/eriggalive-auth/internal/services"
)

func TestAccountLockout(t *testing.T) {
	server := NewTestServer(t, nil)
	server.MustRegister(t, "alice@example.com", "alice", "Secr3tPass!")

	// Five straight failures: each reads as invalid credentials, including
	// the fifth that arms the lockout.
	for i := 1; i <= 5; i++ {
		w := server.DoJSON(t, http.MethodPost, "/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d: %s", i, w.Body.String())
		assert.Contains(t, w.Body.String(), "invalid credentials", "attempt %d", i)
	}

	// Sixth attempt with the CORRECT password: locked, not invalid.
	w := server.DoJSON(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "Secr3tPass!",
	}, nil)
	require.Equal(t, http.StatusLocked, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "locked")
}

func TestLockoutDoesNotAffectOtherAccounts(t *testing.T) {
	server := NewTestServer(t, nil)
	server.MustRegister(t, "alice@example.com", "alice", "Secr3tPass!")
	server.MustRegister(t, "bob@example.com", "bob", "B0bSecret!")

	for i := 0; i < 5; i++ {
		server.DoJSON(t, http.MethodPost, "/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
	}

	// Bob's account is untouched by Alice's lockout.
	result := server.MustLogin(t, "bob@example.com", "B0bSecret!")
	assert.NotEmpty(t, result.AccessToken)
}

func TestLoginRateLimitByIP(t *testing.T) {
	server := NewTestServer(t, func(cfg *services.AuthConfig) {
		cfg.LoginIPMax = 2
	})
	server.MustRegister(t, "alice@example.com", "alice", "Secr3tPass!")

	// Two attempts pass the IP gate, the third is throttled before any
	// credential work.
	for i := 0; i < 2; i++ {
		w := server.DoJSON(t, http.MethodPost, "/auth/login", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := server.DoJSON(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "Secr3tPass!",
	}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, w.Body.String())
}

func TestRegisterRateLimitByIP(t *testing.T) {
	server := NewTestServer(t, func(cfg *services.AuthConfig) {
		cfg.RegisterIPMax = 2
	})

	server.MustRegister(t, "a1@example.com", "fanone", "Secr3tPass!")
	server.MustRegister(t, "a2@example.com", "fantwo", "Secr3tPass!")

	w := server.DoJSON(t, http.MethodPost, "/auth/register", map[string]string{
		"email":     "a3@example.com",
		"username":  "fanthree",
		"full_name": "Fan Three",
		"password":  "Secr3tPass!",
	}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, w.Body.String())
}
