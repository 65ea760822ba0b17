package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentSessionCap(t *testing.T) {
	server := NewTestServer(t, nil) // cap is 3
	server.MustRegister(t, "alice@example.com", "alice", "Secr3tPass!")

	// Four sequential "device" logins.
	devices := make([]loginResult, 0, 4)
	for i := 0; i < 4; i++ {
		devices = append(devices, server.MustLogin(t, "alice@example.com", "Secr3tPass!"))
	}

	// The first device was least recently active and got evicted.
	w := server.DoJSON(t, http.MethodGet, "/auth/me", nil, bearer(devices[0].AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "oldest session must be evicted: %s", w.Body.String())

	// The newest three still work.
	for i := 1; i < 4; i++ {
		w := server.DoJSON(t, http.MethodGet, "/auth/me", nil, bearer(devices[i].AccessToken))
		assert.Equal(t, http.StatusOK, w.Code, "device %d should still be live: %s", i, w.Body.String())
	}

	// Exactly three active sessions remain.
	w = server.DoJSON(t, http.MethodGet, "/auth/sessions", nil, bearer(devices[3].AccessToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData[struct {
		Sessions []struct {
			Token   string `json:"token"`
			Current bool   `json:"current"`
		} `json:"sessions"`
	}](t, w)
	require.Len(t, data.Sessions, 3)

	tokens := make(map[string]bool, len(data.Sessions))
	for _, s := range data.Sessions {
		tokens[s.Token] = s.Current
	}
	assert.NotContains(t, tokens, devices[0].SessionToken)
	assert.True(t, tokens[devices[3].SessionToken], "caller's session must be flagged current")
}

func TestSessionRevocation(t *testing.T) {
	server := NewTestServer(t, nil)
	server.MustRegister(t, "alice@example.com", "alice", "Secr3tPass!")
	server.MustRegister(t, "bob@example.com", "bob", "B0bSecret!")

	phone := server.MustLogin(t, "alice@example.com", "Secr3tPass!")
	laptop := server.MustLogin(t, "alice@example.com", "Secr3tPass!")
	bob := server.MustLogin(t, "bob@example.com", "B0bSecret!")

	t.Run("a user cannot revoke someone else's session", func(t *testing.T) {
		w := server.DoJSON(t, http.MethodDelete, "/auth/sessions/"+phone.SessionToken, nil, bearer(bob.AccessToken))
		assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		// Alice's phone session is unharmed.
		w = server.DoJSON(t, http.MethodGet, "/auth/me", nil, bearer(phone.AccessToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("owner revokes a session from another device", func(t *testing.T) {
		w := server.DoJSON(t, http.MethodDelete, "/auth/sessions/"+phone.SessionToken, nil, bearer(laptop.AccessToken))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// The revoked device is out; the revoking device stays in.
		w = server.DoJSON(t, http.MethodGet, "/auth/me", nil, bearer(phone.AccessToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w = server.DoJSON(t, http.MethodGet, "/auth/me", nil, bearer(laptop.AccessToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSessionExpiry(t *testing.T) {
	server := NewTestServer(t, nil)
	server.MustRegister(t, "alice@example.com", "alice", "Secr3tPass!")
	result := server.MustLogin(t, "alice@example.com", "Secr3tPass!")

	// Jump Redis past the 24h session expiry. The record TTLs out entirely.
	server.Redis.FastForward(25 * time.Hour)

	w := server.DoJSON(t, http.MethodGet, "/auth/me", nil, bearer(result.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
}
