package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func newTestSession(token string, userID uint, lastActivity time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		Token:        token,
		UserID:       userID,
		IPAddress:    "203.0.113.7",
		UserAgent:    "test-agent",
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: lastActivity,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
}

func TestSessionRepositoryImpl_CreateAndFind(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	session := newTestSession("tok_1", 1, time.Now())
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.FindByToken(ctx, "tok_1")
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if found.UserID != 1 || !found.IsActive {
		t.Errorf("unexpected session: %+v", found)
	}
	if found.IPAddress != "203.0.113.7" {
		t.Errorf("expected IP to round-trip, got %s", found.IPAddress)
	}
}

func TestSessionRepositoryImpl_CreateRejectsPastExpiry(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	session := newTestSession("tok_past", 1, time.Now())
	session.ExpiresAt = time.Now().Add(-time.Minute)

	if err := repo.Create(context.Background(), session); err == nil {
		t.Error("expected creation with past expiry to fail")
	}
}

func TestSessionRepositoryImpl_FindMissing(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	if _, err := repo.FindByToken(context.Background(), "nope"); err != domain.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryImpl_Deactivate(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	session := newTestSession("tok_2", 2, time.Now())
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Deactivate(ctx, "tok_2"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// Tombstone remains so the caller can distinguish inactive from missing.
	found, err := repo.FindByToken(ctx, "tok_2")
	if err != nil {
		t.Fatalf("FindByToken after deactivate: %v", err)
	}
	if found.IsActive {
		t.Error("expected session to be inactive")
	}

	active, err := repo.ListActiveByUser(ctx, 2)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active sessions, got %d", len(active))
	}
}

func TestSessionRepositoryImpl_Touch(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	created := time.Now().Add(-time.Hour)
	session := newTestSession("tok_3", 3, created)
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bumped := time.Now()
	if err := repo.Touch(ctx, "tok_3", bumped); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	found, err := repo.FindByToken(ctx, "tok_3")
	if err != nil {
		t.Fatalf("FindByToken: %v", err)
	}
	if found.LastActivity.Unix() != bumped.Unix() {
		t.Errorf("expected last activity %v, got %v", bumped, found.LastActivity)
	}
}

func TestSessionRepositoryImpl_ListActiveByUser_Ordering(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	base := time.Now().Add(-3 * time.Hour)
	for i, token := range []string{"tok_old", "tok_mid", "tok_new"} {
		s := newTestSession(token, 4, base.Add(time.Duration(i)*time.Hour))
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create %s: %v", token, err)
		}
	}

	active, err := repo.ListActiveByUser(ctx, 4)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active sessions, got %d", len(active))
	}
	if active[0].Token != "tok_new" || active[2].Token != "tok_old" {
		t.Errorf("expected most-recently-active first, got %s .. %s", active[0].Token, active[2].Token)
	}
}

func TestSessionRepositoryImpl_ListPrunesExpired(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	short := newTestSession("tok_short", 5, time.Now())
	short.ExpiresAt = time.Now().Add(time.Second)
	if err := repo.Create(ctx, short); err != nil {
		t.Fatalf("Create: %v", err)
	}
	long := newTestSession("tok_long", 5, time.Now())
	if err := repo.Create(ctx, long); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Let the short session's TTL lapse inside miniredis.
	mr.FastForward(2 * time.Second)

	active, err := repo.ListActiveByUser(ctx, 5)
	if err != nil {
		t.Fatalf("ListActiveByUser: %v", err)
	}
	if len(active) != 1 || active[0].Token != "tok_long" {
		t.Errorf("expected only tok_long to remain, got %+v", active)
	}
}
