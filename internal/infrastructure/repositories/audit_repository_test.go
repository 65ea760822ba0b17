package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

func TestAuditRepositoryImpl_Insert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	entry := domain.NewAuditEntry(domain.LoginFailureEvent).
		WithEmail("alice@example.com").
		WithClient("203.0.113.7", "test-agent").
		WithError(domain.ErrInvalidCredentials).
		WithMetadata("attempt", 3)

	if err := repo.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if entry.ID == "" {
		t.Error("expected an ID to be assigned")
	}

	var row DBAuditEntry
	if err := db.First(&row, "id = ?", entry.ID).Error; err != nil {
		t.Fatalf("reading back entry: %v", err)
	}
	if row.Action != string(domain.LoginFailureEvent) {
		t.Errorf("expected action LOGIN_FAILED, got %s", row.Action)
	}
	if row.Success {
		t.Error("expected entry marked unsuccessful")
	}
	if row.ErrorMsg != domain.ErrInvalidCredentials.Error() {
		t.Errorf("expected failure reason recorded, got %q", row.ErrorMsg)
	}
}

func TestAuditRepositoryImpl_CountSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	insert := func(action domain.AuditAction, email string, at time.Time) {
		t.Helper()
		entry := domain.NewAuditEntry(action).WithEmail(email)
		entry.CreatedAt = at
		if err := repo.Insert(ctx, entry); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	// Three recent failures, one stale, one for someone else, one success.
	insert(domain.LoginFailureEvent, "alice@example.com", now.Add(-time.Minute))
	insert(domain.LoginFailureEvent, "alice@example.com", now.Add(-5*time.Minute))
	insert(domain.LoginFailureEvent, "alice@example.com", now.Add(-10*time.Minute))
	insert(domain.LoginFailureEvent, "alice@example.com", now.Add(-time.Hour))
	insert(domain.LoginFailureEvent, "bob@example.com", now.Add(-time.Minute))
	insert(domain.LoginEvent, "alice@example.com", now.Add(-time.Minute))

	count, err := repo.CountSince(ctx, domain.LoginFailureEvent, "alice@example.com", now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 recent failures for alice, got %d", count)
	}

	count, err = repo.CountSince(ctx, domain.LoginFailureEvent, "bob@example.com", now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 recent failure for bob, got %d", count)
	}
}
