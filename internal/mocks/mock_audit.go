package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// MockAuditRepository implements domain.AuditRepository for testing.
type MockAuditRepository struct {
	InsertFunc     func(ctx context.Context, entry *domain.AuditEntry) error
	CountSinceFunc func(ctx context.Context, action domain.AuditAction, email string, since time.Time) (int64, error)
}

// NewMockAuditRepository creates a new MockAuditRepository with default behaviors.
func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	// Default behavior: success
	return nil
}

func (m *MockAuditRepository) CountSince(ctx context.Context, action domain.AuditAction, email string, since time.Time) (int64, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, action, email, since)
	}
	// Default behavior: nothing recent
	return 0, nil
}

// MockAuditLogger implements domain.AuditLogger for testing. It records every
// entry it sees so tests can assert on the trail.
type MockAuditLogger struct {
	LogFunc func(ctx context.Context, entry *domain.AuditEntry)

	mu      sync.Mutex
	entries []*domain.AuditEntry
}

// NewMockAuditLogger creates a new MockAuditLogger.
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) Log(ctx context.Context, entry *domain.AuditEntry) {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	if m.LogFunc != nil {
		m.LogFunc(ctx, entry)
	}
}

// Entries returns a snapshot of all logged entries.
func (m *MockAuditLogger) Entries() []*domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// CountAction returns how many logged entries carry the given action.
func (m *MockAuditLogger) CountAction(action domain.AuditAction) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}
