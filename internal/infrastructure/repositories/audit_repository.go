package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// AuditRepositoryImpl implements domain.AuditRepository using GORM. The table
// is append-only: entries are never updated or deleted.
type AuditRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditEntry represents the database model for audit log entries.
type DBAuditEntry struct {
	ID        string `gorm:"primaryKey;size:36"`
	Action    string `gorm:"index:idx_audit_action_email;index;size:64"`
	UserID    uint   `gorm:"index"`
	Email     string `gorm:"index:idx_audit_action_email;size:255"`
	IPAddress string `gorm:"index;size:64"`
	UserAgent string `gorm:"size:512"`
	Metadata  string `gorm:"type:text"`
	ErrorMsg  string `gorm:"size:512"`
	Success   bool
	CreatedAt time.Time `gorm:"index"`
}

// TableName returns the table name for GORM.
func (DBAuditEntry) TableName() string {
	return "audit_logs"
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *gorm.DB) domain.AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

// Insert implements domain.AuditRepository
func (r *AuditRepositoryImpl) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var metadata string
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err == nil {
			metadata = string(raw)
		}
	}

	row := &DBAuditEntry{
		ID:        entry.ID,
		Action:    string(entry.Action),
		UserID:    entry.UserID,
		Email:     entry.Email,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Metadata:  metadata,
		ErrorMsg:  entry.ErrorMsg,
		Success:   entry.Success,
		CreatedAt: entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// CountSince implements domain.AuditRepository. It counts entries for one
// action and email since the given time; the lockout check scans this.
func (r *AuditRepositoryImpl) CountSince(ctx context.Context, action domain.AuditAction, email string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DBAuditEntry{}).
		Where("action = ? AND email = ? AND created_at >= ?", string(action), email, since).
		Count(&count).Error
	return count, err
}
