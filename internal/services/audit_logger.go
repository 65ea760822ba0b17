package services

import (
	"context"
	"log/slog"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// AuditLoggerImpl implements domain.AuditLogger on top of the audit
// repository. Writes are best-effort: a failed insert is reported to the
// service log and swallowed, never surfaced to the audited operation.
type AuditLoggerImpl struct {
	repo   domain.AuditRepository
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(repo domain.AuditRepository, logger *slog.Logger) domain.AuditLogger {
	return &AuditLoggerImpl{repo: repo, logger: logger}
}

// Log implements domain.AuditLogger
func (l *AuditLoggerImpl) Log(ctx context.Context, entry *domain.AuditEntry) {
	if err := l.repo.Insert(ctx, entry); err != nil {
		l.logger.Error("audit write failed",
			slog.String("action", string(entry.Action)),
			slog.Uint64("user_id", uint64(entry.UserID)),
			slog.String("error", err.Error()),
		)
		return
	}

	l.logger.Debug("audit",
		slog.String("action", string(entry.Action)),
		slog.Uint64("user_id", uint64(entry.UserID)),
		slog.Bool("success", entry.Success),
	)
}
