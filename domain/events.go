package domain

import "time"

// AuditAction defines the type of audit event.
type AuditAction string

const (
	// Registration events
	RegistrationEvent        AuditAction = "REGISTRATION"
	RegistrationFailureEvent AuditAction = "REGISTRATION_FAILED"

	// Login/logout events
	LoginEvent        AuditAction = "LOGIN"
	LoginFailureEvent AuditAction = "LOGIN_FAILED"
	LogoutEvent       AuditAction = "LOGOUT"

	// Lockout and session events
	AccountLockedEvent  AuditAction = "ACCOUNT_LOCKED"
	SessionExpiredEvent AuditAction = "SESSION_EXPIRED"
	SessionEvictedEvent AuditAction = "SESSION_EVICTED"
	SessionRevokedEvent AuditAction = "SESSION_REVOKED"
	TokenRefreshedEvent AuditAction = "TOKEN_REFRESHED"
)

// AuditEntry is one immutable record in the audit trail. Besides forensics,
// recent LOGIN_FAILED entries feed the lockout decision.
type AuditEntry struct {
	ID        string         `json:"id"`
	Action    AuditAction    `json:"action"`
	UserID    uint           `json:"user_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
	Success   bool           `json:"success"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAuditEntry creates an audit entry with common fields populated.
func NewAuditEntry(action AuditAction) *AuditEntry {
	return &AuditEntry{
		Action:    action,
		Metadata:  make(map[string]any),
		Success:   true,
		CreatedAt: time.Now().UTC(),
	}
}

// WithUser sets the acting user.
func (e *AuditEntry) WithUser(userID uint) *AuditEntry {
	e.UserID = userID
	return e
}

// WithEmail sets the email field.
func (e *AuditEntry) WithEmail(email string) *AuditEntry {
	e.Email = email
	return e
}

// WithClient sets the originating IP and user agent.
func (e *AuditEntry) WithClient(ip, userAgent string) *AuditEntry {
	e.IPAddress = ip
	e.UserAgent = userAgent
	return e
}

// WithError marks the entry as failed and records the reason.
func (e *AuditEntry) WithError(err error) *AuditEntry {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithMetadata adds one metadata key.
func (e *AuditEntry) WithMetadata(key string, value any) *AuditEntry {
	e.Metadata[key] = value
	return e
}
