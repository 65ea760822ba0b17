package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
}

// SessionRepository defines session data access operations. ListActiveByUser
// returns sessions ordered most-recently-active first.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Touch(ctx context.Context, token string, at time.Time) error
	Deactivate(ctx context.Context, token string) error
	ListActiveByUser(ctx context.Context, userID uint) ([]*Session, error)
	DeleteExpired(ctx context.Context) error
}

// AuditRepository persists the append-only audit trail. CountSince feeds the
// lockout decision by counting recent entries for an email or IP.
type AuditRepository interface {
	Insert(ctx context.Context, entry *AuditEntry) error
	CountSince(ctx context.Context, action AuditAction, email string, since time.Time) (int64, error)
}

// AuditLogger records audit entries best-effort. A failed write must never
// fail the operation being audited.
type AuditLogger interface {
	Log(ctx context.Context, entry *AuditEntry)
}

// RateLimiter enforces a sliding-window attempt cap per key. Check records
// the attempt and returns ErrRateLimited once max is reached inside window.
type RateLimiter interface {
	Check(ctx context.Context, key string, max int, window time.Duration) error
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines signed token operations.
type TokenService interface {
	GenerateAccessToken(user *User, sessionToken string) (string, error)
	GenerateRefreshToken(userID uint, sessionToken string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// TokenClaims is the verified claim set of an access or refresh token.
type TokenClaims struct {
	UserID       uint
	Email        string
	Username     string
	Tier         Tier
	Role         Role
	SessionToken string
	TokenType    string
	IssuedAt     int64
	ExpiresAt    int64
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email     string `validate:"required,email,max=255"`
	Password  string `validate:"required,min=8,max=128"`
	Username  string `validate:"required,min=3,max=32,alphanum"`
	FullName  string `validate:"required,min=2,max=128"`
	IPAddress string `validate:"required"`
	UserAgent string
}

// LoginInput holds the parameters for a login attempt.
type LoginInput struct {
	Email      string `validate:"required,email"`
	Password   string `validate:"required"`
	IPAddress  string `validate:"required"`
	UserAgent  string
	RememberMe bool
}

// AuthService defines the authentication business logic.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*PublicUser, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	ValidateSession(ctx context.Context, sessionToken string) (*PublicUser, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionToken string) error
	GetUserProfile(ctx context.Context, userID uint) (*PublicUser, error)
	ListSessions(ctx context.Context, userID uint) ([]*Session, error)
	RevokeSession(ctx context.Context, userID uint, sessionToken string) error
}
