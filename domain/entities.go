package domain

import "time"

// User represents a platform member. Auth owns the credential and security
// fields; tier, coins, level and points are read here but managed elsewhere.
type User struct {
	ID           uint
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	Tier         Tier
	Role         Role
	CoinBalance  int64
	Level        int
	Points       int64

	IsActive bool
	IsBanned bool

	FailedLoginAttempts int
	LockedUntil         *time.Time

	LastLoginAt *time.Time
	LoginCount  int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAuthenticate reports whether the account is allowed to log in at all.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsBanned
}

// PublicUser is the caller-facing view of a user. It never carries the
// password hash or security counters.
type PublicUser struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Tier        Tier      `json:"tier"`
	Role        Role      `json:"role"`
	CoinBalance int64     `json:"coin_balance"`
	Level       int       `json:"level"`
	Points      int64     `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the caller-safe view of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		Tier:        u.Tier,
		Role:        u.Role,
		CoinBalance: u.CoinBalance,
		Level:       u.Level,
		Points:      u.Points,
		CreatedAt:   u.CreatedAt,
	}
}

// Session represents one authenticated device/browser instance. The token is
// opaque and unguessable; it is never reused after deactivation.
type Session struct {
	Token        string    `json:"token"`
	UserID       uint      `json:"user_id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	IsActive     bool      `json:"is_active"`
	RememberMe   bool      `json:"remember_me"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
// Callers must always recompute this instead of trusting a cached answer.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Usable reports whether the session may still authenticate requests.
func (s *Session) Usable(now time.Time) bool {
	return s.IsActive && !s.Expired(now)
}

// AuthResult represents a successful login or token refresh.
type AuthResult struct {
	User         *PublicUser
	AccessToken  string
	RefreshToken string
	SessionToken string
	ExpiresIn    int64 // access token lifetime in seconds
}
