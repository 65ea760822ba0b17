package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// AuthConfig carries the policy knobs for the auth service. It is injected
// explicitly; the service holds no ambient/global configuration.
type AuthConfig struct {
	AccessTTL     time.Duration
	RotateRefresh bool

	MaxConcurrentSessions int
	SessionDuration       time.Duration
	RememberMeDuration    time.Duration

	MaxLoginAttempts int
	LockoutWindow    time.Duration
	LockoutDuration  time.Duration

	LoginIPMax       int
	LoginIPWindow    time.Duration
	LoginEmailMax    int
	LoginEmailWindow time.Duration
	RegisterIPMax    int
	RegisterIPWindow time.Duration

	WelcomeBonus int64
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	auditRepo   domain.AuditRepository
	audit       domain.AuditLogger
	rateLimiter domain.RateLimiter
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	validate    *validator.Validate
	cfg         AuthConfig
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	auditRepo domain.AuditRepository,
	audit domain.AuditLogger,
	rateLimiter domain.RateLimiter,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	cfg AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		auditRepo:   auditRepo,
		audit:       audit,
		rateLimiter: rateLimiter,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		cfg:         cfg,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegisterInput) (*domain.PublicUser, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))

	if err := s.rateLimiter.Check(ctx, "register_ip:"+in.IPAddress, s.cfg.RegisterIPMax, s.cfg.RegisterIPWindow); err != nil {
		registrationsTotal.WithLabelValues("rate_limited").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.RegistrationFailureEvent).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err).
			WithMetadata("reason", "rate_limited"))
		return nil, err
	}

	if err := s.validateInput(in); err != nil {
		registrationsTotal.WithLabelValues("invalid_input").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.RegistrationFailureEvent).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err).
			WithMetadata("reason", "invalid_input"))
		return nil, err
	}

	// Explicit pre-checks name the colliding field without any write; the
	// unique indexes remain the backstop for concurrent registrations.
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, s.registrationConflict(ctx, in, "email")
	}
	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return nil, s.registrationConflict(ctx, in, "username")
	}

	hashed, err := s.passwordSvc.Hash(in.Password)
	if err != nil {
		registrationsTotal.WithLabelValues("error").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.RegistrationFailureEvent).
			WithEmail(in.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hashed,
		Tier:         domain.TierGrassroot,
		Role:         domain.RoleUser,
		CoinBalance:  s.cfg.WelcomeBonus,
		Level:        1,
		Points:       0,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if field, ok := domain.IsDuplicateIdentity(err); ok {
			return nil, s.registrationConflict(ctx, in, field)
		}
		registrationsTotal.WithLabelValues("error").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.RegistrationFailureEvent).
			WithEmail(in.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	registrationsTotal.WithLabelValues("success").Inc()
	s.audit.Log(ctx, domain.NewAuditEntry(domain.RegistrationEvent).
		WithUser(user.ID).
		WithEmail(user.Email).
		WithClient(in.IPAddress, in.UserAgent).
		WithMetadata("username", user.Username))

	return user.Public(), nil
}

func (s *AuthServiceImpl) registrationConflict(ctx context.Context, in domain.RegisterInput, field string) error {
	registrationsTotal.WithLabelValues("conflict").Inc()
	err := &domain.DuplicateIdentityError{Field: field}
	s.audit.Log(ctx, domain.NewAuditEntry(domain.RegistrationFailureEvent).
		WithEmail(in.Email).
		WithClient(in.IPAddress, in.UserAgent).
		WithError(err).
		WithMetadata("field", field))
	return err
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	now := time.Now()

	if err := s.rateLimiter.Check(ctx, "login_ip:"+in.IPAddress, s.cfg.LoginIPMax, s.cfg.LoginIPWindow); err != nil {
		loginsTotal.WithLabelValues("rate_limited").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err).
			WithMetadata("reason", "ip_rate_limited"))
		return nil, err
	}

	// The per-email attempt is recorded before the lockout decision so the
	// window stays saturated, but a lockout outranks the rate-limit error:
	// a legitimate user must learn they are locked out, not just throttled.
	emailLimitErr := s.rateLimiter.Check(ctx, "login_email:"+in.Email, s.cfg.LoginEmailMax, s.cfg.LoginEmailWindow)

	user, findErr := s.userRepo.FindByEmail(ctx, in.Email)

	if retryAfter, locked := s.lockoutState(ctx, user, in.Email, now); locked {
		loginsTotal.WithLabelValues("locked").Inc()
		err := &domain.AccountLockedError{RetryAfter: retryAfter}
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithEmail(in.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err).
			WithMetadata("reason", "locked"))
		return nil, err
	}

	if emailLimitErr != nil {
		loginsTotal.WithLabelValues("rate_limited").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(emailLimitErr).
			WithMetadata("reason", "email_rate_limited"))
		return nil, emailLimitErr
	}

	// Whether the email is unknown or the password wrong, the caller sees
	// the same generic error.
	if findErr != nil {
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithEmail(in.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(domain.ErrInvalidCredentials).
			WithMetadata("reason", "unknown_email"))
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, in.Password) {
		s.recordFailedAttempt(ctx, user, in, now)
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if user.IsBanned {
		loginsTotal.WithLabelValues("banned").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithUser(user.ID).
			WithEmail(user.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(domain.ErrUserBanned))
		return nil, domain.ErrUserBanned
	}
	if !user.IsActive {
		loginsTotal.WithLabelValues("inactive").Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithUser(user.ID).
			WithEmail(user.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(domain.ErrUserInactive))
		return nil, domain.ErrUserInactive
	}

	if err := s.enforceSessionCap(ctx, user, in); err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, user.ID, in, now)
	if err != nil {
		loginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user, session.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user.ID, session.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LoginCount++
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login stats: %w", err)
	}

	loginsTotal.WithLabelValues("success").Inc()
	s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginEvent).
		WithUser(user.ID).
		WithEmail(user.Email).
		WithClient(in.IPAddress, in.UserAgent).
		WithMetadata("remember_me", in.RememberMe))

	return &domain.AuthResult{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionToken: session.Token,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// lockoutState reports whether login is currently blocked for this account.
// It checks the user row's locked_until fast path and, for fidelity with the
// audit-derived policy, the count of recent failed logins for the email.
func (s *AuthServiceImpl) lockoutState(ctx context.Context, user *domain.User, email string, now time.Time) (time.Duration, bool) {
	if user != nil && user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return user.LockedUntil.Sub(now), true
	}

	count, err := s.auditRepo.CountSince(ctx, domain.LoginFailureEvent, email, now.Add(-s.cfg.LockoutWindow))
	if err == nil && count >= int64(s.cfg.MaxLoginAttempts) {
		return s.cfg.LockoutDuration, true
	}
	return 0, false
}

// recordFailedAttempt bumps the account failure counter, arms the lockout
// when the counter reaches the max, and audit-logs the failure.
func (s *AuthServiceImpl) recordFailedAttempt(ctx context.Context, user *domain.User, in domain.LoginInput, now time.Time) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= s.cfg.MaxLoginAttempts {
		until := now.Add(s.cfg.LockoutDuration)
		user.LockedUntil = &until
		lockoutsTotal.Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.AccountLockedEvent).
			WithUser(user.ID).
			WithEmail(user.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithMetadata("failed_attempts", user.FailedLoginAttempts))
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		// Counter update is best-effort; the audit trail still records the
		// failure for the lockout scan.
		s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
			WithUser(user.ID).
			WithEmail(user.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithError(err).
			WithMetadata("reason", "counter_update_failed"))
	}

	s.audit.Log(ctx, domain.NewAuditEntry(domain.LoginFailureEvent).
		WithUser(user.ID).
		WithEmail(user.Email).
		WithClient(in.IPAddress, in.UserAgent).
		WithError(domain.ErrInvalidCredentials).
		WithMetadata("failed_attempts", user.FailedLoginAttempts))
}

// enforceSessionCap deactivates least-recently-active sessions until the new
// login fits under the cap. The new login always succeeds; session pressure
// never denies it.
func (s *AuthServiceImpl) enforceSessionCap(ctx context.Context, user *domain.User, in domain.LoginInput) error {
	active, err := s.sessionRepo.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list active sessions: %w", err)
	}
	if len(active) < s.cfg.MaxConcurrentSessions {
		return nil
	}

	// active is most-recently-active first; evict from the tail.
	excess := len(active) - s.cfg.MaxConcurrentSessions + 1
	for i := 0; i < excess; i++ {
		victim := active[len(active)-1-i]
		if err := s.sessionRepo.Deactivate(ctx, victim.Token); err != nil {
			return fmt.Errorf("failed to evict session: %w", err)
		}
		sessionEvictionsTotal.Inc()
		s.audit.Log(ctx, domain.NewAuditEntry(domain.SessionEvictedEvent).
			WithUser(user.ID).
			WithEmail(user.Email).
			WithClient(in.IPAddress, in.UserAgent).
			WithMetadata("evicted_token", victim.Token))
	}
	return nil
}

func (s *AuthServiceImpl) createSession(ctx context.Context, userID uint, in domain.LoginInput, now time.Time) (*domain.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	duration := s.cfg.SessionDuration
	if in.RememberMe {
		duration = s.cfg.RememberMeDuration
	}

	session := &domain.Session{
		Token:        token,
		UserID:       userID,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		IsActive:     true,
		RememberMe:   in.RememberMe,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(duration),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession implements domain.AuthService. Expiry is detected lazily
// here and the session is deactivated as a side effect.
func (s *AuthServiceImpl) ValidateSession(ctx context.Context, sessionToken string) (*domain.PublicUser, error) {
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, domain.ErrSessionInactive
	}

	now := time.Now()
	if session.Expired(now) {
		if derr := s.sessionRepo.Deactivate(ctx, sessionToken); derr == nil {
			s.audit.Log(ctx, domain.NewAuditEntry(domain.SessionExpiredEvent).
				WithUser(session.UserID).
				WithClient(session.IPAddress, session.UserAgent))
		}
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.Touch(ctx, sessionToken, now); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, domain.ErrUserBanned
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return user.Public(), nil
}

// RefreshToken implements domain.AuthService. The refresh token is reused by
// default; rotation is an opt-in hardening flag.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByToken(ctx, claims.SessionToken)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, domain.ErrSessionInactive
	}
	now := time.Now()
	if session.Expired(now) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.CanAuthenticate() {
		return nil, domain.ErrUserInactive
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user, session.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefresh := refreshToken
	if s.cfg.RotateRefresh {
		newRefresh, err = s.tokenSvc.GenerateRefreshToken(user.ID, session.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
		}
	}

	if err := s.sessionRepo.Touch(ctx, session.Token, now); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	s.audit.Log(ctx, domain.NewAuditEntry(domain.TokenRefreshedEvent).
		WithUser(user.ID).
		WithEmail(user.Email).
		WithClient(session.IPAddress, session.UserAgent).
		WithMetadata("rotated", s.cfg.RotateRefresh))

	return &domain.AuthResult{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		SessionToken: session.Token,
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService. It is idempotent: logging out a
// missing or already-inactive session is not an error.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionToken string) error {
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil
		}
		return err
	}
	if !session.IsActive {
		return nil
	}

	if err := s.sessionRepo.Deactivate(ctx, sessionToken); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}

	s.audit.Log(ctx, domain.NewAuditEntry(domain.LogoutEvent).
		WithUser(session.UserID).
		WithClient(session.IPAddress, session.UserAgent))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// ListSessions implements domain.AuthService
func (s *AuthServiceImpl) ListSessions(ctx context.Context, userID uint) ([]*domain.Session, error) {
	return s.sessionRepo.ListActiveByUser(ctx, userID)
}

// RevokeSession implements domain.AuthService. A caller may only revoke
// sessions they own.
func (s *AuthServiceImpl) RevokeSession(ctx context.Context, userID uint, sessionToken string) error {
	session, err := s.sessionRepo.FindByToken(ctx, sessionToken)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return domain.ErrSessionForbidden
	}
	if !session.IsActive {
		return nil
	}

	if err := s.sessionRepo.Deactivate(ctx, sessionToken); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}

	s.audit.Log(ctx, domain.NewAuditEntry(domain.SessionRevokedEvent).
		WithUser(userID).
		WithClient(session.IPAddress, session.UserAgent).
		WithMetadata("revoked_token", sessionToken))
	return nil
}

func (s *AuthServiceImpl) validateInput(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		}
	}
	return err
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// generateSessionToken returns an opaque, unguessable session identifier.
func generateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
