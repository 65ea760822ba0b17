package domain

import (
	"errors"
	"fmt"
	"time"
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUserBanned         = errors.New("user account is banned")
	ErrRateLimited        = errors.New("too many attempts, retry later")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionInactive  = errors.New("session is no longer active")
	ErrSessionExpired   = errors.New("session has expired")
	ErrSessionForbidden = errors.New("session belongs to another user")
)

// DuplicateIdentityError reports which identity field collided during
// registration. Field is "email" or "username".
type DuplicateIdentityError struct {
	Field string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s is already taken", e.Field)
}

// IsDuplicateIdentity reports whether err is an identity conflict and, if so,
// which field collided.
func IsDuplicateIdentity(err error) (string, bool) {
	var dup *DuplicateIdentityError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// AccountLockedError signals a temporary lockout after repeated failures.
// RetryAfter is rounded to whole minutes so the exact unlock second is not
// exposed to callers.
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string {
	mins := int(e.RetryAfter.Round(time.Minute).Minutes())
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("account is temporarily locked, try again in about %d minute(s)", mins)
}

// IsAccountLocked reports whether err represents an account lockout.
func IsAccountLocked(err error) bool {
	var locked *AccountLockedError
	return errors.As(err, &locked)
}

// ValidationError reports a malformed input field before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
