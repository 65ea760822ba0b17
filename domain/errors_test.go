package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{"ErrUserNotFound", ErrUserNotFound, "user not found"},
		{"ErrInvalidCredentials", ErrInvalidCredentials, "invalid credentials"},
		{"ErrUserInactive", ErrUserInactive, "user account is inactive"},
		{"ErrUserBanned", ErrUserBanned, "user account is banned"},
		{"ErrRateLimited", ErrRateLimited, "too many attempts, retry later"},
		{"ErrTokenInvalid", ErrTokenInvalid, "invalid token"},
		{"ErrTokenExpired", ErrTokenExpired, "token has expired"},
		{"ErrSessionNotFound", ErrSessionNotFound, "session not found"},
		{"ErrSessionInactive", ErrSessionInactive, "session is no longer active"},
		{"ErrSessionExpired", ErrSessionExpired, "session has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected error message %q, got %q", tt.expectedMsg, tt.err.Error())
			}
		})
	}
}

func TestDuplicateIdentityError(t *testing.T) {
	emailErr := &DuplicateIdentityError{Field: "email"}
	if !strings.Contains(emailErr.Error(), "email") {
		t.Errorf("expected error to name the colliding field, got %q", emailErr.Error())
	}

	wrapped := fmt.Errorf("register: %w", &DuplicateIdentityError{Field: "username"})
	field, ok := IsDuplicateIdentity(wrapped)
	if !ok {
		t.Fatal("expected wrapped duplicate identity error to be detected")
	}
	if field != "username" {
		t.Errorf("expected field username, got %q", field)
	}

	if _, ok := IsDuplicateIdentity(ErrUserNotFound); ok {
		t.Error("plain sentinel should not match duplicate identity")
	}
}

func TestAccountLockedError(t *testing.T) {
	locked := &AccountLockedError{RetryAfter: 29*time.Minute + 40*time.Second}
	if !strings.Contains(locked.Error(), "30 minute") {
		t.Errorf("expected retry-after rounded to minutes, got %q", locked.Error())
	}

	sub := &AccountLockedError{RetryAfter: 10 * time.Second}
	if !strings.Contains(sub.Error(), "1 minute") {
		t.Errorf("expected sub-minute lockout reported as one minute, got %q", sub.Error())
	}

	if !IsAccountLocked(fmt.Errorf("login: %w", locked)) {
		t.Error("expected wrapped lockout error to be detected")
	}
	if IsAccountLocked(ErrInvalidCredentials) {
		t.Error("invalid credentials must not read as a lockout")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "username", Message: "must be alphanumeric"}
	if !strings.Contains(err.Error(), "username") {
		t.Errorf("expected field in message, got %q", err.Error())
	}
	if !IsValidation(fmt.Errorf("register: %w", err)) {
		t.Error("expected wrapped validation error to be detected")
	}
	if IsValidation(errors.New("boom")) {
		t.Error("arbitrary error must not read as validation failure")
	}
}
