package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/stevensoneremeh/eriggalive-auth/domain"
)

// PasswordServiceImpl implements domain.PasswordService using bcrypt.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service. Cost below bcrypt's
// minimum falls back to cost 12.
func NewPasswordService(cost int) domain.PasswordService {
	if cost < bcrypt.MinCost {
		cost = 12
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. A mismatch is reported as false,
// never as an error.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
