package services

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "gagyebu/internal/errors"
)

// authService checks the owner password against a bcrypt hash.
type authService struct {
	passwordHash string
}

// NewAuthService creates a new AuthServicer. An empty hash disables
// authentication.
func NewAuthService(passwordHash string) AuthServicer {
	return &authService{passwordHash: passwordHash}
}

func (s *authService) Enabled() bool {
	return s.passwordHash != ""
}

// VerifyOwnerPassword returns ErrInvalidCredentials on mismatch.
func (s *authService) VerifyOwnerPassword(password string) error {
	if !s.Enabled() {
		return apperrors.WithMessage(apperrors.ErrInvalidCredentials, "authentication is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
