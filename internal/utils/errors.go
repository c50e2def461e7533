package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrUsernameTaken      = errors.New("USERNAME_TAKEN")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrPasswordMismatch   = errors.New("PASSWORD_MISMATCH")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrTokenRevoked       = errors.New("TOKEN_REVOKED")
	ErrDuplicateTitle     = errors.New("DUPLICATE_TITLE")
	ErrInvalidRating      = errors.New("INVALID_RATING")
)
