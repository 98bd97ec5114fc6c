package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrMissingName        = errors.New("name is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrInvalidPasscode    = errors.New("invalid admin passcode")
	ErrAdminDisabled      = errors.New("admin console is not configured")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
