package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrEmailTaken         = errors.New("account already exists for this email")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrEmailTokenInvalid  = errors.New("invalid token for email verification")
	ErrUserNotFound       = errors.New("user not found")
	ErrContactNotFound    = errors.New("contact not found")
)
