package identity

import "errors"

// Service errors.
var (
	ErrEmailRequired      = errors.New("email is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role selected")
)
