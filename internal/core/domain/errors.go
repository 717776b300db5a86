package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrVideoNotFound      = errors.New("video not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokensDisabled     = errors.New("token issuing is disabled")
)
