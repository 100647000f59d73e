package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFaceNotRecognized  = errors.New("face not recognized")
	ErrAccountDisabled    = errors.New("account is disabled")

	// ErrTooManyAttempts means the lockout window is active for the account.
	ErrTooManyAttempts = errors.New("too many failed attempts, try again later")

	ErrInvalidToken = errors.New("invalid or expired token")
)
