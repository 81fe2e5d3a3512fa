package auth

import (
	"errors"
	"fmt"
)

// ErrAuthenticationFailed matches any sign-in rejection via errors.Is.
var ErrAuthenticationFailed = errors.New("authentication failed")

// AuthenticationFailedError is returned when the login endpoint rejects the
// submitted credentials. Message carries the server-provided text when the
// failure body included one, so forms can surface it verbatim.
type AuthenticationFailedError struct {
	StatusCode int
	Message    string
}

// Error returns the server message when present, else a generic description.
func (e *AuthenticationFailedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("login failed with status %d", e.StatusCode)
}

// Is supports errors.Is(err, ErrAuthenticationFailed).
func (e *AuthenticationFailedError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}
