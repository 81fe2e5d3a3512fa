package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNoCredential is returned when no access token is available at call
	// time. The caller must sign in; no network request was issued.
	ErrNoCredential = errors.New("no access token available")

	// ErrSessionExpired is returned when a refresh was attempted and failed.
	// The session has already been cleared; the caller should redirect to
	// sign-in.
	ErrSessionExpired = errors.New("session expired")

	// ErrRefreshFailed is returned when the refresh operation itself failed
	// outright. The session has been cleared; callers treat this the same as
	// ErrSessionExpired.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrForbidden is returned on a 403: authenticated but not authorized
	// for the resource. The session is untouched.
	ErrForbidden = errors.New("forbidden")
)

// APIError is returned for any non-2xx status that is not handled by the
// refresh or forbidden paths. The session is untouched.
type APIError struct {
	// StatusCode is the HTTP status of the final response.
	StatusCode int
	// Body holds the response body, when it could be read.
	Body string
}

// Error returns a human-readable description of the API failure.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}
