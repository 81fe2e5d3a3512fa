package sessions

import "slices"

// Session is the record of the currently signed-in identity and its
// credentials. It is persisted as a single JSON object so that a process
// restart restores the session without re-authenticating.
//
// A session is never partially populated: sign-in either establishes every
// required field or no session exists at all. RefreshTokenExpiryTime is
// tracked for display but not enforced locally; the remote API is the
// authority on token validity.
type Session struct {
	AppUserID              int64    `json:"appUserId"`
	Username               string   `json:"username"`
	AccessToken            string   `json:"accessToken"`
	RefreshToken           string   `json:"refreshToken"`
	RefreshTokenExpiryTime string   `json:"refreshTokenExpiryTime"`
	Roles                  []string `json:"role,omitempty"`
}

// HasRole reports whether the session carries the given role.
func (s *Session) HasRole(role string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.Roles, role)
}

// Clone returns a copy of the session so callers can read it without
// observing later mutations.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Roles = slices.Clone(s.Roles)
	return &copied
}
