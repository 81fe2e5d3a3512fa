package auth

import "github.com/medilink/portal/sessions"

// Repo is the durable storage surface for the current session. Exactly one
// session is stored at a time; Load returning (nil, nil) means signed out.
// Implementations must make each mutation atomic so a process restart
// mid-session observes either the previous or the new session, never a
// partial write.
type Repo interface {
	// Load retrieves the persisted session, or (nil, nil) when none exists.
	Load() (*sessions.Session, error)

	// Save writes the session, replacing any previous one.
	Save(session *sessions.Session) error

	// Clear removes the persisted session. Clearing an absent session is not
	// an error.
	Clear() error
}
