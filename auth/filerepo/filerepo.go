// Package filerepo persists the session as a single JSON file, the portal's
// equivalent of the browser's storage key. Writes go to a temp file in the
// same directory followed by a rename, so a crash mid-write leaves either the
// old session or the new one on disk.
package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/medilink/portal/sessions"
)

// SessionFileRepo stores the current session at a fixed path.
type SessionFileRepo struct {
	path string
}

// New creates a repo storing the session at path. The parent directory is
// created on the first Save.
func New(path string) *SessionFileRepo {
	return &SessionFileRepo{path: path}
}

// Load reads the persisted session. A missing file means signed out.
func (r *SessionFileRepo) Load() (*sessions.Session, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SessionFileRepo.Load] read session file")
	}

	var session sessions.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, "[SessionFileRepo.Load] decode session file")
	}
	return &session, nil
}

// Save atomically replaces the persisted session.
func (r *SessionFileRepo) Save(session *sessions.Session) error {
	if session == nil {
		return errors.New("[SessionFileRepo.Save] session is required")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "[SessionFileRepo.Save] create session directory")
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[SessionFileRepo.Save] encode session")
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return errors.Wrap(err, "[SessionFileRepo.Save] create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "[SessionFileRepo.Save] write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[SessionFileRepo.Save] close temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[SessionFileRepo.Save] chmod temp file")
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[SessionFileRepo.Save] replace session file")
	}
	return nil
}

// Clear removes the persisted session. Removing an absent file is a no-op.
func (r *SessionFileRepo) Clear() error {
	err := os.Remove(r.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[SessionFileRepo.Clear] remove session file")
	}
	return nil
}
