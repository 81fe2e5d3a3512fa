// Package repofakes provides an in-memory session repo for tests.
package repofakes

import (
	"sync"

	"github.com/medilink/portal/sessions"
)

// FakeSessionRepo is an in-memory Repo implementation. Error fields, when
// set, are returned by the corresponding operation so failure paths can be
// exercised.
type FakeSessionRepo struct {
	mu      sync.Mutex
	session *sessions.Session

	LoadErr  error
	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

// NewFakeSessionRepo creates an empty fake repo.
func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (f *FakeSessionRepo) Load() (*sessions.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	return f.session.Clone(), nil
}

func (f *FakeSessionRepo) Save(session *sessions.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SaveCalls++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.session = session.Clone()
	return nil
}

func (f *FakeSessionRepo) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.session = nil
	return nil
}

// Stored returns the currently persisted session without error injection.
func (f *FakeSessionRepo) Stored() *sessions.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.Clone()
}
