package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/medilink/portal/sessions"
)

const (
	loginPath   = "/Auth/login"
	refreshPath = "/Auth/Refresh"

	defaultTimeout = 15 * time.Second
)

// Store is the single source of truth for "who is signed in" and the only
// authority permitted to create, refresh, or destroy the session. Every
// mutation writes through to the Repo before updating in-memory state.
//
// Concurrent refresh attempts are coalesced: goroutines that hit a 401 at
// the same time share one in-flight refresh call instead of racing each
// other and overwriting freshly minted tokens with stale ones.
type Store struct {
	authBase   string
	httpClient *http.Client
	repo       Repo

	mu      sync.RWMutex
	current *sessions.Session

	refreshGroup singleflight.Group
}

// StoreOption modifies a Store during construction.
type StoreOption func(*Store)

// WithHTTPClient sets a custom http.Client, primarily for testing and for
// deployments that need custom transports.
func WithHTTPClient(hc *http.Client) StoreOption {
	return func(s *Store) {
		s.httpClient = hc
	}
}

// NewStore creates a session store backed by the given repo, restoring any
// persisted session so a restart does not force re-authentication.
func NewStore(authBase string, repo Repo, options ...StoreOption) (*Store, error) {
	if authBase == "" {
		return nil, errors.New("[NewStore] auth base URL is required")
	}
	if repo == nil {
		return nil, errors.New("[NewStore] session repo is required")
	}

	store := &Store{
		authBase: strings.TrimRight(authBase, "/"),
		repo:     repo,
	}
	for _, opt := range options {
		opt(store)
	}
	if store.httpClient == nil {
		store.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	restored, err := repo.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[NewStore] failed to load persisted session")
	}
	store.current = restored

	return store, nil
}

type loginRequest struct {
	UserCode string `json:"UserCode"`
	Password string `json:"Password"`
}

type loginResponse struct {
	AccessToken            string `json:"accessToken"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiryTime string `json:"refreshTokenExpiryTime"`
	AppUserID              int64  `json:"appUserId"`
}

type refreshRequest struct {
	UserID       int64  `json:"UserId"`
	RefreshToken string `json:"RefreshToken"`
}

type refreshResponse struct {
	Success                bool   `json:"success"`
	AccessToken            string `json:"accessToken"`
	RefreshToken           string `json:"refreshToken"`
	RefreshTokenExpiryTime string `json:"refreshTokenExpiryTime"`
}

// SignIn submits credentials to the login endpoint and, on success,
// establishes a new session, replacing any previous one unconditionally.
// The submitted userCode becomes the display name; the endpoint does not
// return one. A rejection leaves existing session state untouched and
// returns an *AuthenticationFailedError carrying the server message.
func (s *Store) SignIn(ctx context.Context, userCode, password string) (*sessions.Session, error) {
	body, err := json.Marshal(loginRequest{UserCode: userCode, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "[Store.SignIn] marshal login request")
	}

	resp, err := s.post(ctx, s.authBase+loginPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.SignIn] login request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthenticationFailedError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "[Store.SignIn] decode login response")
	}
	if payload.AccessToken == "" || payload.RefreshToken == "" ||
		payload.RefreshTokenExpiryTime == "" || payload.AppUserID == 0 {
		return nil, errors.New("[Store.SignIn] login response missing required fields")
	}

	session := &sessions.Session{
		AppUserID:              payload.AppUserID,
		Username:               userCode,
		AccessToken:            payload.AccessToken,
		RefreshToken:           payload.RefreshToken,
		RefreshTokenExpiryTime: payload.RefreshTokenExpiryTime,
		Roles:                  sessions.RolesFromToken(payload.AccessToken),
	}

	if err := s.repo.Save(session); err != nil {
		return nil, errors.Wrap(err, "[Store.SignIn] persist session")
	}
	s.setCurrent(session)

	log.Info().Int64("app_user_id", session.AppUserID).Str("username", session.Username).
		Msg("signed in")
	return session.Clone(), nil
}

// Refresh exchanges the stored refresh token for a new access token and
// returns it. Every failure mode ends in sign-out and an empty token: no
// session, no refresh token, a non-2xx response, a malformed body, a false
// success flag, or a network-level error. The returned error is always nil
// for this implementation; failures never propagate past the store.
//
// Concurrent callers share a single in-flight refresh and all receive the
// token it minted.
func (s *Store) Refresh(ctx context.Context) (string, error) {
	token, _, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx), nil
	})
	return token.(string), nil
}

func (s *Store) refresh(ctx context.Context) string {
	session, err := s.repo.Load()
	if err != nil || session == nil || session.RefreshToken == "" || session.AppUserID == 0 {
		log.Warn().Err(err).Msg("refresh requested without a refreshable session, signing out")
		s.SignOut()
		return ""
	}

	body, err := json.Marshal(refreshRequest{UserID: session.AppUserID, RefreshToken: session.RefreshToken})
	if err != nil {
		s.SignOut()
		return ""
	}

	resp, err := s.post(ctx, s.authBase+refreshPath, body)
	if err != nil {
		log.Warn().Err(err).Msg("token refresh request failed, signing out")
		s.SignOut()
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Msg("token refresh rejected, signing out")
		s.SignOut()
		return ""
	}

	var payload refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("malformed refresh response, signing out")
		s.SignOut()
		return ""
	}
	if !payload.Success || payload.AccessToken == "" || payload.RefreshToken == "" ||
		payload.RefreshTokenExpiryTime == "" {
		log.Warn().Bool("success", payload.Success).Msg("refresh response incomplete, signing out")
		s.SignOut()
		return ""
	}

	// Replace the credentials in place; identity fields are kept.
	session.AccessToken = payload.AccessToken
	session.RefreshToken = payload.RefreshToken
	session.RefreshTokenExpiryTime = payload.RefreshTokenExpiryTime

	if err := s.repo.Save(session); err != nil {
		log.Error().Err(err).Msg("failed to persist refreshed session, signing out")
		s.SignOut()
		return ""
	}
	s.setCurrent(session)

	log.Debug().Int64("app_user_id", session.AppUserID).Msg("access token refreshed")
	return session.AccessToken
}

// SignOut clears the persisted and in-memory session. Safe to call when no
// session exists.
func (s *Store) SignOut() {
	if err := s.repo.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear persisted session")
	}
	s.setCurrent(nil)
}

// CurrentUser returns a snapshot of the signed-in session, or nil when
// signed out.
func (s *Store) CurrentUser() *sessions.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// AccessToken returns the current access token, or "" when signed out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

func (s *Store) setCurrent(session *sessions.Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
}

func (s *Store) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.httpClient.Do(req)
}

// serverMessage extracts the optional {message} field from a failure body.
func serverMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}
