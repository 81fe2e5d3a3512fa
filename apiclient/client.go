// Package apiclient provides uniform authenticated access to the remote
// MediLink API with one automatic refresh-and-retry attempt on credential
// expiry.
package apiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SessionSource is the narrow view of the session store the client needs:
// read the current token, refresh it once on rejection, and force sign-out.
type SessionSource interface {
	// AccessToken returns the current access token, or "" when signed out.
	AccessToken() string

	// Refresh mints a new access token, returning "" when the session could
	// not be refreshed (it has then already been cleared). A non-nil error
	// means the refresh operation itself failed outright.
	Refresh(ctx context.Context) (string, error)

	// SignOut clears the session unconditionally.
	SignOut()
}

// Client wraps outbound HTTP calls, injecting the bearer token and
// performing exactly one refresh-and-retry cycle on a 401.
type Client struct {
	baseURL    string
	store      SessionSource
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client resolving relative paths against baseURL and reading
// credentials from store.
func New(baseURL string, store SessionSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Each call walks a fixed progression: resolve and send; on a 401, refresh
// and re-send once; then judge the final response. The retry response is
// final whatever it is, so a second 401 surfaces as an *APIError rather
// than triggering another refresh.
//
// Do returns the raw 2xx response for the caller to decode; the caller owns
// closing its body. Every failure path returns one of the package's typed
// errors.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, opts ...RequestOption) (*http.Response, error) {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	target := c.resolveURL(path)

	token := c.store.AccessToken()
	if token == "" {
		// Equivalent to signed out: do not issue the request.
		c.store.SignOut()
		return nil, ErrNoCredential
	}

	resp, err := c.send(ctx, method, target, body, token, options.headers)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.Do] %s %s", method, target)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drainAndClose(resp.Body)

		newToken, refreshErr := c.store.Refresh(ctx)
		if refreshErr != nil {
			log.Warn().Err(refreshErr).Msg("token refresh errored")
			return nil, errors.Wrap(ErrRefreshFailed, refreshErr.Error())
		}
		if newToken == "" {
			return nil, ErrSessionExpired
		}

		log.Debug().Str("path", path).Msg("token refreshed, retrying request")
		resp, err = c.send(ctx, method, target, body, newToken, options.headers)
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.Do] retry %s %s", method, target)
		}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp, nil
	case resp.StatusCode == http.StatusForbidden:
		drainAndClose(resp.Body)
		return nil, ErrForbidden
	default:
		snippet := readSnippet(resp.Body)
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: snippet}
	}
}

// Get issues an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body []byte, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

func (c *Client) send(ctx context.Context, method, url string, body []byte, token string, headers http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	// The client owns these two headers regardless of caller input.
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.httpClient.Do(req)
}

// resolveURL uses fully-qualified addresses verbatim and joins relative
// paths to the base with exactly one separating slash.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	body.Close()
}

func readSnippet(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 1024))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
