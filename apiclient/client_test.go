package apiclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medilink/portal/apiclient"
)

// fakeSource is a scriptable SessionSource.
type fakeSource struct {
	mu sync.Mutex

	token        string
	refreshToken string
	refreshErr   error

	refreshCalls int
	signOutCalls int
}

func (f *fakeSource) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSource) Refresh(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.token = f.refreshToken
	return f.refreshToken, nil
}

func (f *fakeSource) SignOut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	f.token = ""
}

type recordedRequest struct {
	path          string
	authorization string
	contentType   string
	requestID     string
	body          string
}

// scriptedServer responds with the queued status codes in order and records
// every request it sees.
func scriptedServer(t *testing.T, statuses []int, responseBody string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			path:          r.URL.RequestURI(),
			authorization: r.Header.Get("Authorization"),
			contentType:   r.Header.Get("Content-Type"),
			requestID:     r.Header.Get("X-Request-ID"),
			body:          string(body),
		})
		status := http.StatusOK
		if len(requests) <= len(statuses) {
			status = statuses[len(requests)-1]
		}
		mu.Unlock()
		w.WriteHeader(status)
		if status >= 200 && status < 300 {
			io.WriteString(w, responseBody)
		} else {
			io.WriteString(w, "failure detail")
		}
	}))
	return srv, &requests
}

func TestClient_Do(t *testing.T) {
	t.Run("signed out means no request at all", func(t *testing.T) {
		srv, requests := scriptedServer(t, nil, "{}")
		defer srv.Close()

		source := &fakeSource{}
		client := apiclient.New(srv.URL, source)

		_, err := client.Get(context.Background(), "/api/v1/appointment/summary")
		require.ErrorIs(t, err, apiclient.ErrNoCredential)
		require.Empty(t, *requests)
		require.Equal(t, 1, source.signOutCalls)
		require.Zero(t, source.refreshCalls)
	})

	t.Run("success passes the response through", func(t *testing.T) {
		srv, requests := scriptedServer(t, nil, `{"ok":true}`)
		defer srv.Close()

		source := &fakeSource{token: "access-1"}
		client := apiclient.New(srv.URL, source)

		resp, err := client.Get(context.Background(), "api/v1/appointment/summary")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":true}`, string(body))

		require.Len(t, *requests, 1)
		sent := (*requests)[0]
		require.Equal(t, "/api/v1/appointment/summary", sent.path)
		require.Equal(t, "Bearer access-1", sent.authorization)
		require.Equal(t, "application/json", sent.contentType)
		require.NotEmpty(t, sent.requestID)
		require.Zero(t, source.refreshCalls)
	})

	t.Run("401 refreshes once and retries with the new token", func(t *testing.T) {
		srv, requests := scriptedServer(t, []int{http.StatusUnauthorized}, `[]`)
		defer srv.Close()

		source := &fakeSource{token: "access-1", refreshToken: "access-2"}
		client := apiclient.New(srv.URL, source)

		resp, err := client.Get(context.Background(), "/api/v1/appointment/by-patient")
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, 1, source.refreshCalls)
		require.Len(t, *requests, 2)
		require.Equal(t, "Bearer access-1", (*requests)[0].authorization)
		require.Equal(t, "Bearer access-2", (*requests)[1].authorization)
	})

	t.Run("401 after retry is a plain API error", func(t *testing.T) {
		srv, requests := scriptedServer(t, []int{http.StatusUnauthorized, http.StatusUnauthorized}, "")
		defer srv.Close()

		source := &fakeSource{token: "access-1", refreshToken: "access-2"}
		client := apiclient.New(srv.URL, source)

		_, err := client.Get(context.Background(), "/whatever")
		require.Error(t, err)

		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

		// One refresh, not two.
		require.Equal(t, 1, source.refreshCalls)
		require.Len(t, *requests, 2)
	})

	t.Run("failed refresh is session expiry, no retry", func(t *testing.T) {
		srv, requests := scriptedServer(t, []int{http.StatusUnauthorized}, "")
		defer srv.Close()

		source := &fakeSource{token: "access-1", refreshToken: ""}
		client := apiclient.New(srv.URL, source)

		_, err := client.Get(context.Background(), "/whatever")
		require.ErrorIs(t, err, apiclient.ErrSessionExpired)
		require.Len(t, *requests, 1)
	})

	t.Run("refresh operation error surfaces as refresh failure", func(t *testing.T) {
		srv, requests := scriptedServer(t, []int{http.StatusUnauthorized}, "")
		defer srv.Close()

		source := &fakeSource{token: "access-1", refreshErr: errors.New("store exploded")}
		client := apiclient.New(srv.URL, source)

		_, err := client.Get(context.Background(), "/whatever")
		require.ErrorIs(t, err, apiclient.ErrRefreshFailed)
		require.Len(t, *requests, 1)
	})

	t.Run("403 is a typed permission error", func(t *testing.T) {
		srv, _ := scriptedServer(t, []int{http.StatusForbidden}, "")
		defer srv.Close()

		source := &fakeSource{token: "access-1"}
		client := apiclient.New(srv.URL, source)

		_, err := client.Get(context.Background(), "/admin-only")
		require.ErrorIs(t, err, apiclient.ErrForbidden)
		require.Zero(t, source.refreshCalls)
	})

	t.Run("other failures carry status and body", func(t *testing.T) {
		srv, requests := scriptedServer(t, []int{http.StatusBadGateway}, "")
		defer srv.Close()

		source := &fakeSource{token: "access-1"}
		client := apiclient.New(srv.URL, source)

		_, err := client.Get(context.Background(), "/whatever")
		var apiErr *apiclient.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Equal(t, "failure detail", apiErr.Body)
		require.Len(t, *requests, 1)
		require.Zero(t, source.refreshCalls)
	})

	t.Run("post forwards the body on both attempts", func(t *testing.T) {
		srv, requests := scriptedServer(t, []int{http.StatusUnauthorized}, "{}")
		defer srv.Close()

		source := &fakeSource{token: "access-1", refreshToken: "access-2"}
		client := apiclient.New(srv.URL, source)

		resp, err := client.Post(context.Background(), "/api/v2/appointment/cancel-appointment",
			[]byte(`{"existingAppointmentId":7,"patientId":42}`))
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, *requests, 2)
		require.Equal(t, (*requests)[0].body, (*requests)[1].body)
		require.JSONEq(t, `{"existingAppointmentId":7,"patientId":42}`, (*requests)[1].body)
	})

	t.Run("caller headers are added but never override auth", func(t *testing.T) {
		srv, requests := scriptedServer(t, nil, "{}")
		defer srv.Close()

		source := &fakeSource{token: "access-1"}
		client := apiclient.New(srv.URL, source)

		resp, err := client.Get(context.Background(), "/whatever",
			apiclient.WithHeader("Accept", "application/json"),
			apiclient.WithHeader("Authorization", "spoofed"))
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, "Bearer access-1", (*requests)[0].authorization)
	})
}

func TestClient_URLResolution(t *testing.T) {
	srv, requests := scriptedServer(t, nil, "{}")
	defer srv.Close()

	t.Run("relative paths join with a single slash", func(t *testing.T) {
		for _, path := range []string{"api/v1/thing", "/api/v1/thing"} {
			source := &fakeSource{token: "access-1"}
			client := apiclient.New(srv.URL+"/", source)

			resp, err := client.Get(context.Background(), path)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, "/api/v1/thing", (*requests)[len(*requests)-1].path)
		}
	})

	t.Run("absolute URLs are used verbatim", func(t *testing.T) {
		source := &fakeSource{token: "access-1"}
		client := apiclient.New("http://unused.invalid", source)

		resp, err := client.Get(context.Background(), srv.URL+"/elsewhere")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, "/elsewhere", (*requests)[len(*requests)-1].path)
	})
}
