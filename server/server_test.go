package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/medilink/portal/auth/repofakes"
	"github.com/medilink/portal/server"
)

// testConfig satisfies config.Config without touching viper state.
type testConfig struct {
	apiBaseURL string
}

func (c testConfig) GetPort() string        { return ":0" }
func (c testConfig) GetAppName() string     { return "MediLink Portal" }
func (c testConfig) GetEnv() string         { return "PROD" }
func (c testConfig) GetSessionFile() string { return "" }
func (c testConfig) GetAPIBaseURL() string  { return c.apiBaseURL }
func (c testConfig) GetAuthBaseURL() string { return c.apiBaseURL }

func roleToken(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// fakeAPI serves the auth and appointment endpoints the portal talks to.
func fakeAPI(t *testing.T, role string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /Auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			UserCode string `json:"UserCode"`
			Password string `json:"Password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid user code or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accessToken":            roleToken(t, role),
			"refreshToken":           "refresh-1",
			"refreshTokenExpiryTime": "2026-12-01T00:00:00Z",
			"appUserId":              42,
		})
	})

	mux.HandleFunc("GET /api/v1/appointment/summary", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pastAppointmentCount":    3,
			"futureAppointmentCount":  2,
			"upcomingAppointmentDate": "2026-09-15T10:30:00",
		})
	})

	mux.HandleFunc("GET /api/v1/appointment/by-patient", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-total-count", "1")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"appointmentId": 7, "patientId": 42, "appointmentDate": "2026-09-10", "appointmentTime": "10:00:00", "status": 1},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newPortal(t *testing.T, role string) *server.Server {
	t.Helper()
	api := fakeAPI(t, role)
	portal, err := server.New(testConfig{apiBaseURL: api.URL}, repofakes.NewFakeSessionRepo())
	require.NoError(t, err)
	return portal
}

func signIn(t *testing.T, portal *server.Server, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("usercode", "pat01")
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/patient-login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	portal.ServeHTTP(rec, req)
	return rec
}

func TestServer_ProtectedRoutesRedirectWhenSignedOut(t *testing.T) {
	portal := newPortal(t, "User")

	for _, path := range []string{"/dashboard", "/appointments", "/appointments/past", "/slots"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		portal.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestServer_LoginFlow(t *testing.T) {
	t.Run("rejection renders the server message inline", func(t *testing.T) {
		portal := newPortal(t, "User")

		rec := signIn(t, portal, "wrong")
		require.Equal(t, http.StatusOK, rec.Code)

		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), "Invalid user code or password")
		require.Contains(t, string(body), `value="pat01"`)
	})

	t.Run("success redirects to the dashboard", func(t *testing.T) {
		portal := newPortal(t, "User")

		rec := signIn(t, portal, "correct")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		dash := httptest.NewRecorder()
		portal.ServeHTTP(dash, req)
		require.Equal(t, http.StatusOK, dash.Code)
		require.Contains(t, dash.Body.String(), "pat01")
	})

	t.Run("empty credentials never reach the API", func(t *testing.T) {
		portal := newPortal(t, "User")

		rec := signIn(t, portal, "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "required")
	})
}

func TestServer_RoleGating(t *testing.T) {
	t.Run("patient cannot open clinician views", func(t *testing.T) {
		portal := newPortal(t, "User")
		signIn(t, portal, "correct")

		req := httptest.NewRequest(http.MethodGet, "/clinician/appointments", nil)
		rec := httptest.NewRecorder()
		portal.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("patient role opens patient listings", func(t *testing.T) {
		portal := newPortal(t, "User")
		signIn(t, portal, "correct")

		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		rec := httptest.NewRecorder()
		portal.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "My Appointments")
	})
}

func TestServer_LogoutClearsSession(t *testing.T) {
	portal := newPortal(t, "User")
	signIn(t, portal, "correct")
	require.NotNil(t, portal.Store().CurrentUser())

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	portal.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.Nil(t, portal.Store().CurrentUser())
}
