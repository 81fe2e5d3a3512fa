package server

import (
	"html/template"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/medilink/portal/apiclient"
	"github.com/medilink/portal/auth"
)

type loginRole string

const (
	loginRolePatient   loginRole = "patient"
	loginRoleClinician loginRole = "clinician"
)

// LoginPageData contains data for rendering a login form.
type LoginPageData struct {
	AppName  string
	Title    string
	Action   string
	Error    string
	UserCode string // Preserve the entered code on error
}

// IndexHandler sends signed-in users to their dashboard and everyone else
// to the splash.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.store.CurrentUser() != nil {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteSplash, http.StatusSeeOther)
	}
}

// SplashHandler renders the role-pick splash page.
func (s *Server) SplashHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("splash.html")
	if err != nil {
		panic("Failed to parse splash template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName":       s.config.GetAppName(),
			"PatientLogin":  RoutePatientLogin,
			"ClinicianPath": RouteClinicianLogin,
			"Error":         r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render splash template")
		}
	}
}

// LoginPageHandler renders the sign-in form for the given role.
func (s *Server) LoginPageHandler(role loginRole) http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := s.loginPageData(role)
		data.Error = r.URL.Query().Get("error")
		data.UserCode = r.URL.Query().Get("usercode")

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the sign-in form. A rejection re-renders
// the form with the server-provided message inline.
func (s *Server) LoginSubmissionHandler(role loginRole) http.HandlerFunc {
	tmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		userCode := r.FormValue("usercode")
		password := r.FormValue("password")

		data := s.loginPageData(role)
		data.UserCode = userCode

		if userCode == "" || password == "" {
			data.Error = "User code and password are required"
			renderLogin(w, tmpl, data)
			return
		}

		if _, err := s.store.SignIn(r.Context(), userCode, password); err != nil {
			data.Error = signInErrorMessage(err)
			renderLogin(w, tmpl, data)
			return
		}

		if role == loginRoleClinician {
			http.Redirect(w, r, RouteClinicianAppointments, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// LogoutHandler clears the session and returns to the splash.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.SignOut()
		http.Redirect(w, r, RouteSplash, http.StatusSeeOther)
	}
}

func (s *Server) loginPageData(role loginRole) LoginPageData {
	data := LoginPageData{
		AppName: s.config.GetAppName(),
		Title:   "Patient Login",
		Action:  RoutePatientLogin,
	}
	if role == loginRoleClinician {
		data.Title = "Clinician Login"
		data.Action = RouteClinicianLogin
	}
	return data
}

func renderLogin(w http.ResponseWriter, tmpl *template.Template, data LoginPageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render login template")
		http.Error(w, "Failed to render login page", http.StatusInternalServerError)
	}
}

// signInErrorMessage surfaces the server-provided rejection message when one
// exists, else a generic line.
func signInErrorMessage(err error) string {
	var authErr *auth.AuthenticationFailedError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	log.Err(err).Msg("sign-in failed")
	return "Login failed. Please try again."
}

// handleAPIError maps client failures onto view behavior: session loss
// redirects to the splash, permission failures render a 403, and anything
// else surfaces as an in-context error message. Returns true when the
// response has been written.
func (s *Server) handleAPIError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, apiclient.ErrNoCredential),
		errors.Is(err, apiclient.ErrSessionExpired),
		errors.Is(err, apiclient.ErrRefreshFailed):
		http.Redirect(w, r, RouteSplash+"?error=Session+expired.+Please+log+in+again.", http.StatusSeeOther)
		return true
	case errors.Is(err, apiclient.ErrForbidden):
		http.Error(w, "You do not have permission to access this resource.", http.StatusForbidden)
		return true
	default:
		log.Err(err).Str("path", r.URL.Path).Msg("api request failed")
		http.Error(w, "An API error occurred.", http.StatusBadGateway)
		return true
	}
}
