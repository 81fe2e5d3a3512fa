package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET /static/", http.StripPrefix("/static/", FileServerHandler()))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteSplash, ChainMiddleware(s.SplashHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RoutePatientLogin, ChainMiddleware(s.LoginPageHandler(loginRolePatient), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RoutePatientLogin, ChainMiddleware(s.LoginSubmissionHandler(loginRolePatient), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteClinicianLogin, ChainMiddleware(s.LoginPageHandler(loginRoleClinician), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteClinicianLogin, ChainMiddleware(s.LoginSubmissionHandler(loginRoleClinician), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// PATIENT VIEWS (require a session)
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteAppointments, ChainMiddleware(s.AppointmentsHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RoutePastAppointments, ChainMiddleware(s.PastAppointmentsHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteCancelledAppointments, ChainMiddleware(s.CancelledAppointmentsHandler(), s.HTMLMiddleWare(s.RequireRole(RoleUser, RoleAdmin))...))
	s.RegisterRouteHandler("POST "+RouteCancelAppointment, ChainMiddleware(s.CancelAppointmentHandler(RouteAppointments), s.HTMLMiddleWare(s.RequireSession())...))

	// SLOT BROWSING / BOOKING
	s.RegisterRouteHandler("GET "+RouteSlots, ChainMiddleware(s.SlotsHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteBook, ChainMiddleware(s.BookHandler(), s.HTMLMiddleWare(s.RequireSession())...))

	// CLINICIAN VIEWS (role gated)
	s.RegisterRouteHandler("GET "+RouteClinicianAppointments, ChainMiddleware(s.ClinicianAppointmentsHandler(), s.HTMLMiddleWare(s.RequireRole(RoleClinician, RoleAdmin))...))
	s.RegisterRouteHandler("POST "+RouteClinicianCancel, ChainMiddleware(s.CancelAppointmentHandler(RouteClinicianAppointments), s.HTMLMiddleWare(s.RequireRole(RoleClinician, RoleAdmin))...))
	s.RegisterRouteHandler("POST "+RouteCompleteAppointment, ChainMiddleware(s.CompleteAppointmentHandler(), s.HTMLMiddleWare(s.RequireRole(RoleClinician, RoleAdmin))...))

	s.RegisterRouteHandler("GET "+RouteMetrics, s.MetricsHandler())
}
