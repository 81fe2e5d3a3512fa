package server

// Route paths for the portal views.
const (
	RouteSplash         = "/login"
	RoutePatientLogin   = "/patient-login"
	RouteClinicianLogin = "/clinician-login"
	RouteLogout         = "/logout"

	RouteDashboard             = "/dashboard"
	RouteAppointments          = "/appointments"
	RoutePastAppointments      = "/appointments/past"
	RouteCancelledAppointments = "/appointments/cancelled"
	RouteCancelAppointment     = "/appointments/cancel"

	RouteClinicianAppointments = "/clinician/appointments"
	RouteCompleteAppointment   = "/clinician/appointments/complete"
	RouteClinicianCancel       = "/clinician/appointments/cancel"

	RouteSlots = "/slots"
	RouteBook  = "/slots/book"

	RouteMetrics = "/metrics"
)

const contentTypeHTML = "text/html; charset=utf-8"
