package server

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medilink/portal/appointments"
	"github.com/medilink/portal/internal/format"
)

// appointmentRow is one rendered table row.
type appointmentRow struct {
	AppointmentID int64
	PatientID     int64
	PatientName   string
	When          string
	Status        string
	Cancellable   bool
	Completable   bool
}

// listPageData backs the appointment table templates.
type listPageData struct {
	AppName    string
	Username   string
	Title      string
	Subtitle   string
	Rows       []appointmentRow
	Page       int
	PageSize   int
	PageSizes  []int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	BasePath     string
	Date         string
	CancelPath   string
	CompletePath string
}

// DashboardHandler renders the patient dashboard cards from the summary
// endpoint.
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("dashboard.html")
	if err != nil {
		panic("Failed to parse dashboard template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.appts.Summary(r.Context())
		if s.handleAPIError(w, r, err) {
			return
		}

		upcoming := "No upcoming appointment"
		if summary.UpcomingAppointmentDate != "" {
			upcoming = format.Timestamp(summary.UpcomingAppointmentDate)
		}

		user := s.store.CurrentUser()
		data := map[string]interface{}{
			"AppName":       s.config.GetAppName(),
			"Username":      user.Username,
			"PastCount":     summary.PastAppointmentCount,
			"FutureCount":   summary.FutureAppointmentCount,
			"Upcoming":      upcoming,
			"Appointments":  RouteAppointments,
			"Past":          RoutePastAppointments,
			"Slots":         RouteSlots,
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
		}
	}
}

// AppointmentsHandler lists the patient's current and future appointments.
func (s *Server) AppointmentsHandler() http.HandlerFunc {
	return s.patientListHandler("My Appointments",
		"List of all your current or future appointments", RouteAppointments,
		func(r *http.Request, page appointments.Page) (*appointments.PaginatedAppointments, error) {
			return s.appts.ByPatient(r.Context(), page)
		})
}

// PastAppointmentsHandler lists completed appointments.
func (s *Server) PastAppointmentsHandler() http.HandlerFunc {
	return s.patientListHandler("Past Appointments",
		"Appointments you have already attended", RoutePastAppointments,
		func(r *http.Request, page appointments.Page) (*appointments.PaginatedAppointments, error) {
			return s.appts.PastByPatient(r.Context(), page)
		})
}

// CancelledAppointmentsHandler lists cancelled appointments.
func (s *Server) CancelledAppointmentsHandler() http.HandlerFunc {
	return s.patientListHandler("Cancelled Appointments",
		"Appointments that were cancelled", RouteCancelledAppointments,
		func(r *http.Request, page appointments.Page) (*appointments.PaginatedAppointments, error) {
			return s.appts.CancelledByPatient(r.Context(), page)
		})
}

func (s *Server) patientListHandler(title, subtitle, basePath string,
	fetch func(*http.Request, appointments.Page) (*appointments.PaginatedAppointments, error)) http.HandlerFunc {

	tmpl, err := ParseTemplate("appointments.html")
	if err != nil {
		panic("Failed to parse appointments template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r)
		result, err := fetch(r, page)
		if s.handleAPIError(w, r, err) {
			return
		}

		data := s.listData(title, subtitle, basePath, result)
		data.CancelPath = RouteCancelAppointment
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render appointments template")
		}
	}
}

// ClinicianAppointmentsHandler lists a clinician's active appointments for a
// date, with cancel/complete actions.
func (s *Server) ClinicianAppointmentsHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("clinician_appointments.html")
	if err != nil {
		panic("Failed to parse clinician appointments template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = format.ISODate(time.Now())
		}

		page := parsePage(r)
		result, err := s.appts.ForDate(r.Context(), date, page)
		if s.handleAPIError(w, r, err) {
			return
		}

		data := s.listData("Clinician Appointments",
			"Active appointments for "+date, RouteClinicianAppointments, result)
		data.Date = date
		data.CancelPath = RouteClinicianCancel
		data.CompletePath = RouteCompleteAppointment
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render clinician appointments template")
		}
	}
}

// CancelAppointmentHandler cancels the selected appointment and returns to
// the listing it came from.
func (s *Server) CancelAppointmentHandler(returnPath string) http.HandlerFunc {
	return s.appointmentActionHandler(returnPath, "cancel",
		func(r *http.Request, appointmentID, patientID int64) error {
			_, err := s.appts.Cancel(r.Context(), appointmentID, patientID)
			return err
		})
}

// CompleteAppointmentHandler marks the selected appointment completed.
func (s *Server) CompleteAppointmentHandler() http.HandlerFunc {
	return s.appointmentActionHandler(RouteClinicianAppointments, "complete",
		func(r *http.Request, appointmentID, patientID int64) error {
			_, err := s.appts.Complete(r.Context(), appointmentID, patientID)
			return err
		})
}

func (s *Server) appointmentActionHandler(returnPath, action string,
	apply func(r *http.Request, appointmentID, patientID int64) error) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		appointmentID, err := strconv.ParseInt(r.FormValue("appointment_id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid appointment id", http.StatusBadRequest)
			return
		}
		patientID, err := strconv.ParseInt(r.FormValue("patient_id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid patient id", http.StatusBadRequest)
			return
		}

		if err := apply(r, appointmentID, patientID); s.handleAPIError(w, r, err) {
			return
		}

		log.Info().Int64("appointment_id", appointmentID).Str("action", action).
			Msg("appointment updated")
		http.Redirect(w, r, returnPath, http.StatusSeeOther)
	}
}

// slotsPageData backs the slot calendar template.
type slotsPageData struct {
	AppName  string
	Username string
	Date     string
	Days     []appointments.AvailableDay
	BookPath string
	Error    string
}

// SlotsHandler renders the bookable slot calendar for a date.
func (s *Server) SlotsHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("slots.html")
	if err != nil {
		panic("Failed to parse slots template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = format.ISODate(time.Now())
		}

		slots, err := s.appts.AvailableSlots(r.Context(), date)
		if s.handleAPIError(w, r, err) {
			return
		}

		user := s.store.CurrentUser()
		data := slotsPageData{
			AppName:  s.config.GetAppName(),
			Username: user.Username,
			Date:     date,
			Days:     slots.Days,
			BookPath: RouteBook,
			Error:    r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render slots template")
		}
	}
}

// BookHandler reserves the selected slot for the signed-in patient.
func (s *Server) BookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		date := r.FormValue("date")
		timeOfDay := r.FormValue("time")
		if date == "" || timeOfDay == "" {
			http.Error(w, "A slot date and time are required", http.StatusBadRequest)
			return
		}

		user := s.store.CurrentUser()
		booked, err := s.appts.Book(r.Context(), user.AppUserID, date, timeOfDay)
		if s.handleAPIError(w, r, err) {
			return
		}

		log.Info().Int64("appointment_id", booked.AppointmentID).
			Str("date", date).Str("time", timeOfDay).Msg("appointment booked")
		http.Redirect(w, r, RouteAppointments, http.StatusSeeOther)
	}
}

func (s *Server) listData(title, subtitle, basePath string, result *appointments.PaginatedAppointments) listPageData {
	rows := make([]appointmentRow, 0, len(result.Appointments))
	for _, appt := range result.Appointments {
		rows = append(rows, appointmentRow{
			AppointmentID: appt.AppointmentID,
			PatientID:     appt.PatientID,
			PatientName:   appt.PatientName,
			When:          format.DateTime(appt.AppointmentDate, appt.AppointmentTime),
			Status:        appt.Status.String(),
			Cancellable:   appt.Status == appointments.StatusActive,
			Completable:   appt.Status == appointments.StatusActive,
		})
	}

	user := s.store.CurrentUser()
	username := ""
	if user != nil {
		username = user.Username
	}

	totalPages := result.TotalPages()
	return listPageData{
		AppName:    s.config.GetAppName(),
		Username:   username,
		Title:      title,
		Subtitle:   subtitle,
		Rows:       rows,
		Page:       result.Page.Number,
		PageSize:   result.Page.Size,
		PageSizes:  appointments.PageSizes,
		TotalPages: totalPages,
		HasPrev:    result.Page.Number > 1,
		HasNext:    result.Page.Number < totalPages,
		PrevPage:   result.Page.Number - 1,
		NextPage:   result.Page.Number + 1,
		BasePath:   basePath,
	}
}

// parsePage reads PageNumber/PageSize query values, clamping the size to the
// offered choices and the page to a sane minimum.
func parsePage(r *http.Request) appointments.Page {
	page := appointments.DefaultPage

	if value := r.URL.Query().Get("page"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			page.Number = parsed
		}
	}
	if value := r.URL.Query().Get("size"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && slices.Contains(appointments.PageSizes, parsed) {
			page.Size = parsed
		}
	}
	return page
}
