package appointments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/medilink/portal/apiclient"
)

const (
	summaryPath        = "api/v1/appointment/summary"
	byPatientPath      = "api/v1/appointment/by-patient"
	availableSlotsPath = "api/v1/appointment/available-slots"
	forDatePath        = "api/v2/appointment/get-appointments"
	bookPath           = "api/v2/appointment/book-appointment"
	cancelPath         = "api/v2/appointment/cancel-appointment"
	completePath       = "api/v2/appointment/complete-appointment"

	totalCountHeader = "x-total-count"
)

// Fetcher is the authenticated request surface the service consumes.
type Fetcher interface {
	Do(ctx context.Context, method, path string, body []byte, opts ...apiclient.RequestOption) (*http.Response, error)
}

// Service exposes the appointment operations used by the portal views.
type Service struct {
	client Fetcher
}

// NewService creates an appointment service over the given client.
func NewService(client Fetcher) (*Service, error) {
	if client == nil {
		return nil, errors.New("[NewService] api client is required")
	}
	return &Service{client: client}, nil
}

// Summary fetches the dashboard counters for the signed-in patient.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := s.getJSON(ctx, summaryPath, &summary); err != nil {
		return nil, errors.Wrap(err, "[Service.Summary]")
	}
	return &summary, nil
}

// ByPatient lists the signed-in patient's current and future appointments.
func (s *Service) ByPatient(ctx context.Context, page Page) (*PaginatedAppointments, error) {
	return s.listByPatient(ctx, page, nil)
}

// PastByPatient lists the patient's completed appointments.
func (s *Service) PastByPatient(ctx context.Context, page Page) (*PaginatedAppointments, error) {
	status := StatusCompleted
	return s.listByPatient(ctx, page, &status)
}

// CancelledByPatient lists the patient's cancelled appointments.
func (s *Service) CancelledByPatient(ctx context.Context, page Page) (*PaginatedAppointments, error) {
	status := StatusCancelled
	return s.listByPatient(ctx, page, &status)
}

func (s *Service) listByPatient(ctx context.Context, page Page, status *Status) (*PaginatedAppointments, error) {
	query := url.Values{}
	query.Set("PageNumber", strconv.Itoa(page.Number))
	query.Set("PageSize", strconv.Itoa(page.Size))
	if status != nil {
		query.Set("Status", strconv.Itoa(int(*status)))
	}

	resp, err := s.client.Do(ctx, http.MethodGet, byPatientPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.listByPatient]")
	}
	return decodePage(resp, page)
}

// ForDate lists a clinician's active appointments on the given ISO date.
func (s *Service) ForDate(ctx context.Context, date string, page Page) (*PaginatedAppointments, error) {
	query := url.Values{}
	query.Set("Date", date)
	query.Set("PageNumber", strconv.Itoa(page.Number))
	query.Set("PageSize", strconv.Itoa(page.Size))
	query.Set("Status", strconv.Itoa(int(StatusActive)))

	resp, err := s.client.Do(ctx, http.MethodGet, forDatePath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ForDate]")
	}
	return decodePage(resp, page)
}

// AvailableSlots fetches the bookable slot calendar starting at the given
// ISO date.
func (s *Service) AvailableSlots(ctx context.Context, date string) (*AvailableSlotsResponse, error) {
	query := url.Values{}
	query.Set("Date", date)

	var slots AvailableSlotsResponse
	if err := s.getJSON(ctx, availableSlotsPath+"?"+query.Encode(), &slots); err != nil {
		return nil, errors.Wrap(err, "[Service.AvailableSlots]")
	}
	return &slots, nil
}

type bookRequest struct {
	PatientID       int64  `json:"patientId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
}

// Book reserves the given slot for the patient and returns the created
// appointment.
func (s *Service) Book(ctx context.Context, patientID int64, date, timeOfDay string) (*Appointment, error) {
	return s.postAppointment(ctx, bookPath, bookRequest{
		PatientID:       patientID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
	}, "[Service.Book]")
}

type appointmentActionRequest struct {
	ExistingAppointmentID int64 `json:"existingAppointmentId"`
	PatientID             int64 `json:"patientId"`
}

// Cancel cancels an existing appointment and returns its updated state.
func (s *Service) Cancel(ctx context.Context, appointmentID, patientID int64) (*Appointment, error) {
	return s.postAppointment(ctx, cancelPath, appointmentActionRequest{
		ExistingAppointmentID: appointmentID,
		PatientID:             patientID,
	}, "[Service.Cancel]")
}

// Complete marks an existing appointment as completed and returns its
// updated state.
func (s *Service) Complete(ctx context.Context, appointmentID, patientID int64) (*Appointment, error) {
	return s.postAppointment(ctx, completePath, appointmentActionRequest{
		ExistingAppointmentID: appointmentID,
		PatientID:             patientID,
	}, "[Service.Complete]")
}

func (s *Service) postAppointment(ctx context.Context, path string, body interface{}, wrapTag string) (*Appointment, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, wrapTag)
	}

	resp, err := s.client.Do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, errors.Wrap(err, wrapTag)
	}
	defer resp.Body.Close()

	var appointment Appointment
	if err := json.NewDecoder(resp.Body).Decode(&appointment); err != nil {
		return nil, errors.Wrap(err, wrapTag+" decode response")
	}
	return &appointment, nil
}

func (s *Service) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := s.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// decodePage reads a page of appointments, taking the total from the
// x-total-count header and falling back to the page length when absent.
func decodePage(resp *http.Response, page Page) (*PaginatedAppointments, error) {
	defer resp.Body.Close()

	var items []Appointment
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "decode appointments page")
	}

	total := len(items)
	if header := resp.Header.Get(totalCountHeader); header != "" {
		if parsed, err := strconv.Atoi(header); err == nil {
			total = parsed
		}
	}

	return &PaginatedAppointments{
		Appointments: items,
		TotalCount:   total,
		Page:         page,
	}, nil
}
