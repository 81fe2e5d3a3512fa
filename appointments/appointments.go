// Package appointments provides typed access to the remote appointment API.
package appointments

// Status is the lifecycle state of an appointment as encoded by the API.
type Status int

const (
	StatusInactive  Status = 0
	StatusActive    Status = 1
	StatusCompleted Status = 2
	StatusCancelled Status = 3
)

// String returns the display name for the status.
func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "Inactive"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Appointment mirrors the API's appointment resource. AppointmentDate is an
// ISO date; AppointmentTime is an HH:MM:SS clock time.
type Appointment struct {
	AppointmentID   int64   `json:"appointmentId"`
	PatientID       int64   `json:"patientId"`
	PatientName     string  `json:"patientName,omitempty"`
	AppointmentDate string  `json:"appointmentDate"`
	AppointmentTime string  `json:"appointmentTime"`
	CreatedAt       *string `json:"createdAt"`
	Status          Status  `json:"status"`
	CancelledDate   string  `json:"cancelledDate,omitempty"`
}

// Summary backs the patient dashboard cards.
type Summary struct {
	PastAppointmentCount    int    `json:"pastAppointmentCount"`
	FutureAppointmentCount  int    `json:"futureAppointmentCount"`
	UpcomingAppointmentDate string `json:"upcomingAppointmentDate,omitempty"`
}

// Page selects one page of a listing. Size is one of PageSizes.
type Page struct {
	Number int
	Size   int
}

// PageSizes are the page-size choices offered by the listing views.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPage is the first page at the default size.
var DefaultPage = Page{Number: 1, Size: 10}

// PaginatedAppointments is one page of results plus the total row count the
// API reports in the x-total-count header.
type PaginatedAppointments struct {
	Appointments []Appointment
	TotalCount   int
	Page         Page
}

// TotalPages returns the number of pages at the current page size.
func (p PaginatedAppointments) TotalPages() int {
	if p.Page.Size <= 0 {
		return 0
	}
	return (p.TotalCount + p.Page.Size - 1) / p.Page.Size
}

// Slot is a single bookable time within a day.
type Slot struct {
	Time        string `json:"time"`
	IsAvailable bool   `json:"isAvailable"`
}

// SlotGroup is a named block of slots, e.g. "Morning".
type SlotGroup struct {
	GroupName string `json:"groupName"`
	Slots     []Slot `json:"slots"`
}

// AvailableDay lists the slot groups for one date.
type AvailableDay struct {
	Date           string      `json:"date"`
	AvailableSlots []SlotGroup `json:"availableSlots"`
}

// AvailableSlotsResponse is the slot calendar returned by the API.
type AvailableSlotsResponse struct {
	Days []AvailableDay `json:"days"`
}
