package appointments

import (
	"strings"
	"time"
)

// VisitStatus tracks whether the patient has confirmed they will attend.
type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitConfirmed VisitStatus = "confirmed"
	VisitCancelled VisitStatus = "cancelled"
)

// ParseVisitStatus validates a status string.
func ParseVisitStatus(s string) (VisitStatus, error) {
	switch v := VisitStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case VisitPending, VisitConfirmed, VisitCancelled:
		return v, nil
	default:
		return "", ErrInvalidVisitStatus
	}
}

// Appointment is a booked visit.
type Appointment struct {
	ID                  string      `json:"id"`
	PatientID           string      `json:"patient_id"`
	Provider            string      `json:"provider"`
	ScheduledAt         time.Time   `json:"scheduled_at"`
	DurationMinutes     int         `json:"duration_minutes"`
	Status              string      `json:"status"`
	IntakeFormCompleted bool        `json:"intake_form_completed"`
	VisitStatus         VisitStatus `json:"visit_status"`
	CreatedAt           time.Time   `json:"created_at"`
}

// StatusConfirmed is the record status of every newly created appointment.
const StatusConfirmed = "confirmed"

// CreateAppointmentRequest describes a visit to record after its slots were reserved.
type CreateAppointmentRequest struct {
	PatientID       string
	Provider        string
	ScheduledAt     time.Time
	DurationMinutes int
}

// Validate checks the request.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrMissingPatient
	}
	if strings.TrimSpace(r.Provider) == "" {
		return ErrMissingProvider
	}
	if r.ScheduledAt.IsZero() || r.DurationMinutes <= 0 {
		return ErrInvalidSchedule
	}
	return nil
}
