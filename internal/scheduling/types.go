package scheduling

import (
	"github.com/wolfman30/scheduling-assistant/internal/availability"
	"github.com/wolfman30/scheduling-assistant/internal/patients"
)

// Outcome classifies the result of a booking attempt.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeSlotUnavailable Outcome = "slot-unavailable"
	OutcomeInvalidDuration Outcome = "invalid-duration"
	OutcomeError           Outcome = "error"
)

// Visit lengths by patient kind.
const (
	NewPatientMinutes       = 60
	ReturningPatientMinutes = 30
)

// BookingRequest is everything collected from the patient before committing a slot.
type BookingRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	DOB                  string `json:"dob"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Provider             string `json:"doctor"`
	SlotDate             string `json:"slot_date"`
	SlotTime             string `json:"slot_time"`
	DurationMinutes      int    `json:"duration_minutes"`
	InsuranceCarrier     string `json:"insurance_carrier"`
	InsuranceMemberID    string `json:"member_id"`
	InsuranceGroupNumber string `json:"group_number"`
}

// BookingResult is the structured outcome handed back to the dialogue layer.
type BookingResult struct {
	Outcome       Outcome                `json:"outcome"`
	Message       string                 `json:"message"`
	AppointmentID string                 `json:"appointment_id,omitempty"`
	Slots         []availability.SlotKey `json:"-"`
}

// Succeeded reports whether the booking went through.
func (r BookingResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// LookupResult tells the caller whether the patient is known and how long their visit runs.
type LookupResult struct {
	Found                   bool              `json:"found"`
	Patient                 *patients.Patient `json:"patient_details"`
	IsNewPatient            bool              `json:"is_new_patient"`
	RequiredDurationMinutes int               `json:"required_duration"`
	RequiredUnits           int               `json:"required_units"`
}

// SlotOption is one bookable start offered to the patient.
type SlotOption struct {
	Date string `json:"date"`
	Time string `json:"time"`
}
