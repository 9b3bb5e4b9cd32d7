package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when no appointment has the id
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrMissingPatient is returned when the patient id is empty
	ErrMissingPatient = errors.New("appointments: patient id is required")

	// ErrMissingProvider is returned when the provider is empty
	ErrMissingProvider = errors.New("appointments: provider is required")

	// ErrInvalidSchedule is returned when the start or duration is missing
	ErrInvalidSchedule = errors.New("appointments: scheduled time and duration are required")

	// ErrInvalidVisitStatus is returned for unknown visit statuses
	ErrInvalidVisitStatus = errors.New("appointments: visit status must be pending, confirmed or cancelled")
)
