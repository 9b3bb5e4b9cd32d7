package patients

import "errors"

var (
	// ErrInvalidName is returned when the last name is missing
	ErrInvalidName = errors.New("patients: last name is required")

	// ErrInvalidDOB is returned when the date of birth is not YYYY-MM-DD
	ErrInvalidDOB = errors.New("patients: date of birth must be YYYY-MM-DD")

	// ErrPatientNotFound is returned when no patient matches
	ErrPatientNotFound = errors.New("patients: patient not found")
)
