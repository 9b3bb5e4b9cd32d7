// Package adminlog records a row per completed booking for clinic staff review.
package adminlog

import (
	"context"
	"time"
)

// BookingSummary is one row of the administrative booking log.
type BookingSummary struct {
	PatientName          string    `json:"patient_name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	Provider             string    `json:"provider"`
	Date                 string    `json:"date"`
	Time                 string    `json:"time"`
	DurationMinutes      int       `json:"duration_minutes"`
	InsuranceCarrier     string    `json:"insurance_carrier"`
	InsuranceMemberID    string    `json:"insurance_member_id"`
	InsuranceGroupNumber string    `json:"insurance_group_number"`
	AppointmentID        string    `json:"appointment_id"`
	BookedAt             time.Time `json:"booked_at"`
}

// Appender adds a row to the log. Callers treat failures as non-fatal.
type Appender interface {
	Append(ctx context.Context, row BookingSummary) error
}

// Reader lists recent rows, newest first.
type Reader interface {
	List(ctx context.Context, limit int) ([]BookingSummary, error)
}

// Log is a sink that can be both written and reviewed.
type Log interface {
	Appender
	Reader
}

const defaultListLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return defaultListLimit
	}
	return limit
}
