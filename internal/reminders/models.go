package reminders

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies one of the three reminders sent before a visit.
type Stage int

const (
	// StageFirst is a plain reminder three days out.
	StageFirst Stage = 1
	// StageSecond checks the intake form or asks for confirmation the day before.
	StageSecond Stage = 2
	// StageFinal goes out two hours before the visit.
	StageFinal Stage = 3
)

// Offset is how long before the visit the stage fires.
func (s Stage) Offset() time.Duration {
	switch s {
	case StageFirst:
		return 72 * time.Hour
	case StageSecond:
		return 24 * time.Hour
	case StageFinal:
		return 2 * time.Hour
	default:
		return 0
	}
}

// Stages lists every stage in send order.
var Stages = []Stage{StageFirst, StageSecond, StageFinal}

// Status tracks the lifecycle of a reminder.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reminder is one scheduled notification for an appointment.
type Reminder struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	Email         string     `json:"email"`
	PatientName   string     `json:"patient_name"`
	Stage         Stage      `json:"stage"`
	VisitAt       time.Time  `json:"visit_at"`
	SendAt        time.Time  `json:"send_at"`
	Status        Status     `json:"status"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ScheduleInput describes the appointment reminders are planned for.
// VisitAt is the slot's wall-clock start; it is read in the scheduler's clinic location.
type ScheduleInput struct {
	AppointmentID string
	VisitAt       time.Time
	Email         string
	PatientName   string
}
