package reminders

import (
	"time"

	"github.com/google/uuid"
)

// inLocation reinterprets a wall-clock time in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// Plan builds the reminders for a visit. Stages whose send time is not after
// now are left out.
func Plan(in ScheduleInput, loc *time.Location, now time.Time) []Reminder {
	visit := inLocation(in.VisitAt, loc)
	var out []Reminder
	for _, stage := range Stages {
		sendAt := visit.Add(-stage.Offset())
		if !sendAt.After(now) {
			continue
		}
		out = append(out, Reminder{
			ID:            uuid.New(),
			AppointmentID: in.AppointmentID,
			Email:         in.Email,
			PatientName:   in.PatientName,
			Stage:         stage,
			VisitAt:       visit.UTC(),
			SendAt:        sendAt.UTC(),
			Status:        StatusPending,
		})
	}
	return out
}
