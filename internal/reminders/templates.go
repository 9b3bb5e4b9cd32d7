package reminders

import (
	"fmt"

	"github.com/wolfman30/scheduling-assistant/internal/appointments"
)

// Compose renders the subject and body for a reminder given the current
// appointment state. The second stage branches on the intake form, the final
// stage on the patient's visit status.
func Compose(r *Reminder, appt *appointments.Appointment) (subject, body string) {
	name := r.PatientName
	if name == "" {
		name = "there"
	}

	switch r.Stage {
	case StageFirst:
		return "Appointment reminder",
			fmt.Sprintf("Hi %s, this is a reminder for your appointment (ID: %s).", name, r.AppointmentID)
	case StageSecond:
		if appt == nil || !appt.IntakeFormCompleted {
			return "Please complete your intake form",
				fmt.Sprintf("Hi %s, we see you haven't filled your intake form. Please do so before your visit.", name)
		}
		return "Are you still coming tomorrow?",
			fmt.Sprintf("Hi %s, your appointment is tomorrow. Are you still confirmed? Reply Yes or No.", name)
	case StageFinal:
		status := appointments.VisitPending
		if appt != nil {
			status = appt.VisitStatus
		}
		switch status {
		case appointments.VisitConfirmed:
			return "See you soon",
				fmt.Sprintf("Hi %s, see you in 2 hours!", name)
		case appointments.VisitCancelled:
			return "Sorry you cancelled",
				fmt.Sprintf("Hi %s, we're sorry you cancelled. Could you tell us why?", name)
		default:
			return "Please confirm your appointment",
				fmt.Sprintf("Hi %s, your appointment is in 2 hours. Please confirm or it may be cancelled.", name)
		}
	default:
		return "Appointment reminder",
			fmt.Sprintf("Hi %s, this is a reminder for your upcoming appointment.", name)
	}
}
