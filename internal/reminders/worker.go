package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/wolfman30/scheduling-assistant/internal/appointments"
	"github.com/wolfman30/scheduling-assistant/internal/notify"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// AppointmentReader loads the appointment state reminders branch on.
type AppointmentReader interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
}

// Worker delivers due reminders by email.
type Worker struct {
	store  Store
	appts  AppointmentReader
	sender notify.EmailSender
	logger *logging.Logger

	cron *cron.Cron
}

// NewWorker creates a reminder worker. store may be nil when reminders arrive
// through the task queue instead of polling.
func NewWorker(store Store, appts AppointmentReader, sender notify.EmailSender, logger *logging.Logger) *Worker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{store: store, appts: appts, sender: sender, logger: logger.Component("reminders")}
}

// ProcessDue sends every pending reminder whose send time has passed.
// Returns the number of reminders delivered.
func (w *Worker) ProcessDue(ctx context.Context) (int, error) {
	if w.store == nil {
		return 0, errors.New("reminders worker: no store configured")
	}
	due, err := w.store.ListDue(ctx, time.Now().UTC(), 100)
	if err != nil {
		return 0, fmt.Errorf("reminders worker: list due: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	w.logger.Info("reminders worker: processing due reminders", "count", len(due))

	processed := 0
	for i := range due {
		r := &due[i]
		sent, err := w.Deliver(ctx, r)
		if err != nil {
			w.logger.Error("reminders worker: failed to deliver", "id", r.ID, "error", err)
			if markErr := w.store.MarkStatus(ctx, r.ID, StatusFailed); markErr != nil {
				w.logger.Error("reminders worker: mark failed", "id", r.ID, "error", markErr)
			}
			continue
		}
		if !sent {
			if err := w.store.MarkStatus(ctx, r.ID, StatusSkipped); err != nil {
				w.logger.Error("reminders worker: mark skipped", "id", r.ID, "error", err)
			}
			continue
		}
		if err := w.store.MarkSent(ctx, r.ID); err != nil {
			w.logger.Error("reminders worker: mark sent", "id", r.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

// Deliver composes and sends one reminder from the appointment's current state.
// It reports false without error when the appointment no longer exists.
func (w *Worker) Deliver(ctx context.Context, r *Reminder) (bool, error) {
	appt, err := w.appts.GetByID(ctx, r.AppointmentID)
	if errors.Is(err, appointments.ErrAppointmentNotFound) {
		w.logger.Warn("reminders worker: appointment gone, skipping", "id", r.ID, "appointment_id", r.AppointmentID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load appointment: %w", err)
	}

	subject, body := Compose(r, appt)
	if err := w.sender.Send(ctx, notify.EmailMessage{
		To:      r.Email,
		ToName:  r.PatientName,
		Subject: subject,
		Body:    body,
	}); err != nil {
		return false, fmt.Errorf("send email: %w", err)
	}

	w.logger.Info("reminders worker: reminder sent",
		"id", r.ID, "appointment_id", r.AppointmentID, "stage", int(r.Stage))
	return true, nil
}

// Start runs ProcessDue on the cron spec until Stop is called.
func (w *Worker) Start(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := w.ProcessDue(ctx); err != nil {
			w.logger.Error("reminders worker: poll failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("reminders worker: bad cron spec %q: %w", spec, err)
	}
	c.Start()
	w.cron = c
	w.logger.Info("reminders worker: started", "spec", spec)
	return nil
}

// Stop waits for a running poll to finish.
func (w *Worker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}
