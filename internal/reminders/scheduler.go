package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// Scheduler plans the three pre-visit reminders for a booked appointment.
type Scheduler interface {
	ScheduleThree(ctx context.Context, in ScheduleInput) error
}

// StoreScheduler writes planned reminders to a Store for the polling Worker.
type StoreScheduler struct {
	store  Store
	loc    *time.Location
	now    func() time.Time
	logger *logging.Logger
}

// NewStoreScheduler creates a scheduler. loc is the clinic's timezone used to
// read slot wall-clock times; nil means UTC.
func NewStoreScheduler(store Store, loc *time.Location, logger *logging.Logger) *StoreScheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StoreScheduler{store: store, loc: loc, now: time.Now, logger: logger.Component("reminders")}
}

// ScheduleThree stores every reminder whose send time is still ahead.
func (s *StoreScheduler) ScheduleThree(ctx context.Context, in ScheduleInput) error {
	planned := Plan(in, s.loc, s.now())
	for i := range planned {
		r := &planned[i]
		if err := s.store.Create(ctx, r); err != nil {
			return fmt.Errorf("reminders: schedule stage %d: %w", r.Stage, err)
		}
	}
	s.logger.Info("reminders scheduled",
		"appointment_id", in.AppointmentID,
		"planned", len(planned),
		"skipped", len(Stages)-len(planned),
	)
	return nil
}
