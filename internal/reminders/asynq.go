package reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// TypeReminderDeliver is the asynq task type for reminder delivery.
const TypeReminderDeliver = "reminder:deliver"

// Enqueuer is the subset of asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewReminderTask builds a task that fires at the reminder's send time.
func NewReminderTask(r Reminder) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderDeliver, b)
	opts := []asynq.Option{
		asynq.ProcessAt(r.SendAt),
		asynq.TaskID(r.ID.String()),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// AsynqScheduler enqueues reminders as timestamped tasks on a Redis-backed queue.
type AsynqScheduler struct {
	client Enqueuer
	loc    *time.Location
	now    func() time.Time
	logger *logging.Logger
}

// NewAsynqScheduler creates a queue-backed scheduler.
func NewAsynqScheduler(client Enqueuer, loc *time.Location, logger *logging.Logger) *AsynqScheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AsynqScheduler{client: client, loc: loc, now: time.Now, logger: logger.Component("reminders")}
}

// ScheduleThree enqueues every reminder whose send time is still ahead.
func (s *AsynqScheduler) ScheduleThree(ctx context.Context, in ScheduleInput) error {
	planned := Plan(in, s.loc, s.now())
	for _, r := range planned {
		task, opts, err := NewReminderTask(r)
		if err != nil {
			return fmt.Errorf("reminders: encode stage %d: %w", r.Stage, err)
		}
		if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
			return fmt.Errorf("reminders: enqueue stage %d: %w", r.Stage, err)
		}
	}
	s.logger.Info("reminders enqueued",
		"appointment_id", in.AppointmentID,
		"planned", len(planned),
		"skipped", len(Stages)-len(planned),
	)
	return nil
}

// TaskHandler processes reminder tasks pulled from the queue.
type TaskHandler struct {
	worker *Worker
}

// NewTaskHandler wraps a worker for use with an asynq.ServeMux.
func NewTaskHandler(worker *Worker) *TaskHandler {
	return &TaskHandler{worker: worker}
}

// ProcessTask implements asynq.Handler.
func (h *TaskHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var r Reminder
	if err := json.Unmarshal(task.Payload(), &r); err != nil {
		return fmt.Errorf("reminders: invalid payload: %v: %w", err, asynq.SkipRetry)
	}
	if _, err := h.worker.Deliver(ctx, &r); err != nil {
		return err
	}
	return nil
}

// NewServeMux registers the reminder handler.
func NewServeMux(handler *TaskHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeReminderDeliver, handler)
	return mux
}

var (
	_ Scheduler     = (*StoreScheduler)(nil)
	_ Scheduler     = (*AsynqScheduler)(nil)
	_ asynq.Handler = (*TaskHandler)(nil)
)
