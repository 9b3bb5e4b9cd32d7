package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/scheduling-assistant/internal/appointments"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "t"}, nil
}

func TestAsynqSchedulerEnqueuesAtSendTime(t *testing.T) {
	q := &fakeEnqueuer{}
	s := NewAsynqScheduler(q, time.UTC, testLogger())
	visit := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return visit.Add(-48 * time.Hour) }

	require.NoError(t, s.ScheduleThree(context.Background(), ScheduleInput{AppointmentID: "a-1", VisitAt: visit, Email: "ava@example.com"}))

	require.Len(t, q.tasks, 2)
	for _, task := range q.tasks {
		assert.Equal(t, TypeReminderDeliver, task.Type())
	}

	var r Reminder
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &r))
	assert.Equal(t, StageSecond, r.Stage)
	assert.True(t, r.SendAt.Equal(visit.Add(-24*time.Hour)))

	var sawProcessAt bool
	for _, opt := range q.opts[0] {
		if opt.Type() == asynq.ProcessAtOpt {
			sawProcessAt = true
			at, ok := opt.Value().(time.Time)
			assert.True(t, ok && at.Equal(visit.Add(-24*time.Hour)))
		}
	}
	assert.True(t, sawProcessAt)
}

func TestAsynqSchedulerPropagatesEnqueueError(t *testing.T) {
	s := NewAsynqScheduler(&fakeEnqueuer{err: errors.New("redis down")}, nil, testLogger())
	visit := time.Now().UTC().Add(96 * time.Hour)
	assert.Error(t, s.ScheduleThree(context.Background(), ScheduleInput{AppointmentID: "a-1", VisitAt: visit}))
}

func TestTaskHandlerDelivers(t *testing.T) {
	ctx := context.Background()
	appts := appointments.NewInMemoryRepository()
	appt := bookAppointment(t, appts)
	require.NoError(t, appts.UpdateVisitStatus(ctx, appt.ID, appointments.VisitConfirmed))

	sender := &recordingSender{}
	h := NewTaskHandler(NewWorker(nil, appts, sender, testLogger()))

	task, _, err := NewReminderTask(Reminder{AppointmentID: appt.ID, Email: "ava@example.com", PatientName: "Ava", Stage: StageFinal})
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(ctx, task))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "See you soon", sender.sent[0].Subject)
}

func TestTaskHandlerBadPayloadSkipsRetry(t *testing.T) {
	h := NewTaskHandler(NewWorker(nil, appointments.NewInMemoryRepository(), &recordingSender{}, testLogger()))
	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeReminderDeliver, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
