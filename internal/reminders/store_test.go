package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	visit := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO appointment_reminders").
		WithArgs(pgxmock.AnyArg(), "a-1", "ava@example.com", "Ava", 1, visit, visit.Add(-72*time.Hour), "pending", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	r := &Reminder{AppointmentID: "a-1", Email: "ava@example.com", PatientName: "Ava", Stage: StageFirst, VisitAt: visit, SendAt: visit.Add(-72 * time.Hour)}
	require.NoError(t, store.Create(context.Background(), r))
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreListDue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	now := time.Now().UTC()
	var sentAt *time.Time
	mock.ExpectQuery("FROM appointment_reminders").
		WithArgs(now, 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "appointment_id", "email", "patient_name", "stage", "visit_at", "send_at", "status", "sent_at", "created_at", "updated_at"}).
			AddRow(id, "a-1", "ava@example.com", "Ava", 3, now.Add(2*time.Hour), now, "pending", sentAt, now, now))

	store := NewPostgresStore(mock)
	due, err := store.ListDue(context.Background(), now, 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, StageFinal, due[0].Stage)
	assert.Equal(t, StatusPending, due[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreMarkSentRequiresPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE appointment_reminders SET status = 'sent'").
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewPostgresStore(mock)
	assert.Error(t, store.MarkSent(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
