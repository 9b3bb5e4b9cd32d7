package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store persists reminders for the polling worker.
type Store interface {
	Create(ctx context.Context, r *Reminder) error
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]Reminder, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListByAppointment(ctx context.Context, appointmentID string) ([]Reminder, error)
}

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore provides CRUD operations for appointment_reminders.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a new reminder store.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const reminderColumns = `id, appointment_id, email, patient_name, stage, visit_at, send_at, status, sent_at, created_at, updated_at`

// Create inserts a new reminder.
func (s *PostgresStore) Create(ctx context.Context, r *Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = StatusPending
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO appointment_reminders (id, appointment_id, email, patient_name, stage, visit_at, send_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.AppointmentID, r.Email, r.PatientName, int(r.Stage),
		r.VisitAt, r.SendAt, string(r.Status), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("reminders: create reminder: %w", err)
	}
	return nil
}

// ListDue returns pending reminders whose send_at is on or before asOf.
func (s *PostgresStore) ListDue(ctx context.Context, asOf time.Time, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM appointment_reminders
		WHERE status = 'pending' AND send_at <= $1
		ORDER BY send_at ASC LIMIT $2`, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("reminders: list due: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// ListByAppointment returns every reminder planned for an appointment.
func (s *PostgresStore) ListByAppointment(ctx context.Context, appointmentID string) ([]Reminder, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM appointment_reminders
		WHERE appointment_id = $1
		ORDER BY stage ASC`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("reminders: list by appointment: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// MarkSent transitions a reminder from pending to sent.
func (s *PostgresStore) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE appointment_reminders SET status = 'sent', sent_at = $1, updated_at = $1
		WHERE id = $2 AND status = 'pending'`, now, id)
	if err != nil {
		return fmt.Errorf("reminders: mark sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminders: mark sent: no pending reminder with id %s", id)
	}
	return nil
}

// MarkStatus moves a pending reminder to a terminal status other than sent.
func (s *PostgresStore) MarkStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := s.db.Exec(ctx, `
		UPDATE appointment_reminders SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'`, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("reminders: mark %s: %w", status, err)
	}
	return nil
}

func scanReminders(rows pgx.Rows) ([]Reminder, error) {
	var result []Reminder
	for rows.Next() {
		var r Reminder
		var stage int
		var status string
		if err := rows.Scan(
			&r.ID, &r.AppointmentID, &r.Email, &r.PatientName, &stage,
			&r.VisitAt, &r.SendAt, &status, &r.SentAt, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("reminders: scan: %w", err)
		}
		r.Stage = Stage(stage)
		r.Status = Status(status)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reminders: rows: %w", err)
	}
	return result, nil
}
