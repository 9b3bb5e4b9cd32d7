package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	appt := &Appointment{
		ID:              uuid.New().String(),
		PatientID:       req.PatientID,
		Provider:        req.Provider,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          StatusConfirmed,
		VisitStatus:     VisitPending,
	}
	query := `
		INSERT INTO appointments (id, patient_id, provider, scheduled_at, duration_minutes, status, visit_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		appt.ID,
		appt.PatientID,
		appt.Provider,
		appt.ScheduledAt,
		appt.DurationMinutes,
		appt.Status,
		string(appt.VisitStatus),
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	appt.CreatedAt = createdAt
	return appt, nil
}

// GetByID fetches an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `
		SELECT id, patient_id, provider, scheduled_at, duration_minutes, status, intake_form_completed, visit_status, created_at
		FROM appointments
		WHERE id = $1
	`
	var appt Appointment
	var visit string
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.Provider,
		&appt.ScheduledAt,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.IntakeFormCompleted,
		&visit,
		&appt.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	appt.VisitStatus = VisitStatus(visit)
	return &appt, nil
}

// MarkIntakeFormCompleted sets intake_form_completed.
func (r *PostgresRepository) MarkIntakeFormCompleted(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET intake_form_completed = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: mark intake form: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// UpdateVisitStatus sets visit_status.
func (r *PostgresRepository) UpdateVisitStatus(ctx context.Context, id string, status VisitStatus) error {
	if _, err := ParseVisitStatus(string(status)); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET visit_status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("appointments: update visit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
