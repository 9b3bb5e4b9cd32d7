package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const patientColumns = `id, first_name, last_name, dob, phone, email, insurance_carrier, insurance_member_id, insurance_group_number, created_at`

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		DOB:       strings.TrimSpace(req.DOB),
		Phone:     req.Phone,
		Email:     req.Email,
		Insurance: req.Insurance,
	}
	query := `
		INSERT INTO patients (id, first_name, last_name, dob, phone, email, insurance_carrier, insurance_member_id, insurance_group_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		p.ID,
		p.FirstName,
		p.LastName,
		p.DOB,
		p.Phone,
		p.Email,
		p.Insurance.Carrier,
		p.Insurance.MemberID,
		p.Insurance.GroupNumber,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("patients: insert failed: %w", err)
	}
	p.CreatedAt = createdAt
	return p, nil
}

// FindByNameAndDOB returns the earliest matching patient.
func (r *PostgresRepository) FindByNameAndDOB(ctx context.Context, lastName, dob string) (*Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE lower(last_name) = $1 AND dob = $2
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, normalizeLastName(lastName), strings.TrimSpace(dob)))
}

// GetByID fetches a patient by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Patient, error) {
	var p Patient
	if err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DOB,
		&p.Phone,
		&p.Email,
		&p.Insurance.Carrier,
		&p.Insurance.MemberID,
		&p.Insurance.GroupNumber,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return &p, nil
}
