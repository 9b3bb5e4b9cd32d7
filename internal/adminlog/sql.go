package adminlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLAppender stores the booking log in the admin_booking_log table.
type SQLAppender struct {
	db *sql.DB
}

// NewSQLAppender creates an appender over a database/sql handle (lib/pq driver).
func NewSQLAppender(db *sql.DB) *SQLAppender {
	return &SQLAppender{db: db}
}

func (a *SQLAppender) Append(ctx context.Context, row BookingSummary) error {
	if row.BookedAt.IsZero() {
		row.BookedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO admin_booking_log (
			patient_name, email, phone, provider, slot_date, slot_time, duration_minutes,
			insurance_carrier, insurance_member_id, insurance_group_number, appointment_id, booked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := a.db.ExecContext(ctx, query,
		row.PatientName,
		nullString(row.Email),
		nullString(row.Phone),
		row.Provider,
		row.Date,
		row.Time,
		row.DurationMinutes,
		nullString(row.InsuranceCarrier),
		nullString(row.InsuranceMemberID),
		nullString(row.InsuranceGroupNumber),
		row.AppointmentID,
		row.BookedAt,
	)
	if err != nil {
		return fmt.Errorf("adminlog: failed to insert booking row: %w", err)
	}
	return nil
}

func (a *SQLAppender) List(ctx context.Context, limit int) ([]BookingSummary, error) {
	query := fmt.Sprintf(`
		SELECT patient_name, email, phone, provider, slot_date, slot_time, duration_minutes,
			   insurance_carrier, insurance_member_id, insurance_group_number, appointment_id, booked_at
		FROM admin_booking_log
		ORDER BY booked_at DESC
		LIMIT %d`, normalizeLimit(limit))

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("adminlog: failed to query booking log: %w", err)
	}
	defer rows.Close()

	var out []BookingSummary
	for rows.Next() {
		var r BookingSummary
		var email, phone, carrier, member, group sql.NullString
		if err := rows.Scan(
			&r.PatientName, &email, &phone, &r.Provider, &r.Date, &r.Time, &r.DurationMinutes,
			&carrier, &member, &group, &r.AppointmentID, &r.BookedAt,
		); err != nil {
			return nil, fmt.Errorf("adminlog: failed to scan booking row: %w", err)
		}
		r.Email = email.String
		r.Phone = phone.String
		r.InsuranceCarrier = carrier.String
		r.InsuranceMemberID = member.String
		r.InsuranceGroupNumber = group.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("adminlog: failed to iterate booking log: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var (
	_ Log = (*SQLAppender)(nil)
	_ Log = (*S3Appender)(nil)
	_ Log = (*LogAppender)(nil)
)
