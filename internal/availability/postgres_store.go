package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps the grid in the availability_slots table. Reservations
// take row locks on every required unit inside one transaction.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("availability: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Backend() string { return "postgres" }

// ListProvider returns every slot of the provider ordered by start.
func (s *PostgresStore) ListProvider(ctx context.Context, provider string) ([]Slot, error) {
	const query = `
		SELECT provider, slot_start, status
		FROM availability_slots
		WHERE lower(provider) = lower($1)
		ORDER BY slot_start
	`
	rows, err := s.pool.Query(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("availability: list slots: %w", err)
	}
	defer rows.Close()

	var out []Slot
	for rows.Next() {
		var slot Slot
		var status string
		if err := rows.Scan(&slot.Provider, &slot.Start, &status); err != nil {
			return nil, fmt.Errorf("availability: scan slot: %w", err)
		}
		slot.Status = SlotStatus(status)
		slot.Start = slot.Start.UTC()
		out = append(out, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("availability: iterate slots: %w", err)
	}
	return out, nil
}

// Commit locks each unit with SELECT ... FOR UPDATE in start order, verifies it
// is available, then updates all of them before committing.
func (s *PostgresStore) Commit(ctx context.Context, keys []SlotKey) ([]Slot, error) {
	const lockQuery = `
		SELECT provider, status
		FROM availability_slots
		WHERE lower(provider) = lower($1) AND slot_start = $2
		FOR UPDATE
	`
	const updateStmt = `
		UPDATE availability_slots
		SET status = $3, updated_at = now()
		WHERE lower(provider) = lower($1) AND slot_start = $2
	`

	var out []Slot
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		out = make([]Slot, 0, len(keys))
		for _, k := range keys {
			var provider, status string
			err := tx.QueryRow(ctx, lockQuery, k.Provider, k.Start).Scan(&provider, &status)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSlotUnavailable
			}
			if err != nil {
				return fmt.Errorf("lock slot: %w", err)
			}
			if SlotStatus(status) != StatusAvailable {
				return ErrSlotUnavailable
			}
			out = append(out, Slot{Provider: provider, Start: k.Start})
		}
		for i := range out {
			out[i].Status = statusForUnit(i)
			if _, err := tx.Exec(ctx, updateStmt, out[i].Provider, out[i].Start, string(out[i].Status)); err != nil {
				return fmt.Errorf("update slot: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Seed bulk-inserts slots, leaving existing rows untouched.
func (s *PostgresStore) Seed(ctx context.Context, slots []Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	const stmt = `
		INSERT INTO availability_slots (provider, slot_start, status)
		SELECT * FROM unnest($1::text[], $2::timestamp[], $3::text[])
		ON CONFLICT DO NOTHING
	`
	providers := make([]string, len(slots))
	starts := make([]time.Time, len(slots))
	statuses := make([]string, len(slots))
	for i, slot := range slots {
		providers[i] = slot.Provider
		starts[i] = slot.Start.UTC()
		statuses[i] = string(slot.Status)
	}
	tag, err := s.pool.Exec(ctx, stmt, providers, starts, statuses)
	if err != nil {
		return 0, fmt.Errorf("availability: seed slots: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("availability: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("availability: commit tx: %w", err)
	}
	return nil
}
