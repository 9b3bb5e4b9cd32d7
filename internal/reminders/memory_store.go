package reminders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps reminders in process memory.
type MemoryStore struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*Reminder
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reminders: make(map[uuid.UUID]*Reminder)}
}

func (s *MemoryStore) Create(ctx context.Context, r *Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = StatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *r
	s.reminders[r.ID] = &copied
	return nil
}

func (s *MemoryStore) ListDue(ctx context.Context, asOf time.Time, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Reminder
	for _, r := range s.reminders {
		if r.Status == StatusPending && !r.SendAt.After(asOf) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendAt.Before(out[j].SendAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListByAppointment(ctx context.Context, appointmentID string) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Reminder
	for _, r := range s.reminders {
		if r.AppointmentID == appointmentID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out, nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok || r.Status != StatusPending {
		return fmt.Errorf("reminders: mark sent: no pending reminder with id %s", id)
	}
	now := time.Now().UTC()
	r.Status = StatusSent
	r.SentAt = &now
	r.UpdatedAt = now
	return nil
}

func (s *MemoryStore) MarkStatus(ctx context.Context, id uuid.UUID, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.reminders[id]; ok && r.Status == StatusPending {
		r.Status = status
		r.UpdatedAt = time.Now().UTC()
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
