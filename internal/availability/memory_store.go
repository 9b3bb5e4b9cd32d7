package availability

import (
	"context"
	"sync"
	"time"
)

type memoryKey struct {
	provider string
	start    time.Time
}

func keyOf(provider string, start time.Time) memoryKey {
	return memoryKey{provider: normalizeProvider(provider), start: start.UTC()}
}

// MemoryStore keeps the grid in process memory behind a single-writer lock.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[memoryKey]*Slot
}

// NewMemoryStore builds a store pre-populated with the given slots.
func NewMemoryStore(slots ...Slot) *MemoryStore {
	s := &MemoryStore{slots: make(map[memoryKey]*Slot, len(slots))}
	for _, slot := range slots {
		slot := slot
		slot.Start = slot.Start.UTC()
		s.slots[keyOf(slot.Provider, slot.Start)] = &slot
	}
	return s
}

func (s *MemoryStore) Backend() string { return "memory" }

// ListProvider returns a snapshot of every slot the provider has, ordered by start.
func (s *MemoryStore) ListProvider(ctx context.Context, provider string) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := normalizeProvider(provider)
	var out []Slot
	for k, slot := range s.slots {
		if k.provider == want {
			out = append(out, *slot)
		}
	}
	sortSlots(out)
	return out, nil
}

// All returns a snapshot of the whole grid ordered by (provider, start).
func (s *MemoryStore) All() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, *slot)
	}
	sortSlots(out)
	return out
}

// Commit checks and transitions every key while holding the lock.
func (s *MemoryStore) Commit(ctx context.Context, keys []SlotKey) ([]Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	found := make([]*Slot, 0, len(keys))
	for _, k := range keys {
		slot, ok := s.slots[keyOf(k.Provider, k.Start)]
		if !ok || slot.Status != StatusAvailable {
			return nil, ErrSlotUnavailable
		}
		found = append(found, slot)
	}

	out := make([]Slot, 0, len(found))
	for i, slot := range found {
		slot.Status = statusForUnit(i)
		out = append(out, *slot)
	}
	return out, nil
}

// Seed adds slots that are not present yet.
func (s *MemoryStore) Seed(ctx context.Context, slots []Slot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, slot := range slots {
		k := keyOf(slot.Provider, slot.Start)
		if _, exists := s.slots[k]; exists {
			continue
		}
		slot := slot
		slot.Start = slot.Start.UTC()
		s.slots[k] = &slot
		inserted++
	}
	return inserted, nil
}
