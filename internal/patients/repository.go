package patients

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for patient storage
type Repository interface {
	// FindByNameAndDOB matches last name (case-insensitive) and date of birth.
	FindByNameAndDOB(ctx context.Context, lastName, dob string) (*Patient, error)
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
}

// InMemoryRepository keeps patients in memory
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
	order    []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		patients: make(map[string]*Patient),
	}
}

// Create stores a new patient
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
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
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.patients[p.ID] = p
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	copied := *p
	return &copied, nil
}

// FindByNameAndDOB returns the earliest patient created with the given last name and DOB
func (r *InMemoryRepository) FindByNameAndDOB(ctx context.Context, lastName, dob string) (*Patient, error) {
	want := normalizeLastName(lastName)
	dob = strings.TrimSpace(dob)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		p := r.patients[id]
		if normalizeLastName(p.LastName) == want && p.DOB == dob {
			copied := *p
			return &copied, nil
		}
	}
	return nil, ErrPatientNotFound
}

// GetByID retrieves a patient by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	copied := *p
	return &copied, nil
}

// Count returns how many patients are stored.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patients)
}
