package patients

import (
	"strings"
	"time"
)

// Insurance holds the coverage details collected during booking.
type Insurance struct {
	Carrier     string `json:"carrier"`
	MemberID    string `json:"member_id"`
	GroupNumber string `json:"group_number"`
}

// Patient is a person known to the clinic.
type Patient struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DOB       string    `json:"dob"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Insurance Insurance `json:"insurance"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName joins first and last name.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CreatePatientRequest carries the identity and contact details of a new patient.
type CreatePatientRequest struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DOB       string    `json:"dob"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Insurance Insurance `json:"insurance"`
}

// Validate checks the fields required to find the patient again later.
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.LastName) == "" {
		return ErrInvalidName
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(r.DOB)); err != nil {
		return ErrInvalidDOB
	}
	return nil
}

func normalizeLastName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
