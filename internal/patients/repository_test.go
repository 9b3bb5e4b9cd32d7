package patients

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryRepositoryCreateAndFind(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &CreatePatientRequest{
		FirstName: "Ava",
		LastName:  " Lopez ",
		DOB:       "1990-04-12",
		Email:     "ava@example.com",
		Insurance: Insurance{Carrier: "Aetna", MemberID: "M1", GroupNumber: "G1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.LastName != "Lopez" {
		t.Fatalf("expected trimmed last name, got %q", created.LastName)
	}

	found, err := repo.FindByNameAndDOB(ctx, "lopez", "1990-04-12")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, found.ID)
	}
	if found.Insurance.Carrier != "Aetna" {
		t.Fatalf("expected insurance carried, got %+v", found.Insurance)
	}
	if found.FullName() != "Ava Lopez" {
		t.Fatalf("unexpected full name %q", found.FullName())
	}

	if _, err := repo.FindByNameAndDOB(ctx, "Lopez", "1990-04-13"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected not found for other dob, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInMemoryRepositoryFindReturnsEarliest(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	first, _ := repo.Create(ctx, &CreatePatientRequest{FirstName: "A", LastName: "Kim", DOB: "1980-01-01"})
	_, _ = repo.Create(ctx, &CreatePatientRequest{FirstName: "B", LastName: "Kim", DOB: "1980-01-01"})

	found, err := repo.FindByNameAndDOB(ctx, "KIM", "1980-01-01")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("expected earliest patient")
	}
}

func TestCreatePatientRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  CreatePatientRequest
		want error
	}{
		{"valid", CreatePatientRequest{LastName: "Lopez", DOB: "1990-04-12"}, nil},
		{"missing last name", CreatePatientRequest{DOB: "1990-04-12"}, ErrInvalidName},
		{"bad dob", CreatePatientRequest{LastName: "Lopez", DOB: "04/12/1990"}, ErrInvalidDOB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
