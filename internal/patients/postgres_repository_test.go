package patients

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var patientRowColumns = []string{"id", "first_name", "last_name", "dob", "phone", "email", "insurance_carrier", "insurance_member_id", "insurance_group_number", "created_at"}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO patients").
		WithArgs(pgxmock.AnyArg(), "Ava", "Lopez", "1990-04-12", "555-0100", "ava@example.com", "Aetna", "M1", "G1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewPostgresRepository(mock)
	p, err := repo.Create(context.Background(), &CreatePatientRequest{
		FirstName: "Ava",
		LastName:  "Lopez",
		DOB:       "1990-04-12",
		Phone:     "555-0100",
		Email:     "ava@example.com",
		Insurance: Insurance{Carrier: "Aetna", MemberID: "M1", GroupNumber: "G1"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || !p.CreatedAt.Equal(now) {
		t.Fatalf("unexpected patient %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepositoryFindByNameAndDOB(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("FROM patients").
		WithArgs("lopez", "1990-04-12").
		WillReturnRows(pgxmock.NewRows(patientRowColumns).
			AddRow("p-1", "Ava", "Lopez", "1990-04-12", "555-0100", "ava@example.com", "Aetna", "M1", "G1", now))

	repo := NewPostgresRepository(mock)
	p, err := repo.FindByNameAndDOB(context.Background(), " LOPEZ", "1990-04-12")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.ID != "p-1" || p.Insurance.GroupNumber != "G1" {
		t.Fatalf("unexpected patient %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepositoryNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM patients").
		WithArgs("p-404").
		WillReturnRows(pgxmock.NewRows(patientRowColumns))

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetByID(context.Background(), "p-404"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}
