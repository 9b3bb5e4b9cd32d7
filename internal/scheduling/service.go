package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/scheduling-assistant/internal/adminlog"
	"github.com/wolfman30/scheduling-assistant/internal/appointments"
	"github.com/wolfman30/scheduling-assistant/internal/availability"
	"github.com/wolfman30/scheduling-assistant/internal/notify"
	"github.com/wolfman30/scheduling-assistant/internal/observability/metrics"
	"github.com/wolfman30/scheduling-assistant/internal/patients"
	"github.com/wolfman30/scheduling-assistant/internal/reminders"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

var schedulingTracer = otel.Tracer("scheduling.internal.scheduling")

// Confirmer sends the booking confirmation email.
type Confirmer interface {
	Send(ctx context.Context, c notify.Confirmation) (bool, string)
}

// Deps are the collaborators of a Service. Grid, Patients and Appointments are required.
type Deps struct {
	Grid         *availability.Grid
	Patients     patients.Repository
	Appointments appointments.Repository
	Confirmer    Confirmer
	Reminders    reminders.Scheduler
	AdminLog     adminlog.Appender
	Metrics      *metrics.BookingMetrics
	Logger       *logging.Logger
}

// Service coordinates patient lookup, slot listing and booking.
type Service struct {
	grid         *availability.Grid
	patients     patients.Repository
	appointments appointments.Repository
	confirmer    Confirmer
	reminders    reminders.Scheduler
	adminLog     adminlog.Appender
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewService wires a booking coordinator.
func NewService(d Deps) *Service {
	if d.Grid == nil {
		panic("scheduling: grid required")
	}
	if d.Patients == nil || d.Appointments == nil {
		panic("scheduling: record stores required")
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		grid:         d.Grid,
		patients:     d.Patients,
		appointments: d.Appointments,
		confirmer:    d.Confirmer,
		reminders:    d.Reminders,
		adminLog:     d.AdminLog,
		metrics:      d.Metrics,
		logger:       logger.Component("scheduling"),
		now:          time.Now,
	}
}

// LookupPatient finds a patient by last name and date of birth. Unknown
// patients are new and need a 60 minute visit; returning patients need 30.
func (s *Service) LookupPatient(ctx context.Context, firstName, lastName, dob string) (LookupResult, error) {
	if strings.TrimSpace(lastName) == "" || strings.TrimSpace(dob) == "" {
		return LookupResult{}, ErrMissingIdentity
	}
	p, err := s.patients.FindByNameAndDOB(ctx, lastName, dob)
	switch {
	case errors.Is(err, patients.ErrPatientNotFound):
		return LookupResult{
			IsNewPatient:            true,
			RequiredDurationMinutes: NewPatientMinutes,
			RequiredUnits:           2,
		}, nil
	case err != nil:
		return LookupResult{}, fmt.Errorf("scheduling: lookup patient: %w", err)
	}
	return LookupResult{
		Found:                   true,
		Patient:                 p,
		RequiredDurationMinutes: ReturningPatientMinutes,
		RequiredUnits:           1,
	}, nil
}

// ListAvailableSlots offers up to five starts for the provider. Durations other
// than 30 or 60 minutes yield an empty list.
func (s *Service) ListAvailableSlots(ctx context.Context, provider string, durationMinutes int) ([]SlotOption, error) {
	units, err := availability.UnitsForMinutes(durationMinutes)
	if err != nil {
		return []SlotOption{}, nil
	}
	slots, err := s.grid.ListAvailable(ctx, provider, units)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list slots: %w", err)
	}
	out := make([]SlotOption, 0, len(slots))
	for _, slot := range slots {
		out = append(out, SlotOption{Date: slot.Date(), Time: slot.Time()})
	}
	return out, nil
}

// BookSlot commits a booking. Outcomes are returned, never raised: conflicts and
// bad durations are typed outcomes, storage failures become OutcomeError, and
// post-commit side effects never change a success.
func (s *Service) BookSlot(ctx context.Context, req BookingRequest) BookingResult {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.book_slot", trace.WithAttributes(
		attribute.String("scheduling.provider", req.Provider),
		attribute.Int("scheduling.duration_minutes", req.DurationMinutes),
	))
	defer span.End()

	result := s.bookSlot(ctx, req)
	span.SetAttributes(attribute.String("scheduling.outcome", string(result.Outcome)))
	if result.Outcome == OutcomeError {
		span.SetStatus(codes.Error, result.Message)
	}
	s.metrics.ObserveOutcome(string(result.Outcome), req.DurationMinutes)
	return result
}

func (s *Service) bookSlot(ctx context.Context, req BookingRequest) BookingResult {
	units, err := availability.UnitsForMinutes(req.DurationMinutes)
	if err != nil {
		return BookingResult{Outcome: OutcomeInvalidDuration, Message: "Invalid duration."}
	}

	patient, err := s.resolvePatient(ctx, req)
	if err != nil {
		s.logger.Error("patient resolution failed", "error", err)
		return BookingResult{Outcome: OutcomeError, Message: err.Error()}
	}

	res, err := s.grid.Reserve(ctx, req.Provider, req.SlotDate, req.SlotTime, units)
	switch {
	case errors.Is(err, availability.ErrSlotUnavailable):
		return BookingResult{Outcome: OutcomeSlotUnavailable, Message: unavailableMessage(units)}
	case err != nil:
		s.logger.Error("slot reservation failed", "provider", req.Provider, "error", err)
		return BookingResult{Outcome: OutcomeError, Message: err.Error()}
	}

	appt, err := s.appointments.Create(ctx, &appointments.CreateAppointmentRequest{
		PatientID:       patient.ID,
		Provider:        res.Provider,
		ScheduledAt:     res.Start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		// The slots stay booked; staff reconcile from the grid and the logs.
		s.logger.Error("appointment record failed after reservation",
			"provider", res.Provider, "start", res.Start, "patient_id", patient.ID, "error", err)
		return BookingResult{Outcome: OutcomeError, Message: err.Error()}
	}

	s.afterCommit(ctx, req, patient, appt)

	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"patient_id", patient.ID,
		"provider", appt.Provider,
		"start", res.Start.Format(availability.DateLayout+" "+availability.TimeLayout),
		"duration_minutes", req.DurationMinutes,
	)
	return BookingResult{
		Outcome:       OutcomeSuccess,
		Message:       fmt.Sprintf("Appointment (%d min) booked successfully", req.DurationMinutes),
		AppointmentID: appt.ID,
		Slots:         res.Slots,
	}
}

func (s *Service) resolvePatient(ctx context.Context, req BookingRequest) (*patients.Patient, error) {
	p, err := s.patients.FindByNameAndDOB(ctx, req.LastName, req.DOB)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, patients.ErrPatientNotFound) {
		return nil, fmt.Errorf("scheduling: find patient: %w", err)
	}
	p, err = s.patients.Create(ctx, &patients.CreatePatientRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DOB:       req.DOB,
		Phone:     req.Phone,
		Email:     req.Email,
		Insurance: patients.Insurance{
			Carrier:     req.InsuranceCarrier,
			MemberID:    req.InsuranceMemberID,
			GroupNumber: req.InsuranceGroupNumber,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling: create patient: %w", err)
	}
	return p, nil
}

// afterCommit runs the side effects of a durable booking. Each runs once and
// none of them can fail the booking.
func (s *Service) afterCommit(ctx context.Context, req BookingRequest, patient *patients.Patient, appt *appointments.Appointment) {
	fullName := strings.TrimSpace(req.FirstName + " " + req.LastName)
	email := req.Email
	if strings.TrimSpace(email) == "" {
		email = patient.Email
	}

	if s.confirmer != nil {
		ok, detail := s.confirmer.Send(ctx, notify.Confirmation{
			FirstName:       req.FirstName,
			FullName:        fullName,
			Email:           email,
			Provider:        appt.Provider,
			ScheduledAt:     appt.ScheduledAt,
			DurationMinutes: appt.DurationMinutes,
			AppointmentID:   appt.ID,
		})
		if !ok {
			s.metrics.ObserveSideEffectFailure("confirmation")
			s.logger.Warn("confirmation not sent", "appointment_id", appt.ID, "detail", detail)
		}
	}

	if s.reminders != nil {
		if err := s.reminders.ScheduleThree(ctx, reminders.ScheduleInput{
			AppointmentID: appt.ID,
			VisitAt:       appt.ScheduledAt,
			Email:         email,
			PatientName:   fullName,
		}); err != nil {
			s.metrics.ObserveSideEffectFailure("reminders")
			s.logger.Warn("reminder scheduling failed", "appointment_id", appt.ID, "error", err)
		}
	}

	if s.adminLog != nil {
		if err := s.adminLog.Append(ctx, adminlog.BookingSummary{
			PatientName:          fullName,
			Email:                email,
			Phone:                req.Phone,
			Provider:             appt.Provider,
			Date:                 appt.ScheduledAt.Format(availability.DateLayout),
			Time:                 appt.ScheduledAt.Format(availability.TimeLayout),
			DurationMinutes:      appt.DurationMinutes,
			InsuranceCarrier:     req.InsuranceCarrier,
			InsuranceMemberID:    req.InsuranceMemberID,
			InsuranceGroupNumber: req.InsuranceGroupNumber,
			AppointmentID:        appt.ID,
			BookedAt:             s.now().UTC(),
		}); err != nil {
			s.metrics.ObserveSideEffectFailure("admin_log")
			s.logger.Warn("admin log append failed", "appointment_id", appt.ID, "error", err)
		}
	}
}

func unavailableMessage(units int) string {
	if units == 2 {
		return "The full 60-minute slot is not available."
	}
	return "The selected 30-minute slot is no longer available."
}
