package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/scheduling-assistant/internal/adminlog"
	"github.com/wolfman30/scheduling-assistant/internal/appointments"
)

type brokenReader struct{}

func (brokenReader) List(context.Context, int) ([]adminlog.BookingSummary, error) {
	return nil, errors.New("bucket gone")
}

func adminRouter(h *AdminBookingsHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin", h.Routes)
	return r
}

func TestAdminListBookings(t *testing.T) {
	log := adminlog.NewLogAppender(10, testLogger())
	ctx := context.Background()
	require.NoError(t, log.Append(ctx, adminlog.BookingSummary{AppointmentID: "a1", Provider: "Dr. Rao"}))
	require.NoError(t, log.Append(ctx, adminlog.BookingSummary{AppointmentID: "a2", Provider: "Dr. Chen"}))

	router := adminRouter(NewAdminBookingsHandler(log, appointments.NewInMemoryRepository(), testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/bookings?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Bookings []adminlog.BookingSummary `json:"bookings"`
		Count    int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "a2", body.Bookings[0].AppointmentID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/bookings?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminListBookingsReaderError(t *testing.T) {
	router := adminRouter(NewAdminBookingsHandler(brokenReader{}, appointments.NewInMemoryRepository(), testLogger()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/bookings", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminAppointmentFollowUp(t *testing.T) {
	appts := appointments.NewInMemoryRepository()
	ctx := context.Background()
	appt, err := appts.Create(ctx, &appointments.CreateAppointmentRequest{
		PatientID:       "p1",
		Provider:        "Dr. Chen",
		ScheduledAt:     time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	router := adminRouter(NewAdminBookingsHandler(adminlog.NewLogAppender(1, testLogger()), appts, testLogger()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/appointments/"+appt.ID+"/intake-form", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/appointments/"+appt.ID+"/visit-status",
		strings.NewReader(`{"status":"Cancelled"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := appts.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, got.IntakeFormCompleted)
	assert.Equal(t, appointments.VisitCancelled, got.VisitStatus)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/appointments/"+appt.ID+"/visit-status",
		strings.NewReader(`{"status":"maybe"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/appointments/missing/intake-form", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/appointments/"+appt.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
