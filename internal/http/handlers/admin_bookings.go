package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/scheduling-assistant/internal/adminlog"
	"github.com/wolfman30/scheduling-assistant/internal/appointments"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// AdminBookingsHandler serves the staff review endpoints.
type AdminBookingsHandler struct {
	log    adminlog.Reader
	appts  appointments.Repository
	logger *logging.Logger
}

// NewAdminBookingsHandler creates the staff handler.
func NewAdminBookingsHandler(log adminlog.Reader, appts appointments.Repository, logger *logging.Logger) *AdminBookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminBookingsHandler{log: log, appts: appts, logger: logger.Component("admin")}
}

// Routes mounts the staff endpoints.
func (h *AdminBookingsHandler) Routes(r chi.Router) {
	r.Get("/bookings", h.ListBookings)
	r.Get("/appointments/{id}", h.GetAppointment)
	r.Post("/appointments/{id}/intake-form", h.MarkIntakeForm)
	r.Post("/appointments/{id}/visit-status", h.UpdateVisitStatus)
}

// ListBookings handles GET /admin/bookings?limit=N.
func (h *AdminBookingsHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	rows, err := h.log.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list admin bookings failed", "error", err)
		jsonError(w, "failed to load bookings", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []adminlog.BookingSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": rows, "count": len(rows)})
}

// GetAppointment handles GET /admin/appointments/{id}.
func (h *AdminBookingsHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.appts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeAppointmentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// MarkIntakeForm handles POST /admin/appointments/{id}/intake-form.
func (h *AdminBookingsHandler) MarkIntakeForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.appts.MarkIntakeFormCompleted(r.Context(), id); err != nil {
		h.writeAppointmentError(w, err)
		return
	}
	h.logger.Info("intake form marked completed", "appointment_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"appointment_id": id, "intake_form_completed": true})
}

type visitStatusRequest struct {
	Status string `json:"status"`
}

// UpdateVisitStatus handles POST /admin/appointments/{id}/visit-status.
func (h *AdminBookingsHandler) UpdateVisitStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req visitStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	status, err := appointments.ParseVisitStatus(req.Status)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.appts.UpdateVisitStatus(r.Context(), id, status); err != nil {
		h.writeAppointmentError(w, err)
		return
	}
	h.logger.Info("visit status updated", "appointment_id", id, "visit_status", status)
	writeJSON(w, http.StatusOK, map[string]any{"appointment_id": id, "visit_status": status})
}

func (h *AdminBookingsHandler) writeAppointmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, appointments.ErrAppointmentNotFound) {
		jsonError(w, "appointment not found", http.StatusNotFound)
		return
	}
	h.logger.Error("appointment update failed", "error", err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}
