package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/scheduling-assistant/internal/scheduling"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// ToolsHandler exposes the booking coordinator to the dialogue layer.
type ToolsHandler struct {
	svc    *scheduling.Service
	logger *logging.Logger
}

// NewToolsHandler creates a tools handler.
func NewToolsHandler(svc *scheduling.Service, logger *logging.Logger) *ToolsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ToolsHandler{svc: svc, logger: logger.Component("tools")}
}

// ToolEnvelope is the body of POST /tools/invoke.
type ToolEnvelope struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// Routes mounts one endpoint per tool plus the generic envelope endpoint.
func (h *ToolsHandler) Routes(r chi.Router) {
	for _, name := range []string{scheduling.ToolLookupPatient, scheduling.ToolListSlots, scheduling.ToolBookSlot} {
		r.Post("/"+name, h.Named(name))
	}
	r.Post("/invoke", h.Invoke)
}

// Named serves a single tool whose arguments are the request body.
func (h *ToolsHandler) Named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			jsonError(w, "request body too large or unreadable", http.StatusBadRequest)
			return
		}
		h.dispatch(w, r, name, body)
	}
}

// Invoke serves POST /tools/invoke with a {"tool": ..., "args": {...}} envelope.
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var env ToolEnvelope
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&env); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	h.dispatch(w, r, env.Tool, env.Args)
}

func (h *ToolsHandler) dispatch(w http.ResponseWriter, r *http.Request, name string, args json.RawMessage) {
	call, err := scheduling.DecodeToolCall(name, args)
	switch {
	case errors.Is(err, scheduling.ErrUnknownTool):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := call.Invoke(r.Context(), h.svc)
	switch {
	case errors.Is(err, scheduling.ErrMissingIdentity):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("tool failed", "tool", call.Name(), "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if resp, ok := out.(scheduling.BookingResponse); ok {
		writeJSON(w, bookingStatusCode(scheduling.Outcome(resp.Outcome)), resp)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func bookingStatusCode(o scheduling.Outcome) int {
	switch o {
	case scheduling.OutcomeSuccess:
		return http.StatusCreated
	case scheduling.OutcomeSlotUnavailable:
		return http.StatusConflict
	case scheduling.OutcomeInvalidDuration:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
