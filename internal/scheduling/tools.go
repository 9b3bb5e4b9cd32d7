package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Tool names understood by DecodeToolCall.
const (
	ToolLookupPatient = "lookup_patient"
	ToolListSlots     = "list_available_slots"
	ToolBookSlot      = "book_slot"
)

// ToolCall is one decoded request from the dialogue layer. The set of
// implementations is closed: LookupPatientCall, ListSlotsCall and BookSlotCall.
type ToolCall interface {
	Name() string
	Invoke(ctx context.Context, s *Service) (any, error)
	isToolCall()
}

// LookupPatientCall resolves whether the caller is a new or returning patient.
type LookupPatientCall struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
}

func (LookupPatientCall) Name() string { return ToolLookupPatient }
func (LookupPatientCall) isToolCall()  {}

func (c LookupPatientCall) Invoke(ctx context.Context, s *Service) (any, error) {
	return s.LookupPatient(ctx, c.FirstName, c.LastName, c.DOB)
}

// ListSlotsCall lists bookable starts for a provider.
type ListSlotsCall struct {
	Provider        string `json:"doctor"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (ListSlotsCall) Name() string { return ToolListSlots }
func (ListSlotsCall) isToolCall()  {}

func (c ListSlotsCall) Invoke(ctx context.Context, s *Service) (any, error) {
	return s.ListAvailableSlots(ctx, c.Provider, c.DurationMinutes)
}

// BookSlotCall commits a booking.
type BookSlotCall struct {
	BookingRequest
}

func (BookSlotCall) Name() string { return ToolBookSlot }
func (BookSlotCall) isToolCall()  {}

func (c BookSlotCall) Invoke(ctx context.Context, s *Service) (any, error) {
	return ToolBookingResponse(s.BookSlot(ctx, c.BookingRequest)), nil
}

// BookingResponse is the transport shape of a booking result.
type BookingResponse struct {
	Status        string `json:"status"`
	Outcome       string `json:"outcome"`
	Message       string `json:"message"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// ToolBookingResponse collapses an outcome to the success|error status the dialogue layer reads.
func ToolBookingResponse(r BookingResult) BookingResponse {
	status := "error"
	if r.Succeeded() {
		status = "success"
	}
	return BookingResponse{
		Status:        status,
		Outcome:       string(r.Outcome),
		Message:       r.Message,
		AppointmentID: r.AppointmentID,
	}
}

// DecodeToolCall maps a tool name and its JSON arguments to a ToolCall.
func DecodeToolCall(name string, args json.RawMessage) (ToolCall, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	var (
		call ToolCall
		err  error
	)
	switch strings.TrimSpace(name) {
	case ToolLookupPatient:
		var c LookupPatientCall
		err = json.Unmarshal(args, &c)
		call = c
	case ToolListSlots:
		var c ListSlotsCall
		err = json.Unmarshal(args, &c)
		call = c
	case ToolBookSlot:
		var c BookSlotCall
		err = json.Unmarshal(args, &c.BookingRequest)
		call = c
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidToolArgs, name, err)
	}
	return call, nil
}
