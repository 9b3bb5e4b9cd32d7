package scheduling

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToolCall(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args string
		want ToolCall
	}{
		{
			name: "lookup",
			tool: "lookup_patient",
			args: `{"first_name":"Ana","last_name":"Lopez","dob":"1990-04-12"}`,
			want: LookupPatientCall{FirstName: "Ana", LastName: "Lopez", DOB: "1990-04-12"},
		},
		{
			name: "list",
			tool: "list_available_slots",
			args: `{"doctor":"Dr. Chen","duration_minutes":60}`,
			want: ListSlotsCall{Provider: "Dr. Chen", DurationMinutes: 60},
		},
		{
			name: "book",
			tool: " book_slot ",
			args: `{"first_name":"Ana","doctor":"Dr. Chen","slot_date":"2025-10-20","slot_time":"10:00","duration_minutes":30,"member_id":"M1"}`,
			want: BookSlotCall{BookingRequest{
				FirstName: "Ana", Provider: "Dr. Chen", SlotDate: "2025-10-20", SlotTime: "10:00",
				DurationMinutes: 30, InsuranceMemberID: "M1",
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := DecodeToolCall(tt.tool, json.RawMessage(tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.want, call)
			assert.Equal(t, tt.want.Name(), call.Name())
		})
	}
}

func TestDecodeToolCallErrors(t *testing.T) {
	_, err := DecodeToolCall("cancel_everything", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = DecodeToolCall("book_slot", json.RawMessage(`{"duration_minutes":"sixty"}`))
	assert.ErrorIs(t, err, ErrInvalidToolArgs)
}

func TestToolCallsInvokeService(t *testing.T) {
	h := newHarness(t,
		slot("Dr. Chen", "2025-10-20", "10:00"),
		slot("Dr. Chen", "2025-10-20", "10:30"),
	)
	ctx := context.Background()

	out, err := ListSlotsCall{Provider: "dr. chen", DurationMinutes: 60}.Invoke(ctx, h.svc)
	require.NoError(t, err)
	assert.Equal(t, []SlotOption{{Date: "2025-10-20", Time: "10:00"}}, out)

	out, err = BookSlotCall{chenRequest()}.Invoke(ctx, h.svc)
	require.NoError(t, err)
	resp, ok := out.(BookingResponse)
	require.True(t, ok)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.AppointmentID)

	out, err = BookSlotCall{chenRequest()}.Invoke(ctx, h.svc)
	require.NoError(t, err)
	resp = out.(BookingResponse)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, string(OutcomeSlotUnavailable), resp.Outcome)

	out, err = LookupPatientCall{FirstName: "Ana", LastName: "Lopez", DOB: "1990-04-12"}.Invoke(ctx, h.svc)
	require.NoError(t, err)
	assert.True(t, out.(LookupResult).Found)
}
