package scheduling

import "errors"

var (
	// ErrUnknownTool is returned when a tool call names no known operation.
	ErrUnknownTool = errors.New("scheduling: unknown tool")
	// ErrInvalidToolArgs is returned when tool arguments cannot be decoded.
	ErrInvalidToolArgs = errors.New("scheduling: invalid tool arguments")
	// ErrMissingIdentity is returned by lookups without a last name or date of birth.
	ErrMissingIdentity = errors.New("scheduling: last name and date of birth are required")
)
