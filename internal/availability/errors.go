package availability

import "errors"

var (
	// ErrInvalidUnits is returned when a block is neither one nor two units long
	ErrInvalidUnits = errors.New("availability: duration must be 30 or 60 minutes")

	// ErrInvalidSlotTime is returned when a date or time cannot be parsed
	ErrInvalidSlotTime = errors.New("availability: invalid slot date or time")

	// ErrSlotUnavailable is returned when any required unit is missing or not available
	ErrSlotUnavailable = errors.New("availability: slot not available")

	// ErrReserveContention is returned when optimistic retries are exhausted
	ErrReserveContention = errors.New("availability: reservation contention, retries exhausted")
)
