package availability

import (
	"strings"
	"time"
)

// Unit is the length of one grid slot.
const Unit = 30 * time.Minute

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// SlotStatus is the booking state of a single unit.
type SlotStatus string

const (
	StatusAvailable       SlotStatus = "available"
	StatusBooked          SlotStatus = "booked"
	StatusBookedSecondary SlotStatus = "booked-secondary"
)

// Slot is one 30-minute unit of a provider's calendar. Start is a wall-clock
// timestamp kept in UTC; it carries no timezone meaning.
type Slot struct {
	Provider string     `json:"provider"`
	Start    time.Time  `json:"start"`
	Status   SlotStatus `json:"status"`
}

// SlotKey identifies a slot. Provider comparison is case-insensitive.
type SlotKey struct {
	Provider string    `json:"provider"`
	Start    time.Time `json:"start"`
}

// Key returns the slot's identity.
func (s Slot) Key() SlotKey {
	return SlotKey{Provider: s.Provider, Start: s.Start}
}

// Date formats the slot start as YYYY-MM-DD.
func (s Slot) Date() string {
	return s.Start.Format(DateLayout)
}

// Time formats the slot start as HH:MM.
func (s Slot) Time() string {
	return s.Start.Format(TimeLayout)
}

// Date formats the key's start as YYYY-MM-DD.
func (k SlotKey) Date() string {
	return k.Start.Format(DateLayout)
}

// Time formats the key's start as HH:MM.
func (k SlotKey) Time() string {
	return k.Start.Format(TimeLayout)
}

// Reservation describes a committed booking on the grid.
type Reservation struct {
	Provider string
	Start    time.Time
	Units    int
	Slots    []SlotKey
}

// Duration is the total reserved length.
func (r Reservation) Duration() time.Duration {
	return time.Duration(r.Units) * Unit
}

// UnitsForMinutes converts a visit length to grid units. Only 30 and 60 are bookable.
func UnitsForMinutes(minutes int) (int, error) {
	switch minutes {
	case 30:
		return 1, nil
	case 60:
		return 2, nil
	default:
		return 0, ErrInvalidUnits
	}
}

// ValidUnits reports whether a block of the given size can be listed or reserved.
func ValidUnits(units int) bool {
	return units == 1 || units == 2
}

// ParseStart combines a date and a time of day into a slot start.
// Seconds are accepted and must be zero.
func ParseStart(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{DateLayout + " " + TimeLayout, DateLayout + " 15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, time.UTC); err == nil {
			if t.Second() != 0 {
				return time.Time{}, ErrInvalidSlotTime
			}
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidSlotTime
}

// RequiredKeys lists the unit keys a block of the given size occupies.
// The second unit may fall on the next calendar day.
func RequiredKeys(provider string, start time.Time, units int) []SlotKey {
	keys := make([]SlotKey, 0, units)
	for i := 0; i < units; i++ {
		keys = append(keys, SlotKey{Provider: provider, Start: start.Add(time.Duration(i) * Unit)})
	}
	return keys
}

// statusForUnit is the status a unit takes when it is consumed at position i of a block.
func statusForUnit(i int) SlotStatus {
	if i == 0 {
		return StatusBooked
	}
	return StatusBookedSecondary
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func sameProvider(a, b string) bool {
	return normalizeProvider(a) == normalizeProvider(b)
}
