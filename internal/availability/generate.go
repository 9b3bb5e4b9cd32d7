package availability

import (
	"fmt"
	"time"
)

// DefaultProviders is the provider roster used when none is configured.
var DefaultProviders = []string{"Dr. Mehta", "Dr. A. Rao", "Dr. Fernandiz", "Dr. Chen"}

// GenerateOptions controls schedule generation.
type GenerateOptions struct {
	From      time.Time // first calendar day; only the date is used
	Days      int
	Providers []string
	DayStart  string // HH:MM, first slot of the day
	DayEnd    string // HH:MM, last slot of the day (inclusive)
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.From.IsZero() {
		o.From = time.Now()
	}
	if o.Days <= 0 {
		o.Days = 14
	}
	if len(o.Providers) == 0 {
		o.Providers = DefaultProviders
	}
	if o.DayStart == "" {
		o.DayStart = "09:00"
	}
	if o.DayEnd == "" {
		o.DayEnd = "17:00"
	}
	return o
}

// Generate builds an all-available schedule: every provider, every weekday in
// [From, From+Days), from DayStart through DayEnd at one-unit steps.
func Generate(opts GenerateOptions) ([]Slot, error) {
	opts = opts.withDefaults()

	open, err := time.Parse(TimeLayout, opts.DayStart)
	if err != nil {
		return nil, fmt.Errorf("availability: day start %q: %w", opts.DayStart, ErrInvalidSlotTime)
	}
	closing, err := time.Parse(TimeLayout, opts.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("availability: day end %q: %w", opts.DayEnd, ErrInvalidSlotTime)
	}
	if closing.Before(open) {
		return nil, fmt.Errorf("availability: day end %s before start %s: %w", opts.DayEnd, opts.DayStart, ErrInvalidSlotTime)
	}

	y, m, d := opts.From.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var slots []Slot
	for _, provider := range opts.Providers {
		for day := 0; day < opts.Days; day++ {
			date := first.AddDate(0, 0, day)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			start := date.Add(time.Duration(open.Hour())*time.Hour + time.Duration(open.Minute())*time.Minute)
			end := date.Add(time.Duration(closing.Hour())*time.Hour + time.Duration(closing.Minute())*time.Minute)
			for t := start; !t.After(end); t = t.Add(Unit) {
				slots = append(slots, Slot{Provider: provider, Start: t, Status: StatusAvailable})
			}
		}
	}
	return slots, nil
}
