package availability

import (
	"sort"
)

// DefaultListLimit caps how many options a listing returns.
const DefaultListLimit = 5

// FindStarts returns up to limit available block starts for the provider.
// Single-unit blocks are the earliest available slots. Two-unit blocks are
// adjacent available slots whose starts differ by exactly one Unit; a pair
// separated by a gap or a booked unit is never offered. Invalid sizes yield nil.
func FindStarts(slots []Slot, provider string, units, limit int) []Slot {
	if !ValidUnits(units) || limit <= 0 {
		return nil
	}

	open := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Status == StatusAvailable && sameProvider(s.Provider, provider) {
			open = append(open, s)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Start.Before(open[j].Start)
	})

	if units == 1 {
		if len(open) > limit {
			open = open[:limit]
		}
		return open
	}

	var starts []Slot
	for i := 0; i+1 < len(open) && len(starts) < limit; i++ {
		if open[i+1].Start.Equal(open[i].Start.Add(Unit)) {
			starts = append(starts, open[i])
		}
	}
	return starts
}

// sortSlots orders by (provider, start).
func sortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		pi, pj := normalizeProvider(slots[i].Provider), normalizeProvider(slots[j].Provider)
		if pi != pj {
			return pi < pj
		}
		return slots[i].Start.Before(slots[j].Start)
	})
}
