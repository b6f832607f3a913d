package task

import "time"

// Outcome records which placement policy produced a slot.
type Outcome string

const (
	// OutcomePlaced means no overlap with committed slots.
	OutcomePlaced Outcome = "placed"
	// OutcomePlacedWithOverlap means probing ran past the cutoff and the
	// last candidate was accepted anyway.
	OutcomePlacedWithOverlap Outcome = "placed_with_overlap"
	// OutcomeFallbackWholeDuration means no candidate day was usable and the
	// whole preparation time was put on today.
	OutcomeFallbackWholeDuration Outcome = "fallback_whole_duration"
)

// Valid returns true if the outcome is a valid value.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePlaced, OutcomePlacedWithOverlap, OutcomeFallbackWholeDuration:
		return true
	default:
		return false
	}
}

// Slot is a contiguous block of preparation time for one task.
type Slot struct {
	TaskID   int64
	TaskName string
	Date     time.Time // calendar date at local midnight
	Start    string    // "HH:MM" format
	Duration int       // minutes, always > 0
	Label    string    // human readable day label
	Outcome  Outcome
}

// StartMinutes returns the start time in minutes since midnight.
func (s Slot) StartMinutes() int {
	return TimeToMinutes(s.Start)
}

// EndMinutes returns the exclusive end in minutes since midnight.
// The value can exceed 24*60 for slots that run past midnight.
func (s Slot) EndMinutes() int {
	return s.StartMinutes() + s.Duration
}

// End returns the end time as "HH:MM", wrapping past midnight.
func (s Slot) End() string {
	return ClockTime(s.EndMinutes())
}

// DateKey returns the slot date as YYYY-MM-DD.
func (s Slot) DateKey() string {
	return s.Date.Format("2006-01-02")
}

// OverlapsWith returns true if both slots are on the same date and their
// half-open intervals intersect. Touching endpoints do not overlap.
func (s Slot) OverlapsWith(other Slot) bool {
	if s.DateKey() != other.DateKey() {
		return false
	}
	return IntervalsOverlap(s.StartMinutes(), s.EndMinutes(), other.StartMinutes(), other.EndMinutes())
}
