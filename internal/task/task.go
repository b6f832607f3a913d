// Package task defines the core domain types for prepwise.
package task

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/prepwise/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidPrepTime = errors.New("preparation time must be a positive number of minutes")
	ErrDeadlineInPast  = errors.New("deadline cannot be in the past")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// Task is something with a deadline that needs preparation time.
type Task struct {
	ID          int64
	Name        string
	Description string
	PrepMinutes int
	Deadline    time.Time // calendar date at local midnight
	CreatedAt   time.Time
	Slots       []Slot
}

// New creates a new Task with validation.
// deadline accepts anything dateutil.ParseRelativeDate understands
// ("2025-01-15", "tomorrow", "friday", "next-week", ...). A deadline of today
// is accepted; anything before today is rejected.
func New(name, description string, prepMinutes int, deadline string, now time.Time) (*Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if prepMinutes <= 0 {
		return nil, ErrInvalidPrepTime
	}

	if strings.TrimSpace(deadline) == "" {
		return nil, dateutil.ErrInvalidDateFormat
	}

	date, err := dateutil.ParseRelativeDate(deadline, now)
	if err != nil {
		if errors.Is(err, dateutil.ErrDateInPast) {
			return nil, ErrDeadlineInPast
		}
		return nil, err
	}

	return &Task{
		Name:        name,
		Description: strings.TrimSpace(description),
		PrepMinutes: prepMinutes,
		Deadline:    date,
		CreatedAt:   now,
	}, nil
}

// DeadlineEnd returns the last second of the deadline day.
func (t *Task) DeadlineEnd() time.Time {
	return dateutil.EndOfDay(t.Deadline)
}

// ScheduledMinutes returns the total minutes across all slots.
func (t *Task) ScheduledMinutes() int {
	total := 0
	for _, s := range t.Slots {
		total += s.Duration
	}
	return total
}

// IsOverdue returns true if the deadline day has fully passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return now.After(t.DeadlineEnd())
}

// HasFallback returns true if any slot was produced by a fallback policy.
func (t *Task) HasFallback() bool {
	for _, s := range t.Slots {
		if s.Outcome != OutcomePlaced {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Slots = make([]Slot, len(t.Slots))
	copy(c.Slots, t.Slots)
	return &c
}

// AssignSlots sets the task's slots and stamps them with the task's identity.
func (t *Task) AssignSlots(slots []Slot) {
	t.Slots = make([]Slot, len(slots))
	for i, s := range slots {
		s.TaskID = t.ID
		s.TaskName = t.Name
		t.Slots[i] = s
	}
}
