package task

import (
	"context"
	"time"
)

// Repository defines the storage interface for tasks and their slots.
type Repository interface {
	// CreateTask adds a new task together with its slots.
	// The task ID and the slots' TaskID are set on success.
	CreateTask(ctx context.Context, task *Task) error

	// CreateTasks adds multiple tasks atomically in a single transaction.
	CreateTasks(ctx context.Context, tasks []*Task) error

	// GetTask retrieves a task by ID, including its slots.
	// Returns ErrTaskNotFound if no task has that ID.
	GetTask(ctx context.Context, id int64) (*Task, error)

	// ListTasks returns every task in creation order, including slots.
	ListTasks(ctx context.Context) ([]*Task, error)

	// ListTasksInRange returns tasks that have a slot or a deadline within
	// the date range (inclusive), including all of their slots.
	ListTasksInRange(ctx context.Context, start, end time.Time) ([]*Task, error)

	// ListSlotsByDateRange returns all slots within the date range (inclusive),
	// ordered by date and start time.
	ListSlotsByDateRange(ctx context.Context, start, end time.Time) ([]Slot, error)

	// DeleteTask removes a task and its slots.
	DeleteTask(ctx context.Context, id int64) error

	// ReplaceSlots atomically replaces the slots of every given task.
	// Used by full regeneration.
	ReplaceSlots(ctx context.Context, tasks []*Task) error

	// Close releases any resources held by the repository.
	Close() error
}
