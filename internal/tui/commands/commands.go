// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/task"
)

// TasksLoadedMsg is sent when every stored task has been loaded.
type TasksLoadedMsg struct {
	Tasks []*task.Task
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// TaskSavedMsg is sent when an approved task has been stored.
type TaskSavedMsg struct {
	Task *task.Task
}

// TaskDeletedMsg is sent when a task and its slots have been removed.
type TaskDeletedMsg struct {
	ID int64
}

// RegeneratedMsg is sent when every task has been planned again.
type RegeneratedMsg struct {
	Count int
}

// LoadTasks loads all tasks in creation order.
func LoadTasks(repo task.Repository) tea.Cmd {
	return func() tea.Msg {
		tasks, err := repo.ListTasks(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tasks: %w", err)}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// SaveTask stores a task with the slots already assigned to it.
func SaveTask(repo task.Repository, t *task.Task) tea.Cmd {
	return func() tea.Msg {
		if t == nil {
			return ErrMsg{Err: fmt.Errorf("no task to save")}
		}
		if err := repo.CreateTask(context.Background(), t); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving task: %w", err)}
		}
		return TaskSavedMsg{Task: t}
	}
}

// DeleteTask removes a task and its slots.
func DeleteTask(repo task.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeleteTask(context.Background(), id); err != nil {
			return ErrMsg{Err: fmt.Errorf("deleting task: %w", err)}
		}
		return TaskDeletedMsg{ID: id}
	}
}

// Regenerate plans every stored task again and replaces its slots.
func Regenerate(repo task.Repository, p *planner.Planner) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		tasks, err := repo.ListTasks(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tasks: %w", err)}
		}

		regenerated := p.Regenerate(tasks)
		if err := repo.ReplaceSlots(ctx, regenerated); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving slots: %w", err)}
		}
		return RegeneratedMsg{Count: len(regenerated)}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsg{Msg: "Copied plan to clipboard"}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
