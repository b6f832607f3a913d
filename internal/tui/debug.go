package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/prepwise/internal/task"
)

// Debug events are written through the model's logger, which only emits
// them when the app runs with --debug.

// logKeyPress logs a key press event.
func (m Model) logKeyPress(msg tea.KeyMsg) {
	m.logger.Debug("key press", "key", msg.String(), "mode", modeString(m.mode))
}

// logModeChange logs a mode change.
func (m Model) logModeChange(from, to Mode, reason string) {
	m.logger.Debug("mode change",
		"from", modeString(from),
		"to", modeString(to),
		"reason", reason,
	)
}

// logPreview logs the slots proposed for a task.
func (m Model) logPreview(p *preview) {
	if p == nil {
		return
	}
	m.logger.Debug("preview",
		"task", truncateStr(p.task.Name, 30),
		"prep", p.task.PrepMinutes,
		"days", p.result.Spread.Days,
		"minutes_per_day", p.result.Spread.MinutesPerDay,
		"slots", slotsString(p.result.Slots),
		"fallback", p.result.Fallback,
	)
}

// logError logs an error.
func (m Model) logError(context string, err error) {
	m.logger.Error(context, "error", err)
}

// modeString returns a string representation of a Mode.
func modeString(m Mode) string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeForm:
		return "Form"
	case ModePreview:
		return "Preview"
	case ModeConfirmDelete:
		return "ConfirmDelete"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

func slotsString(slots []task.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = fmt.Sprintf("%s %s/%d", s.DateKey(), s.Start, s.Duration)
	}
	return out
}

// truncateStr truncates a string to max runes.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
