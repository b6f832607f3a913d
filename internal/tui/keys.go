package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModePreview:
		return m.handlePreviewKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys on the start screen.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Task list
	case "j", "down":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "g", "home":
		m.selected = 0
	case "G", "end":
		m.selected = max(0, len(m.tasks)-1)

	// Week navigation
	case "h", "left":
		m.weekStart = m.weekStart.AddDate(0, 0, -7)
		m.rebuildWeek()
	case "l", "right":
		m.weekStart = m.weekStart.AddDate(0, 0, 7)
		m.rebuildWeek()
	case "t":
		m.weekStart = startOfWeek(m.now())
		m.rebuildWeek()

	// Actions
	case "a", "n":
		// Previews plan against m.tasks, so wait for the first load.
		if m.loading {
			return m, m.setStatus("Still loading tasks")
		}
		m.form.reset()
		m.setMode(ModeForm, "add")
		return m, m.form.open(fieldName)

	case "d", "x":
		if m.selectedTask() == nil {
			return m, m.setStatus("No task selected")
		}
		m.setMode(ModeConfirmDelete, "delete")

	case "R":
		if m.repo == nil {
			return m, nil
		}
		m.loading = true
		return m, commands.Regenerate(m.repo, m.planner)
	}

	return m, nil
}

// handleFormKeys handles keys while the add form is open.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form.reset()
		m.setMode(ModeNormal, "form cancelled")
		return m, nil
	case "tab", "down":
		return m, m.form.next()
	case "shift+tab", "up":
		return m, m.form.prev()
	case "enter":
		return m.submitForm()
	}

	return m, m.form.update(msg)
}

// submitForm validates the form and plans the task for preview.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	now := m.now()
	t, err := m.form.build(now)
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	res := m.planner.PlanAt(planner.RequestFor(t), m.tasks, now)
	m.preview = &preview{task: t, result: res, now: now}
	m.form.err = ""
	m.logPreview(m.preview)
	m.setMode(ModePreview, "form submitted")
	return m, nil
}

// handlePreviewKeys handles approve, adjust, copy and cancel on a preview.
func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.preview == nil {
		m.setMode(ModeNormal, "no preview")
		return m, nil
	}

	switch msg.String() {
	case "enter", "a":
		t := m.preview.task
		res := m.planner.PlanAt(planner.RequestFor(t), m.tasks, m.preview.now)
		t.AssignSlots(res.Slots)
		if m.repo == nil {
			return m, nil
		}
		return m, commands.SaveTask(m.repo, t)

	case "e":
		m.form.fill(m.preview.task)
		m.preview = nil
		m.setMode(ModeForm, "adjust")
		return m, m.form.open(fieldPrep)

	case "y":
		return m, commands.CopyToClipboard(previewText(m.preview))

	case "esc", "c", "q":
		m.preview = nil
		m.form.reset()
		m.setMode(ModeNormal, "preview cancelled")
	}

	return m, nil
}

// handleConfirmKeys handles the delete confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		t := m.selectedTask()
		m.setMode(ModeNormal, "delete confirmed")
		if t == nil || m.repo == nil {
			return m, nil
		}
		return m, commands.DeleteTask(m.repo, t.ID)
	case "n", "esc", "q":
		m.setMode(ModeNormal, "delete cancelled")
		if t := m.selectedTask(); t != nil {
			return m, m.setStatus(fmt.Sprintf("Kept %s", t.Name))
		}
	}
	return m, nil
}
