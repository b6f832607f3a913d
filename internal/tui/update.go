package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/prepwise/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.TasksLoadedMsg:
		m.tasks = msg.Tasks
		if m.selected >= len(m.tasks) {
			m.selected = max(0, len(m.tasks)-1)
		}
		m.loading = false
		m.rebuildWeek()
		return m, nil

	case commands.TaskSavedMsg:
		m.preview = nil
		m.form.reset()
		m.setMode(ModeNormal, "task saved")
		status := m.setStatus(fmt.Sprintf("Created %s: %d slot(s)", msg.Task.Name, len(msg.Task.Slots)))
		return m, tea.Batch(status, commands.LoadTasks(m.repo))

	case commands.TaskDeletedMsg:
		status := m.setStatus(fmt.Sprintf("Deleted task #%d", msg.ID))
		return m, tea.Batch(status, commands.LoadTasks(m.repo))

	case commands.RegeneratedMsg:
		status := m.setStatus(fmt.Sprintf("Regenerated %d task(s)", msg.Count))
		return m, tea.Batch(status, commands.LoadTasks(m.repo))

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		m.logError("tui", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.now().Add(5 * time.Second)
		return m, commands.ClearStatusAfter(5 * time.Second)

	case commands.StatusMsg:
		return m, m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	// Cursor blink and other input messages belong to the focused field.
	if m.mode == ModeForm {
		return m, m.form.update(msg)
	}

	return m, nil
}
