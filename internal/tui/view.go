package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/task"
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	// calendarRows caps the entries shown per day column.
	calendarRows = 8
)

// View renders the TUI.
func (m Model) View() string {
	width, height := m.size()

	if m.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.styles.MutedStyle.Render("Loading..."))
	}

	var modal string
	switch m.mode {
	case ModeForm:
		modal = m.renderForm()
	case ModePreview:
		modal = m.renderPreview()
	case ModeConfirmDelete:
		modal = m.renderConfirm()
	}
	if modal != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
	}

	sections := []string{
		m.renderHeader(width),
		m.renderCalendar(width),
		m.renderTaskList(width, height),
		m.renderFooter(width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) renderHeader(width int) string {
	title := m.styles.TitleStyle.Render("prepwise")
	week := fmt.Sprintf(" Week of %s - %s",
		m.week.Start.Format("Mon Jan 2"),
		m.week.End.Format("Mon Jan 2, 2006"),
	)
	line := title + m.styles.HeaderStyle.Render(week)
	return ansi.Truncate(line, width, "")
}

// renderCalendar draws seven day columns: deadlines first, then slots.
func (m Model) renderCalendar(width int) string {
	// Border and padding take four cells.
	colW := max(8, (width-4)/7)
	today := dateutil.TruncateToDay(m.now())

	columns := make([][]string, 7)
	rows := 0
	for i := 0; i < 7; i++ {
		day := m.week.Week.Day(i)
		if day == nil {
			continue
		}

		header := fmt.Sprintf("%s %02d", m.labeler.WeekdayShort(i), day.Date.Day())
		headerStyle := m.styles.DayHeaderStyle
		if day.Date.Equal(today) {
			headerStyle = m.styles.DayHeaderTodayStyle
		}
		cells := []string{fitCell(headerStyle.Render(header), colW)}

		for _, t := range day.Deadlines() {
			cells = append(cells, fitCell(m.styles.DeadlineStyle.Render(ansi.Truncate("⚑ "+t.Name, colW-1, "…")), colW))
		}
		past := day.Date.Before(today)
		for _, s := range day.Slots() {
			text := ansi.Truncate(s.Start+" "+s.TaskName, colW-3, "…")
			cells = append(cells, fitCell(m.styles.SlotStyle(s.Outcome, past).Render(text), colW))
		}

		if len(cells) > calendarRows+1 {
			more := fmt.Sprintf("+%d more", len(cells)-calendarRows)
			cells = append(cells[:calendarRows], fitCell(m.styles.MutedStyle.Render(more), colW))
		}
		columns[i] = cells
		rows = max(rows, len(cells))
	}

	blank := strings.Repeat(" ", colW)
	lines := make([]string, 0, rows+1)
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for _, col := range columns {
			if r < len(col) {
				b.WriteString(col[r])
			} else {
				b.WriteString(blank)
			}
		}
		lines = append(lines, b.String())
	}

	stats := m.week.Stats
	summary := fmt.Sprintf("Planned %s · %d slot(s) · %d deadline(s) · %d overlap(s)",
		task.FormatMinutes(stats.TotalMinutes), stats.Slots, stats.Deadlines, stats.Conflicts)
	lines = append(lines, m.styles.MutedStyle.Render(summary))

	return m.styles.PanelStyle.Width(colW*7 + 2).Render(strings.Join(lines, "\n"))
}

// fitCell truncates or pads s to exactly w cells.
func fitCell(s string, w int) string {
	s = ansi.Truncate(s, w, "")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// renderTaskList lists every task, keeping the selection visible.
func (m Model) renderTaskList(width, height int) string {
	title := m.styles.PanelTitleStyle.Render(fmt.Sprintf("Tasks (%d)", len(m.tasks)))
	if len(m.tasks) == 0 {
		body := m.styles.MutedStyle.Render("No tasks yet. Press a to add one.")
		return title + "\n" + body
	}

	visible := max(3, height-calendarRows-10)
	first := 0
	if m.selected >= visible {
		first = m.selected - visible + 1
	}
	last := min(len(m.tasks), first+visible)

	now := m.now()
	lines := []string{title}
	for i := first; i < last; i++ {
		t := m.tasks[i]
		row := fmt.Sprintf("%s #%d %s  due %s  prep %s  %d slot(s)",
			taskMarker(t),
			t.ID,
			t.Name,
			dateutil.FormatDate(t.Deadline),
			task.FormatMinutes(t.PrepMinutes),
			len(t.Slots),
		)
		row = ansi.Truncate(row, width-2, "…")

		style := m.styles.TaskRowStyle
		switch {
		case i == m.selected:
			style = m.styles.TaskSelected
			row = "> " + row
		case t.IsOverdue(now):
			style = m.styles.TaskOverdueStyle
			row = "  " + row
		default:
			row = "  " + row
		}
		lines = append(lines, style.Render(row))
	}
	return strings.Join(lines, "\n")
}

func taskMarker(t *task.Task) string {
	for _, s := range t.Slots {
		if s.Outcome == task.OutcomeFallbackWholeDuration {
			return "●"
		}
	}
	for _, s := range t.Slots {
		if s.Outcome == task.OutcomePlacedWithOverlap {
			return "◐"
		}
	}
	return "○"
}

func (m Model) renderFooter(width int) string {
	var status string
	switch {
	case m.err != nil:
		status = m.styles.ErrorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		status = m.styles.StatusStyle.Render(m.statusMsg)
	}
	help := m.styles.HelpStyle.Render("a add · d delete · R regenerate · j/k select · h/l week · t today · q quit")
	if status == "" {
		return ansi.Truncate(help, width, "")
	}
	return ansi.Truncate(status, width, "") + "\n" + ansi.Truncate(help, width, "")
}

func (m Model) renderForm() string {
	lines := []string{m.styles.ModalTitleStyle.Render("New task"), ""}
	for i := 0; i < fieldCount; i++ {
		label := m.styles.ModalLabelStyle
		if i == m.form.focus {
			label = m.styles.ModalLabelFocusStyle
		}
		lines = append(lines, label.Render(fieldLabels[i]), m.form.inputs[i].View(), "")
	}
	if m.form.err != "" {
		lines = append(lines, m.styles.ModalErrorStyle.Render(m.form.err), "")
	}
	lines = append(lines, m.styles.ModalHintStyle.Render("tab next · enter preview · esc cancel"))
	return m.styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPreview() string {
	p := m.preview
	if p == nil {
		return ""
	}
	res := p.result

	lines := []string{m.styles.ModalTitleStyle.Render("Proposed plan for " + p.task.Name), ""}
	if res.Fallback {
		lines = append(lines, m.styles.ModalErrorStyle.Render("No day left before the deadline: all preparation is planned today."))
	} else {
		lines = append(lines, fmt.Sprintf("%d day(s) × %s (asked %s)",
			res.Spread.Days,
			task.FormatMinutes(res.Spread.MinutesPerDay),
			task.FormatMinutes(p.task.PrepMinutes),
		))
	}
	lines = append(lines, "")

	for _, s := range res.Slots {
		row := fmt.Sprintf("%-18s %s-%s  %s", s.Label, s.Start, s.End(), task.FormatMinutes(s.Duration))
		lines = append(lines, m.styles.SlotStyle(s.Outcome, false).Render(row))
	}

	if n := res.Overlapping(); n > 0 {
		lines = append(lines, "", m.styles.ModalErrorStyle.Render(fmt.Sprintf("%d slot(s) overlap existing preparation", n)))
	}

	lines = append(lines, "", m.styles.ModalHintStyle.Render("enter approve · e adjust · y copy · esc cancel"))
	return m.styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderConfirm() string {
	t := m.selectedTask()
	if t == nil {
		return ""
	}
	lines := []string{
		m.styles.ModalTitleStyle.Render("Delete task"),
		"",
		fmt.Sprintf("Delete #%d %s and its %d slot(s)?", t.ID, t.Name, len(t.Slots)),
		"",
		m.styles.ModalHintStyle.Render("y delete · n keep"),
	}
	return m.styles.ModalStyle.Render(strings.Join(lines, "\n"))
}

// previewText renders a preview as plain text for the clipboard.
func previewText(p *preview) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (due %s, %s)\n",
		p.task.Name,
		dateutil.FormatDate(p.task.Deadline),
		task.FormatMinutes(p.task.PrepMinutes),
	)
	for _, s := range p.result.Slots {
		fmt.Fprintf(&b, "- %s %s-%s (%s)\n", s.Label, s.Start, s.End(), task.FormatMinutes(s.Duration))
	}
	return b.String()
}
