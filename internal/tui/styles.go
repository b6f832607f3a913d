package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/prepwise/internal/task"
	"github.com/javiermolinar/prepwise/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	App         lipgloss.Style
	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	MutedStyle  lipgloss.Style

	// Task list panel
	PanelStyle       lipgloss.Style
	PanelTitleStyle  lipgloss.Style
	TaskRowStyle     lipgloss.Style
	TaskSelected     lipgloss.Style
	TaskOverdueStyle lipgloss.Style

	// Week calendar
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	DeadlineStyle       lipgloss.Style
	SlotPlacedStyle     lipgloss.Style
	SlotOverlapStyle    lipgloss.Style
	SlotFallbackStyle   lipgloss.Style
	SlotPastStyle       lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modals
	ModalStyle            lipgloss.Style
	ModalTitleStyle       lipgloss.Style
	ModalLabelStyle       lipgloss.Style
	ModalLabelFocusStyle  lipgloss.Style
	ModalHintStyle        lipgloss.Style
	ModalErrorStyle       lipgloss.Style
	ModalInputTextStyle   lipgloss.Style
	ModalInputCursorStyle lipgloss.Style
	ModalPlaceholderStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	cell := lipgloss.NewStyle().Padding(0, 1)

	return &Styles{
		palette: p,

		App:         lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg),
		TitleStyle:  lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent).Padding(0, 1),
		HeaderStyle: lipgloss.NewStyle().Foreground(p.Fg).Bold(true),
		MutedStyle:  lipgloss.NewStyle().Foreground(p.FgMuted),

		PanelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		PanelTitleStyle:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		TaskRowStyle:     lipgloss.NewStyle().Foreground(p.Fg),
		TaskSelected:     lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgSelection).Bold(true),
		TaskOverdueStyle: lipgloss.NewStyle().Foreground(p.FgMuted).Strikethrough(true),

		DayHeaderStyle:      lipgloss.NewStyle().Foreground(p.Fg).Bold(true),
		DayHeaderTodayStyle: lipgloss.NewStyle().Foreground(p.Today).Bold(true).Underline(true),
		DeadlineStyle:       lipgloss.NewStyle().Foreground(p.Deadline).Bold(true),
		SlotPlacedStyle:     cell.Foreground(p.TextOnPlaced).Background(p.PlacedBg),
		SlotOverlapStyle:    cell.Foreground(p.TextOnOverlap).Background(p.OverlapBg),
		SlotFallbackStyle:   cell.Foreground(p.TextOnFallback).Background(p.FallbackBg),
		SlotPastStyle:       cell.Foreground(p.FgMuted).Background(p.PastBg),

		StatusStyle: lipgloss.NewStyle().Foreground(p.Accent),
		ErrorStyle:  lipgloss.NewStyle().Foreground(p.Fallback).Bold(true),
		HelpStyle:   lipgloss.NewStyle().Foreground(p.FgMuted),

		ModalStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			Background(p.Modal.Bg).
			Foreground(p.Modal.Text).
			Padding(1, 2),
		ModalTitleStyle:       lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		ModalLabelStyle:       lipgloss.NewStyle().Foreground(p.Modal.Muted),
		ModalLabelFocusStyle:  lipgloss.NewStyle().Foreground(p.Modal.Text).Bold(true),
		ModalHintStyle:        lipgloss.NewStyle().Foreground(p.Modal.Muted).Italic(true),
		ModalErrorStyle:       lipgloss.NewStyle().Foreground(p.Fallback),
		ModalInputTextStyle:   lipgloss.NewStyle().Foreground(p.Modal.Text),
		ModalInputCursorStyle: lipgloss.NewStyle().Foreground(p.Accent),
		ModalPlaceholderStyle: lipgloss.NewStyle().Foreground(p.Modal.Muted),
	}
}

// SlotStyle returns the calendar cell style for a slot.
func (s *Styles) SlotStyle(o task.Outcome, past bool) lipgloss.Style {
	if past {
		return s.SlotPastStyle
	}
	switch o {
	case task.OutcomePlacedWithOverlap:
		return s.SlotOverlapStyle
	case task.OutcomeFallbackWholeDuration:
		return s.SlotFallbackStyle
	default:
		return s.SlotPlacedStyle
	}
}
