// Package tui provides the terminal user interface for prepwise.
package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/locale"
	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/summary"
	"github.com/javiermolinar/prepwise/internal/task"
	"github.com/javiermolinar/prepwise/internal/tui/commands"
	"github.com/javiermolinar/prepwise/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal        Mode = iota
	ModeForm               // Add form is open
	ModePreview            // Proposed slots await approval
	ModeConfirmDelete      // Waiting for y/n on the selected task
)

// Options configures the TUI.
type Options struct {
	Repo    task.Repository
	Planner *planner.Planner
	Labeler *locale.Labeler
	Theme   string
	Logger  *slog.Logger
	Now     func() time.Time
}

// preview holds a proposed plan. now is the instant captured when the form
// was submitted; approving plans again with it so the stored slots match.
type preview struct {
	task   *task.Task
	result planner.Result
	now    time.Time
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo    task.Repository
	planner *planner.Planner
	labeler *locale.Labeler
	logger  *slog.Logger
	now     func() time.Time

	theme  *theme.Theme
	styles *Styles

	// State
	tasks     []*task.Task // every stored task, creation order
	week      *summary.WeekSummary
	weekStart time.Time // Monday of the displayed week
	selected  int       // index into tasks
	mode      Mode
	loading   bool

	form    taskForm
	preview *preview

	width  int
	height int

	statusMsg  string
	statusTime time.Time
	err        error
}

// New creates a new TUI model.
func New(opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Labeler == nil {
		opts.Labeler = locale.New(locale.Default)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Planner == nil {
		opts.Planner = planner.New(
			planner.WithLabeler(opts.Labeler),
			planner.WithLogger(opts.Logger),
			planner.WithClock(opts.Now),
		)
	}

	t, err := theme.Load(opts.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	m := &Model{
		repo:      opts.Repo,
		planner:   opts.Planner,
		labeler:   opts.Labeler,
		logger:    opts.Logger,
		now:       opts.Now,
		theme:     t,
		styles:    styles,
		weekStart: startOfWeek(opts.Now()),
		mode:      ModeNormal,
		loading:   opts.Repo != nil,
		form:      newTaskForm(styles),
	}
	m.rebuildWeek()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return commands.LoadTasks(m.repo)
}

// Run starts the TUI.
func Run(opts Options) error {
	model := New(opts)
	model.logger.Debug("tui start", "theme", model.theme.Name, "locale", model.labeler.Tag())

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()

	model.logger.Debug("tui end", "error", err)
	return err
}

// rebuildWeek recomputes the calendar for weekStart from the loaded tasks.
func (m *Model) rebuildWeek() {
	m.week = summary.SummarizeWeek(m.weekStart, m.tasks)
}

// selectedTask returns the task under the cursor, or nil.
func (m Model) selectedTask() *task.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.selected]
}

func (m *Model) setMode(to Mode, reason string) {
	if m.mode != to {
		m.logModeChange(m.mode, to, reason)
	}
	m.mode = to
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusTime = m.now().Add(3 * time.Second)
	return commands.ClearStatusAfter(3 * time.Second)
}

func startOfWeek(t time.Time) time.Time {
	monday, _ := dateutil.WeekRange(t)
	return monday
}
