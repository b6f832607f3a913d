package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/prepwise/internal/db"
	"github.com/javiermolinar/prepwise/internal/task"
	"github.com/javiermolinar/prepwise/internal/tui/commands"
)

var testNow = time.Date(2025, 1, 10, 10, 30, 0, 0, time.Local)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T) (Model, *db.SQLite) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	m := New(Options{Repo: repo, Now: func() time.Time { return testNow }})
	return reload(t, *m, repo), repo
}

// reload feeds a fresh TasksLoadedMsg into m.
func reload(t *testing.T, m Model, repo task.Repository) Model {
	t.Helper()
	msg := commands.LoadTasks(repo)()
	loaded, ok := msg.(commands.TasksLoadedMsg)
	if !ok {
		t.Fatalf("LoadTasks returned %T", msg)
	}
	return update(t, m, loaded)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func fillForm(m *Model, name, prep, deadline string) {
	m.form.inputs[fieldName].SetValue(name)
	m.form.inputs[fieldPrep].SetValue(prep)
	m.form.inputs[fieldDeadline].SetValue(deadline)
}

func storeTask(t *testing.T, repo *db.SQLite, name string, deadline time.Time, slots ...task.Slot) *task.Task {
	t.Helper()
	tk := &task.Task{Name: name, PrepMinutes: 60, Deadline: deadline, CreatedAt: testNow}
	tk.AssignSlots(slots)
	if err := repo.CreateTask(context.Background(), tk); err != nil {
		t.Fatalf("storing %s: %v", name, err)
	}
	return tk
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{Now: func() time.Time { return testNow }})

	if m.loading {
		t.Error("model without repo should not be loading")
	}
	if !m.weekStart.Equal(day(6)) {
		t.Errorf("weekStart = %v, want Monday 2025-01-06", m.weekStart)
	}
	if m.theme.Name != "mocha" {
		t.Errorf("theme = %q, want mocha", m.theme.Name)
	}
	if m.Init() != nil {
		t.Error("Init without repo should return nil")
	}
}

func TestModel_AddPreviewApprove(t *testing.T) {
	m, repo := newTestModel(t)

	m, _ = press(t, m, "a")
	if m.mode != ModeForm {
		t.Fatalf("mode = %s, want Form", modeString(m.mode))
	}

	for _, r := range "Exam" {
		m, _ = press(t, m, string(r))
	}
	m, _ = press(t, m, "tab")
	fillForm(&m, m.form.value(fieldName), "120", "2025-01-13")

	m, _ = press(t, m, "enter")
	if m.mode != ModePreview {
		t.Fatalf("mode = %s, want Preview (form error %q)", modeString(m.mode), m.form.err)
	}
	slots := m.preview.result.Slots
	if len(slots) != 3 {
		t.Fatalf("preview slots = %d, want 3", len(slots))
	}
	for i, s := range slots {
		if !s.Date.Equal(day(11+i)) || s.Start != "16:00" || s.Duration != 40 {
			t.Errorf("slot %d = %s %s/%d, want %s 16:00/40", i, s.DateKey(), s.Start, s.Duration, day(11+i).Format("2006-01-02"))
		}
	}

	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("approve should return a save command")
	}
	saved, ok := cmd().(commands.TaskSavedMsg)
	if !ok {
		t.Fatal("expected TaskSavedMsg")
	}
	m = update(t, m, saved)
	if m.mode != ModeNormal || m.preview != nil {
		t.Errorf("after save mode = %s, preview = %v", modeString(m.mode), m.preview)
	}
	if !strings.Contains(m.statusMsg, "Created Exam: 3 slot(s)") {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = reload(t, m, repo)
	if len(m.tasks) != 1 || len(m.tasks[0].Slots) != 3 {
		t.Fatalf("stored tasks = %+v", m.tasks)
	}
	if m.tasks[0].Name != "Exam" {
		t.Errorf("stored name = %q", m.tasks[0].Name)
	}
}

func TestModel_AddWaitsForLoad(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	storeTask(t, repo, "Busy", day(11), task.Slot{
		TaskName: "Busy", Date: day(11), Start: "16:00", Duration: 60, Outcome: task.OutcomePlaced,
	})

	m := *New(Options{Repo: repo, Now: func() time.Time { return testNow }})
	if !m.loading {
		t.Fatal("model with repo should start loading")
	}

	m, _ = press(t, m, "a")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %s before tasks loaded, want Normal", modeString(m.mode))
	}
	if m.statusMsg != "Still loading tasks" {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = reload(t, m, repo)
	m, _ = press(t, m, "a")
	fillForm(&m, "Exam", "30", "2025-01-11")
	m, _ = press(t, m, "enter")
	if got := m.preview.result.Slots[0].Start; got != "17:00" {
		t.Errorf("start = %s, want 17:00 around the loaded slot", got)
	}
}

func TestModel_FormValidation(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		prep     string
		deadline string
		wantErr  string
	}{
		{"prep not a number", "Exam", "lots", "2025-01-13", errPrepNotNumber.Error()},
		{"blank name", "", "60", "2025-01-13", ""},
		{"zero prep", "Exam", "0", "2025-01-13", ""},
		{"past deadline", "Exam", "60", "2025-01-09", ""},
		{"bad deadline", "Exam", "60", "someday", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, _ = press(t, m, "a")
			fillForm(&m, tt.taskName, tt.prep, tt.deadline)

			m, _ = press(t, m, "enter")
			if m.mode != ModeForm {
				t.Fatalf("mode = %s, want Form", modeString(m.mode))
			}
			if m.form.err == "" {
				t.Fatal("expected a form error")
			}
			if tt.wantErr != "" && m.form.err != tt.wantErr {
				t.Errorf("err = %q, want %q", m.form.err, tt.wantErr)
			}
			if !strings.Contains(m.View(), m.form.err) {
				t.Error("form view should show the error")
			}
		})
	}
}

func TestModel_AdjustPreview(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "a")
	fillForm(&m, "Exam", "120", "2025-01-13")
	m, _ = press(t, m, "enter")

	m, _ = press(t, m, "e")
	if m.mode != ModeForm {
		t.Fatalf("mode = %s, want Form", modeString(m.mode))
	}
	if m.form.focus != fieldPrep {
		t.Errorf("focus = %d, want prep field", m.form.focus)
	}
	if got := m.form.value(fieldPrep); got != "120" {
		t.Errorf("prep = %q, want 120", got)
	}
	if got := m.form.value(fieldDeadline); got != "2025-01-13" {
		t.Errorf("deadline = %q, want 2025-01-13", got)
	}

	m.form.inputs[fieldPrep].SetValue("60")
	m, _ = press(t, m, "enter")
	if m.mode != ModePreview {
		t.Fatalf("mode = %s, want Preview", modeString(m.mode))
	}
	for _, s := range m.preview.result.Slots {
		if s.Duration != 20 {
			t.Errorf("slot duration = %d, want 20", s.Duration)
		}
	}
}

func TestModel_PreviewAvoidsStoredSlots(t *testing.T) {
	m, repo := newTestModel(t)
	storeTask(t, repo, "Busy", day(11), task.Slot{
		TaskName: "Busy", Date: day(11), Start: "16:00", Duration: 60, Outcome: task.OutcomePlaced,
	})
	m = reload(t, m, repo)

	m, _ = press(t, m, "a")
	fillForm(&m, "Exam", "30", "2025-01-11")
	m, _ = press(t, m, "enter")

	slots := m.preview.result.Slots
	if len(slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(slots))
	}
	if slots[0].Start != "17:00" {
		t.Errorf("start = %s, want 17:00", slots[0].Start)
	}
}

func TestModel_DeadlineTodayFallsBack(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "a")
	fillForm(&m, "Talk", "90", "today")
	m, _ = press(t, m, "enter")

	res := m.preview.result
	if !res.Fallback || len(res.Slots) != 1 {
		t.Fatalf("result = %+v, want one fallback slot", res)
	}
	s := res.Slots[0]
	if s.Outcome != task.OutcomeFallbackWholeDuration || s.Duration != 90 || s.Label != "Today" {
		t.Errorf("slot = %+v", s)
	}
	if !strings.Contains(m.View(), "No day left before the deadline") {
		t.Error("preview should explain the fallback")
	}
}

func TestModel_CancelPaths(t *testing.T) {
	m, repo := newTestModel(t)

	m, _ = press(t, m, "a")
	m, _ = press(t, m, "esc")
	if m.mode != ModeNormal {
		t.Errorf("esc in form: mode = %s", modeString(m.mode))
	}

	m, _ = press(t, m, "a")
	fillForm(&m, "Exam", "60", "2025-01-13")
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "esc")
	if m.mode != ModeNormal || m.preview != nil {
		t.Errorf("esc in preview: mode = %s", modeString(m.mode))
	}
	if m.form.value(fieldName) != "" {
		t.Error("cancel should clear the form")
	}

	tasks, err := repo.ListTasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Errorf("cancel stored %d tasks", len(tasks))
	}
}

func TestModel_Delete(t *testing.T) {
	m, repo := newTestModel(t)
	storeTask(t, repo, "Exam", day(13))
	m = reload(t, m, repo)

	m, _ = press(t, m, "d")
	if m.mode != ModeConfirmDelete {
		t.Fatalf("mode = %s, want ConfirmDelete", modeString(m.mode))
	}
	if !strings.Contains(m.View(), "Delete #1 Exam") {
		t.Error("confirm view should name the task")
	}

	m, _ = press(t, m, "n")
	if m.mode != ModeNormal {
		t.Fatalf("n: mode = %s", modeString(m.mode))
	}

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	deleted, ok := cmd().(commands.TaskDeletedMsg)
	if !ok || deleted.ID != 1 {
		t.Fatalf("got %+v, want TaskDeletedMsg{ID: 1}", deleted)
	}
	m = update(t, m, deleted)
	m = reload(t, m, repo)
	if len(m.tasks) != 0 {
		t.Errorf("tasks after delete = %d", len(m.tasks))
	}
}

func TestModel_DeleteWithoutTasks(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "d")
	if m.mode != ModeNormal {
		t.Errorf("mode = %s, want Normal", modeString(m.mode))
	}
	if m.statusMsg != "No task selected" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestModel_Regenerate(t *testing.T) {
	m, repo := newTestModel(t)
	storeTask(t, repo, "A", day(11))
	storeTask(t, repo, "B", day(11))
	m = reload(t, m, repo)

	m, cmd := press(t, m, "R")
	if cmd == nil {
		t.Fatal("expected regenerate command")
	}
	msg, ok := cmd().(commands.RegeneratedMsg)
	if !ok || msg.Count != 2 {
		t.Fatalf("got %+v, want 2 regenerated", msg)
	}
	m = update(t, m, msg)
	m = reload(t, m, repo)

	want := []string{"16:00", "17:00"}
	for i, tk := range m.tasks {
		if len(tk.Slots) != 1 {
			t.Fatalf("%s slots = %d, want 1", tk.Name, len(tk.Slots))
		}
		if tk.Slots[0].Start != want[i] {
			t.Errorf("%s start = %s, want %s", tk.Name, tk.Slots[0].Start, want[i])
		}
	}
}

func TestModel_Selection(t *testing.T) {
	m, repo := newTestModel(t)
	storeTask(t, repo, "A", day(13))
	storeTask(t, repo, "B", day(14))
	m = reload(t, m, repo)

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
	m, _ = press(t, m, "k")
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
	m, _ = press(t, m, "G")
	if got := m.selectedTask(); got == nil || got.Name != "B" {
		t.Errorf("selected task = %v, want B", got)
	}
}

func TestModel_WeekNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "l")
	if !m.weekStart.Equal(day(13)) || !m.week.Start.Equal(day(13)) {
		t.Errorf("next week = %v, want 2025-01-13", m.weekStart)
	}
	m, _ = press(t, m, "h")
	m, _ = press(t, m, "h")
	if want := time.Date(2024, 12, 30, 0, 0, 0, 0, time.Local); !m.weekStart.Equal(want) {
		t.Errorf("previous week = %v, want %v", m.weekStart, want)
	}
	m, _ = press(t, m, "t")
	if !m.weekStart.Equal(day(6)) {
		t.Errorf("today = %v, want 2025-01-06", m.weekStart)
	}
}

func TestModel_View(t *testing.T) {
	m, repo := newTestModel(t)
	storeTask(t, repo, "Exam", day(12),
		task.Slot{TaskName: "Exam", Date: day(11), Start: "16:00", Duration: 30, Outcome: task.OutcomePlaced},
		task.Slot{TaskName: "Exam", Date: day(12), Start: "16:00", Duration: 30, Outcome: task.OutcomePlaced},
	)
	m = reload(t, m, repo)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View()
	for _, want := range []string{
		"prepwise",
		"Week of Mon Jan 6",
		"Sat 11",
		"16:00 Exam",
		"⚑ Exam",
		"Tasks (1)",
		"#1 Exam",
		"2 slot(s)",
		"Planned 1h",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q\n%s", want, out)
		}
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	if out := m.View(); !strings.Contains(out, "No tasks yet") {
		t.Errorf("empty view = %q", out)
	}
}

func TestModel_StatusLifecycle(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, commands.StatusMsg{Msg: "Copied plan to clipboard"})
	if m.statusMsg != "Copied plan to clipboard" {
		t.Fatalf("status = %q", m.statusMsg)
	}
	// The clock is frozen, so the status has not expired yet.
	m = update(t, m, commands.ClearStatusMsg{})
	if m.statusMsg == "" {
		t.Error("status cleared before it expired")
	}

	m.statusTime = testNow
	m = update(t, m, commands.ClearStatusMsg{})
	if m.statusMsg != "" {
		t.Errorf("status = %q, want cleared", m.statusMsg)
	}
}

func TestPreviewText(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "a")
	fillForm(&m, "Exam", "60", "2025-01-12")
	m, _ = press(t, m, "enter")

	got := previewText(m.preview)
	want := "Exam (due 2025-01-12, 1h)\n" +
		"- Saturday 11 Jan 16:00-16:30 (30m)\n" +
		"- Sunday 12 Jan 16:00-16:30 (30m)\n"
	if got != want {
		t.Errorf("previewText =\n%s\nwant\n%s", got, want)
	}
	if previewText(nil) != "" {
		t.Error("previewText(nil) should be empty")
	}
}
