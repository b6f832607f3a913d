package tui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/task"
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldPrep
	fieldDeadline
	fieldDesc
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Prep (minutes)", "Deadline", "Description"}

var errPrepNotNumber = errors.New("preparation time must be a number of minutes")

// taskForm is the add form: one text input per field.
type taskForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newTaskForm(styles *Styles) taskForm {
	var f taskForm
	placeholders := [fieldCount]string{"Exam statistics", "120", "friday or 2025-01-20", "optional"}
	limits := [fieldCount]int{120, 5, 20, 256}

	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = 32
		in.Prompt = ""
		in.PlaceholderStyle = styles.ModalPlaceholderStyle
		in.TextStyle = styles.ModalInputTextStyle
		in.PromptStyle = styles.ModalInputTextStyle
		in.Cursor.Style = styles.ModalInputCursorStyle
		in.Cursor.TextStyle = styles.ModalInputTextStyle
		f.inputs[i] = in
	}
	return f
}

// open focuses field and returns the blink command.
func (f *taskForm) open(field int) tea.Cmd {
	f.err = ""
	return f.focusField(field)
}

func (f *taskForm) focusField(field int) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return textinput.Blink
}

func (f *taskForm) next() tea.Cmd { return f.focusField(f.focus + 1) }
func (f *taskForm) prev() tea.Cmd { return f.focusField(f.focus - 1) }

// update forwards a message to the focused input.
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *taskForm) value(field int) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// fill loads t into the inputs, used when adjusting a preview.
func (f *taskForm) fill(t *task.Task) {
	f.inputs[fieldName].SetValue(t.Name)
	f.inputs[fieldPrep].SetValue(strconv.Itoa(t.PrepMinutes))
	f.inputs[fieldDeadline].SetValue(dateutil.FormatDate(t.Deadline))
	f.inputs[fieldDesc].SetValue(t.Description)
}

func (f *taskForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = fieldName
	f.err = ""
}

// build validates the inputs into a new task.
func (f *taskForm) build(now time.Time) (*task.Task, error) {
	raw := f.value(fieldPrep)
	prep := 0
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errPrepNotNumber
		}
		prep = n
	}
	return task.New(f.value(fieldName), f.value(fieldDesc), prep, f.value(fieldDeadline), now)
}
