// Package exchange reads and writes the portable task document used by
// import and export. The document is a list of task records, each carrying
// its planned slots, encoded as JSON or YAML.
package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/task"
)

// Errors returned by the codec.
var (
	ErrUnknownFormat = errors.New("unknown exchange format")
	ErrInvalidRecord = errors.New("invalid task record")
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Record is one task in the document.
type Record struct {
	ID        int64        `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Desc      string       `json:"desc" yaml:"desc"`
	Prep      int          `json:"prep" yaml:"prep"`
	Deadline  string       `json:"deadline" yaml:"deadline"`
	CreatedAt string       `json:"createdAt" yaml:"createdAt"`
	Slots     []SlotRecord `json:"slots" yaml:"slots"`
}

// SlotRecord is one planned slot in the document.
type SlotRecord struct {
	TaskName  string `json:"taskName" yaml:"taskName"`
	Date      string `json:"date" yaml:"date"`
	StartTime string `json:"startTime" yaml:"startTime"`
	Duration  int    `json:"duration" yaml:"duration"`
	Label     string `json:"label" yaml:"label"`
	Outcome   string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// FromTasks converts tasks to document records.
func FromTasks(tasks []*task.Task) []Record {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		r := Record{
			ID:       t.ID,
			Name:     t.Name,
			Desc:     t.Description,
			Prep:     t.PrepMinutes,
			Deadline: dateutil.FormatDate(t.Deadline),
			Slots:    make([]SlotRecord, 0, len(t.Slots)),
		}
		if !t.CreatedAt.IsZero() {
			r.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		for _, s := range t.Slots {
			r.Slots = append(r.Slots, SlotRecord{
				TaskName:  t.Name,
				Date:      s.DateKey(),
				StartTime: s.Start,
				Duration:  s.Duration,
				Label:     s.Label,
				Outcome:   string(s.Outcome),
			})
		}
		records = append(records, r)
	}
	return records
}

// ToTasks validates records and converts them to tasks. Record IDs are not
// carried over; stored tasks get fresh IDs. Past deadlines are accepted.
func ToTasks(records []Record) ([]*task.Task, error) {
	tasks := make([]*task.Task, 0, len(records))
	for i, r := range records {
		t, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r Record) toTask() (*task.Task, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, task.ErrEmptyName)
	}
	if r.Prep <= 0 {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRecord, name, task.ErrInvalidPrepTime)
	}
	if strings.TrimSpace(r.Deadline) == "" {
		return nil, fmt.Errorf("%w: %q: deadline: %w", ErrInvalidRecord, name, dateutil.ErrInvalidDateFormat)
	}
	deadline, err := dateutil.ParseDate(r.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: deadline: %w", ErrInvalidRecord, name, err)
	}

	t := &task.Task{
		Name:        name,
		Description: strings.TrimSpace(r.Desc),
		PrepMinutes: r.Prep,
		Deadline:    deadline,
	}
	if r.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: createdAt: %v", ErrInvalidRecord, name, err)
		}
		t.CreatedAt = created
	}

	slots := make([]task.Slot, 0, len(r.Slots))
	for j, sr := range r.Slots {
		s, err := sr.toSlot()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: slot %d: %w", ErrInvalidRecord, name, j+1, err)
		}
		slots = append(slots, s)
	}
	t.AssignSlots(slots)

	return t, nil
}

func (sr SlotRecord) toSlot() (task.Slot, error) {
	if strings.TrimSpace(sr.Date) == "" {
		return task.Slot{}, dateutil.ErrInvalidDateFormat
	}
	date, err := dateutil.ParseDate(sr.Date)
	if err != nil {
		return task.Slot{}, err
	}
	if !task.ValidTime(sr.StartTime) {
		return task.Slot{}, fmt.Errorf("invalid start time %q", sr.StartTime)
	}
	if sr.Duration <= 0 {
		return task.Slot{}, fmt.Errorf("invalid duration %d", sr.Duration)
	}
	outcome := task.Outcome(sr.Outcome)
	if outcome == "" {
		outcome = task.OutcomePlaced
	}
	if !outcome.Valid() {
		return task.Slot{}, fmt.Errorf("invalid outcome %q", sr.Outcome)
	}
	return task.Slot{
		Date:     date,
		Start:    sr.StartTime,
		Duration: sr.Duration,
		Label:    sr.Label,
		Outcome:  outcome,
	}, nil
}

// Encode writes tasks to w in the given format.
func Encode(w io.Writer, tasks []*task.Task, f Format) error {
	records := FromTasks(tasks)

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(records, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Decode reads a document from r in the given format.
// An empty document yields no tasks.
func Decode(r io.Reader, f Format) ([]*task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []Record
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f, err)
	}

	return ToTasks(records)
}

// ReadFile decodes the document at path.
func ReadFile(path string, f Format) ([]*task.Task, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file, f)
}

// WriteFile encodes tasks to path, replacing any existing file.
func WriteFile(path string, tasks []*task.Task, f Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, tasks, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
