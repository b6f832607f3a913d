// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/prepwise/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ task.Repository = (*SQLite)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateTask adds a new task and its slots.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	return s.CreateTasks(ctx, []*task.Task{t})
}

// CreateTasks adds multiple tasks atomically in a single transaction.
// Either all tasks are created or none are.
func (s *SQLite) CreateTasks(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO tasks (name, description, prep_minutes, deadline, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	ids := make([]int64, len(tasks))
	created := make([]time.Time, len(tasks))
	for i, t := range tasks {
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		result, err := tx.ExecContext(ctx, query,
			t.Name,
			t.Description,
			t.PrepMinutes,
			t.Deadline.Format("2006-01-02"),
			createdAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting task %q: %w", t.Name, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}

		if err := insertSlots(ctx, tx, id, t.Slots); err != nil {
			return err
		}
		ids[i], created[i] = id, createdAt
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	for i, t := range tasks {
		t.ID = ids[i]
		t.CreatedAt = created[i]
		for j := range t.Slots {
			t.Slots[j].TaskID = t.ID
			t.Slots[j].TaskName = t.Name
		}
	}

	return nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, taskID int64, slots []task.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO slots (task_id, position, slot_date, start_time, duration, label, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, sl := range slots {
		outcome := sl.Outcome
		if outcome == "" {
			outcome = task.OutcomePlaced
		}
		if _, err := stmt.ExecContext(ctx,
			taskID,
			i,
			sl.Date.Format("2006-01-02"),
			sl.Start,
			sl.Duration,
			sl.Label,
			string(outcome),
		); err != nil {
			return fmt.Errorf("inserting slot %d of task %d: %w", i, taskID, err)
		}
	}
	return nil
}

// GetTask retrieves a task by ID, including its slots.
func (s *SQLite) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	query := `
		SELECT id, name, description, prep_minutes, deadline, created_at
		FROM tasks
		WHERE id = ?
	`

	t, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", task.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	slots, err := s.loadSlots(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	t.Slots = slots[id]

	return t, nil
}

// ListTasks returns every task in creation order, including slots.
func (s *SQLite) ListTasks(ctx context.Context) ([]*task.Task, error) {
	query := `
		SELECT id, name, description, prep_minutes, deadline, created_at
		FROM tasks
		ORDER BY id
	`
	return s.queryTasks(ctx, query)
}

// ListTasksInRange returns tasks with a slot or a deadline within the date
// range (inclusive), in creation order.
func (s *SQLite) ListTasksInRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	query := `
		SELECT id, name, description, prep_minutes, deadline, created_at
		FROM tasks
		WHERE (deadline >= ? AND deadline <= ?)
		   OR id IN (SELECT task_id FROM slots WHERE slot_date >= ? AND slot_date <= ?)
		ORDER BY id
	`
	from, to := start.Format("2006-01-02"), end.Format("2006-01-02")
	return s.queryTasks(ctx, query, from, to, from, to)
}

func (s *SQLite) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		tasks []*task.Task
		ids   []int64
	)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	slots, err := s.loadSlots(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		t.Slots = slots[t.ID]
	}

	return tasks, nil
}

// ListSlotsByDateRange returns all slots within the date range (inclusive),
// ordered by date and start time.
func (s *SQLite) ListSlotsByDateRange(ctx context.Context, start, end time.Time) ([]task.Slot, error) {
	query := `
		SELECT s.task_id, t.name, s.slot_date, s.start_time, s.duration, s.label, s.outcome
		FROM slots s
		JOIN tasks t ON t.id = s.task_id
		WHERE s.slot_date >= ? AND s.slot_date <= ?
		ORDER BY s.slot_date, s.start_time, s.task_id, s.position
	`

	rows, err := s.db.QueryContext(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []task.Slot
	for rows.Next() {
		sl, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return slots, nil
}

// loadSlots returns the slots of the given tasks keyed by task ID, each in
// planning order.
func (s *SQLite) loadSlots(ctx context.Context, ids []int64) (map[int64][]task.Slot, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `
		SELECT s.task_id, t.name, s.slot_date, s.start_time, s.duration, s.label, s.outcome
		FROM slots s
		JOIN tasks t ON t.id = s.task_id
		WHERE s.task_id IN (` + placeholders + `)
		ORDER BY s.task_id, s.position
	`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]task.Slot, len(ids))
	for rows.Next() {
		sl, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out[sl.TaskID] = append(out[sl.TaskID], sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}

	return out, nil
}

// DeleteTask removes a task and its slots.
func (s *SQLite) DeleteTask(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("deleting slots: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: #%d", task.ErrTaskNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ReplaceSlots atomically replaces the slots of every given task.
// If any task does not exist nothing is changed.
func (s *SQLite) ReplaceSlots(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tasks {
		if err := ensureTaskExists(ctx, tx, t.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE task_id = ?`, t.ID); err != nil {
			return fmt.Errorf("clearing slots of task %d: %w", t.ID, err)
		}
		if err := insertSlots(ctx, tx, t.ID, t.Slots); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func ensureTaskExists(ctx context.Context, q querier, id int64) error {
	var found int64
	err := q.QueryRowContext(ctx, `SELECT id FROM tasks WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: #%d", task.ErrTaskNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("looking up task %d: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t         task.Task
		deadline  string
		createdAt string
	)

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.PrepMinutes,
		&deadline,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Deadline, err = parseDate(deadline)
	if err != nil {
		return nil, fmt.Errorf("parsing deadline: %w", err)
	}

	t.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &t, nil
}

func scanSlot(row scanner) (task.Slot, error) {
	var (
		sl      task.Slot
		date    string
		outcome string
	)

	if err := row.Scan(
		&sl.TaskID,
		&sl.TaskName,
		&date,
		&sl.Start,
		&sl.Duration,
		&sl.Label,
		&outcome,
	); err != nil {
		return sl, fmt.Errorf("scanning slot: %w", err)
	}

	d, err := parseDate(date)
	if err != nil {
		return sl, fmt.Errorf("parsing slot date: %w", err)
	}
	sl.Date = d
	sl.Outcome = task.Outcome(outcome)

	return sl, nil
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values are interpreted as local midnight.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// parseTimestamp parses a DATETIME value.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
