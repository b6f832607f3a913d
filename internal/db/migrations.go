package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tasks (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			prep_minutes INTEGER NOT NULL CHECK(prep_minutes > 0),
			deadline     DATE NOT NULL,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS slots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			slot_date  DATE NOT NULL,
			start_time TIME NOT NULL,
			duration   INTEGER NOT NULL CHECK(duration > 0),
			label      TEXT NOT NULL DEFAULT '',
			outcome    TEXT NOT NULL DEFAULT 'placed'
			           CHECK(outcome IN ('placed', 'placed_with_overlap', 'fallback_whole_duration'))
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline);
		CREATE INDEX IF NOT EXISTS idx_slots_date ON slots(slot_date);
		CREATE INDEX IF NOT EXISTS idx_slots_task ON slots(task_id, position);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
