package sqlstore

import "fmt"

// CreateSchema creates the tables on a fresh SQLite database. Postgres
// deployments provision their schema outside of this program.
func (s Storage) CreateSchema() error {
	if s.db.DriverName() != SQLiteDriver {
		return fmt.Errorf("sqlstore: schema bootstrap is only available for %s", SQLiteDriver)
	}
	for _, stmt := range sqliteSchema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS calendar (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		main_id INTEGER NULL,
		sub_id INTEGER NULL,
		task_id INTEGER NULL,
		event_name TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		notes TEXT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_user_main ON calendar (user_id, main_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_user_sub ON calendar (user_id, sub_id)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR NOT NULL PRIMARY KEY,
		auth TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_exports (
		target_id VARCHAR NOT NULL,
		event_id INTEGER NOT NULL,
		provider_id VARCHAR NOT NULL,
		PRIMARY KEY (target_id, event_id)
	)`,
}
