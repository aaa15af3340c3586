package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run. Append only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS recent_documents (
		path       TEXT PRIMARY KEY,
		opened_at  TEXT NOT NULL,
		open_count INTEGER NOT NULL DEFAULT 1 CHECK(open_count > 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recent_documents_opened ON recent_documents(opened_at DESC)`,
	`ALTER TABLE recent_documents ADD COLUMN format TEXT NOT NULL DEFAULT 'xml'
		CHECK(format IN ('xml','yaml'))`,
}

// SchemaVersion is the user_version of a fully migrated database.
func SchemaVersion() int { return len(migrations) }

// Migrate applies every migration newer than the database's user_version.
// Each step runs in its own transaction together with the version bump.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("schema version %d is newer than this build (%d)", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: beginning transaction: %w", i, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: recording version: %w", i, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: committing: %w", i, err)
		}
	}
	return nil
}
