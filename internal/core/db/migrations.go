package db

import (
	"fmt"
)

// runMigrations applies database migrations for existing databases
func (db *DB) runMigrations() error {
	// Migration 1: records tables created before updated_at existed
	if err := db.migration001AddRecordTimestamps(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	return nil
}

// migration001AddRecordTimestamps adds the updated_at column to records
func (db *DB) migration001AddRecordTimestamps() error {
	var hasUpdatedAt bool
	err := db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('records')
		WHERE name='updated_at'
	`).Scan(&hasUpdatedAt)
	if err != nil {
		return err
	}

	if !hasUpdatedAt {
		// SQLite rejects non-constant defaults in ALTER TABLE, so backfill instead
		_, err = db.Exec(`
			ALTER TABLE records ADD COLUMN updated_at DATETIME;
			UPDATE records SET updated_at = CURRENT_TIMESTAMP WHERE updated_at IS NULL;
		`)
		if err != nil {
			return err
		}
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_records_updated_at ON records(updated_at)`)
	return err
}
