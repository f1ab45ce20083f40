package db

import (
	"database/sql"
	"fmt"
)

// RecordOp is a single write against the records table. Delete removes the
// key; otherwise Value is stored under Key.
type RecordOp struct {
	Key    string
	Value  string
	Delete bool
}

// GetRecord returns the raw value stored under key. ok is false when the
// key has never been written or was removed.
func (db *DB) GetRecord(key string) (value string, ok bool, err error) {
	err = db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// ApplyRecords applies all ops in one transaction
func (db *DB) ApplyRecords(ops []RecordOp) error {
	if len(ops) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		if op.Delete {
			if _, err := tx.Exec(`DELETE FROM records WHERE key = ?`, op.Key); err != nil {
				return fmt.Errorf("delete %s: %w", op.Key, err)
			}
			continue
		}

		_, err := tx.Exec(`
			INSERT INTO records (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP
		`, op.Key, op.Value)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", op.Key, err)
		}
	}

	return tx.Commit()
}

// ListRecordKeys returns every stored key in alphabetical order
func (db *DB) ListRecordKeys() ([]string, error) {
	rows, err := db.Query(`SELECT key FROM records ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
