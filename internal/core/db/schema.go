package db

func (db *DB) initSchema() error {
	schema := `
	-- Named session records (mode, inputs, last screen, cached results, history)
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	return err
}
