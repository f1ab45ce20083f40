package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	_ = tmpfile.Close()

	database, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNew(t *testing.T) {
	database := newTestDB(t)

	var count int
	err := database.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='records'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected records table, got %d", count)
	}
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.db")

	database, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
}

func TestNew_WALMode(t *testing.T) {
	database := newTestDB(t)

	var journalMode string
	if err := database.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %s", journalMode)
	}
}

func TestRecords(t *testing.T) {
	database := newTestDB(t)

	if _, ok, err := database.GetRecord("mode"); err != nil || ok {
		t.Fatalf("GetRecord(missing) = ok %v, err %v", ok, err)
	}

	err := database.ApplyRecords([]RecordOp{
		{Key: "mode", Value: `"multi"`},
		{Key: "last_screen", Value: `"results"`},
	})
	if err != nil {
		t.Fatalf("ApplyRecords() error = %v", err)
	}

	value, ok, err := database.GetRecord("mode")
	if err != nil || !ok || value != `"multi"` {
		t.Fatalf("GetRecord(mode) = %q, %v, %v", value, ok, err)
	}

	// Overwrite and delete in the same batch
	err = database.ApplyRecords([]RecordOp{
		{Key: "mode", Value: `"single"`},
		{Key: "last_screen", Delete: true},
	})
	if err != nil {
		t.Fatalf("ApplyRecords() error = %v", err)
	}

	value, _, _ = database.GetRecord("mode")
	if value != `"single"` {
		t.Errorf("mode = %q after overwrite", value)
	}
	if _, ok, _ := database.GetRecord("last_screen"); ok {
		t.Error("last_screen still present after delete")
	}

	keys, err := database.ListRecordKeys()
	if err != nil {
		t.Fatalf("ListRecordKeys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "mode" {
		t.Errorf("ListRecordKeys() = %v", keys)
	}
}

func TestApplyRecords_Empty(t *testing.T) {
	database := newTestDB(t)
	if err := database.ApplyRecords(nil); err != nil {
		t.Errorf("ApplyRecords(nil) error = %v", err)
	}
}

func TestGetStats(t *testing.T) {
	database := newTestDB(t)

	stats, err := database.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalRecords != 0 || stats.TotalBytes != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	if err := database.ApplyRecords([]RecordOp{{Key: "a", Value: "1234"}, {Key: "b", Value: "56"}}); err != nil {
		t.Fatal(err)
	}

	stats, err = database.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", stats.TotalRecords)
	}
	if stats.TotalBytes != 6 {
		t.Errorf("TotalBytes = %d, want 6", stats.TotalBytes)
	}
	if stats.LastWrite.IsZero() {
		t.Error("LastWrite not set")
	}
}

func TestMigration001_AddsUpdatedAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Simulate a database created before records carried timestamps
	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := legacy.Exec(`
		CREATE TABLE records (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		INSERT INTO records (key, value) VALUES ('mode', '"multi"');
	`); err != nil {
		t.Fatal(err)
	}
	_ = legacy.Close()

	database, err := New(path)
	if err != nil {
		t.Fatalf("New() on legacy database error = %v", err)
	}
	defer func() { _ = database.Close() }()

	var columns int
	err = database.conn.QueryRow("SELECT COUNT(*) FROM pragma_table_info('records') WHERE name='updated_at'").Scan(&columns)
	if err != nil {
		t.Fatal(err)
	}
	if columns != 1 {
		t.Fatalf("updated_at column missing after migration")
	}

	value, ok, err := database.GetRecord("mode")
	if err != nil || !ok || value != `"multi"` {
		t.Errorf("legacy record lost: %q, %v, %v", value, ok, err)
	}
}
