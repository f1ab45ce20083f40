package db

import (
	"database/sql"
	"time"
)

// Stats represents database statistics
type Stats struct {
	TotalRecords int
	TotalBytes   int64
	LastWrite    time.Time
}

// GetStats returns record statistics
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow("SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(value AS BLOB))), 0) FROM records").
		Scan(&stats.TotalRecords, &stats.TotalBytes)
	if err != nil {
		return nil, err
	}

	if stats.TotalRecords == 0 {
		return stats, nil
	}

	var lastWrite sql.NullString
	if err := db.QueryRow("SELECT MAX(updated_at) FROM records").Scan(&lastWrite); err != nil {
		return nil, err
	}

	if lastWrite.Valid {
		// Try to parse the timestamp
		formats := []string{
			time.RFC3339,
			time.RFC3339Nano,
			"2006-01-02 15:04:05",
		}
		for _, format := range formats {
			if t, parseErr := time.Parse(format, lastWrite.String); parseErr == nil {
				stats.LastWrite = t
				break
			}
		}
	}

	return stats, nil
}
