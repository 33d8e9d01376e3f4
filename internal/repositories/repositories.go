package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// parseTimestamp parses a timestamp returned by an aggregate column, which the driver hands back as text.
func parseTimestamp(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	layouts := append([]string{time.RFC3339Nano}, sqlite3.SQLiteTimestampFormats...)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s.String, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s.String)
}
