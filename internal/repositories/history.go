package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

// PlayRepository persists [models.Play] rows in the plays table.
type PlayRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPlayRepository creates a new PlayRepository with the given database connection
func NewPlayRepository(db *sql.DB) *PlayRepository {
	return &PlayRepository{db: db, now: time.Now}
}

// Create inserts a play with a generated ID
func (r *PlayRepository) Create(play *models.Play) error {
	if play.TrackID == "" {
		return fmt.Errorf("%w: play requires a track id", shared.ErrInvalidArgument)
	}
	if play.PlayedAt.IsZero() {
		play.PlayedAt = r.now()
	}
	play.ID = shared.GenerateID()

	query := `
		INSERT INTO plays (id, track_id, title, album, played_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.Exec(query, play.ID, play.TrackID, play.Title, play.Album, play.PlayedAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}
	return nil
}

// RecordPlay implements player.Recorder.
func (r *PlayRepository) RecordPlay(t models.Track) error {
	return r.Create(models.NewPlay(t, r.now()))
}

// Recent returns up to limit plays, newest first
func (r *PlayRepository) Recent(limit int) ([]models.Play, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", shared.ErrInvalidArgument, limit)
	}

	query := `
		SELECT id, track_id, title, album, played_at
		FROM plays
		ORDER BY played_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []models.Play
	for rows.Next() {
		var p models.Play
		if err := rows.Scan(&p.ID, &p.TrackID, &p.Title, &p.Album, &p.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		plays = append(plays, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return plays, nil
}

// CountByTrack aggregates plays per track, most played first
func (r *PlayRepository) CountByTrack(limit int) ([]models.PlayCount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", shared.ErrInvalidArgument, limit)
	}

	query := `
		SELECT track_id, MAX(title), COUNT(*), MAX(played_at)
		FROM plays
		GROUP BY track_id
		ORDER BY COUNT(*) DESC, MAX(played_at) DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query play counts: %w", err)
	}
	defer rows.Close()

	var counts []models.PlayCount
	for rows.Next() {
		var (
			c    models.PlayCount
			last sql.NullString
		)
		if err := rows.Scan(&c.TrackID, &c.Title, &c.Plays, &last); err != nil {
			return nil, fmt.Errorf("failed to scan play count: %w", err)
		}
		if c.LastPlayed, err = parseTimestamp(last); err != nil {
			return nil, fmt.Errorf("failed to scan play count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return counts, nil
}

// Clear deletes every play and returns the number of rows removed
func (r *PlayRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM plays`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear plays: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}
