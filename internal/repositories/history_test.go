package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// steppingClock returns a time source that advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func TestPlayRepository(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	alpha := models.Track{ID: "a", Title: "Alpha", Album: "One"}
	beta := models.Track{ID: "b", Title: "Beta", Album: "Two"}

	t.Run("Create", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		play := models.NewPlay(alpha, base)

		if err := repo.Create(play); err != nil {
			t.Fatalf("failed to create play: %v", err)
		}
		if play.ID == "" {
			t.Error("play ID should be set after creation")
		}
	})

	t.Run("Create Requires Track ID", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))

		err := repo.Create(&models.Play{Title: "nameless"})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Create Defaults PlayedAt", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		repo.now = func() time.Time { return base }

		play := &models.Play{TrackID: "a", Title: "Alpha"}
		if err := repo.Create(play); err != nil {
			t.Fatalf("failed to create play: %v", err)
		}
		if !play.PlayedAt.Equal(base) {
			t.Errorf("expected played_at %v, got %v", base, play.PlayedAt)
		}
	})

	t.Run("Recent", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		repo.now = steppingClock(base)

		for _, tr := range []models.Track{alpha, beta, alpha} {
			if err := repo.RecordPlay(tr); err != nil {
				t.Fatalf("failed to record play: %v", err)
			}
		}

		plays, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to list plays: %v", err)
		}
		if len(plays) != 2 {
			t.Fatalf("expected 2 plays, got %d", len(plays))
		}
		if plays[0].TrackID != "a" || plays[1].TrackID != "b" {
			t.Errorf("expected newest first, got %s then %s", plays[0].TrackID, plays[1].TrackID)
		}
		if !plays[0].PlayedAt.Equal(base.Add(2 * time.Minute)) {
			t.Errorf("unexpected played_at %v", plays[0].PlayedAt)
		}
		if plays[1].Album != "Two" {
			t.Errorf("expected album Two, got %q", plays[1].Album)
		}
	})

	t.Run("Recent Empty", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))

		plays, err := repo.Recent(10)
		if err != nil {
			t.Fatalf("failed to list plays: %v", err)
		}
		if len(plays) != 0 {
			t.Errorf("expected no plays, got %d", len(plays))
		}
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))

		if _, err := repo.Recent(0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument from Recent, got %v", err)
		}
		if _, err := repo.CountByTrack(-1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument from CountByTrack, got %v", err)
		}
	})

	t.Run("CountByTrack", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		repo.now = steppingClock(base)

		for _, tr := range []models.Track{alpha, beta, alpha} {
			if err := repo.RecordPlay(tr); err != nil {
				t.Fatalf("failed to record play: %v", err)
			}
		}

		counts, err := repo.CountByTrack(10)
		if err != nil {
			t.Fatalf("failed to count plays: %v", err)
		}
		if len(counts) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(counts))
		}
		if counts[0].TrackID != "a" || counts[0].Plays != 2 || counts[0].Title != "Alpha" {
			t.Errorf("unexpected top track %+v", counts[0])
		}
		if !counts[0].LastPlayed.Equal(base.Add(2 * time.Minute)) {
			t.Errorf("expected last played %v, got %v", base.Add(2*time.Minute), counts[0].LastPlayed)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewPlayRepository(setupTestDB(t))
		repo.RecordPlay(alpha)
		repo.RecordPlay(beta)

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 rows removed, got %d", n)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlayRepository(db)
		db.Close()

		if err := repo.RecordPlay(alpha); err == nil {
			t.Error("expected error recording on closed database")
		}
		if _, err := repo.Recent(5); err == nil {
			t.Error("expected error listing on closed database")
		}
		if _, err := repo.Clear(); err == nil {
			t.Error("expected error clearing on closed database")
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 3, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      sql.NullString
		want    time.Time
		wantErr bool
	}{
		{"null", sql.NullString{}, time.Time{}, false},
		{"driver format", sql.NullString{String: "2024-05-01 12:03:00+00:00", Valid: true}, want, false},
		{"rfc3339", sql.NullString{String: "2024-05-01T12:03:00Z", Valid: true}, want, false},
		{"garbage", sql.NullString{String: "yesterday", Valid: true}, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
