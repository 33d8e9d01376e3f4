package models

import "time"

// Play is one row of play history, written when playback of a track starts.
type Play struct {
	ID       string    `json:"id"`
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Album    string    `json:"album"`
	PlayedAt time.Time `json:"played_at"`
}

// PlayCount aggregates plays per track.
type PlayCount struct {
	TrackID    string    `json:"track_id"`
	Title      string    `json:"title"`
	Plays      int       `json:"plays"`
	LastPlayed time.Time `json:"last_played"`
}

// NewPlay builds a [Play] for t at the given time. The ID is assigned on insert.
func NewPlay(t Track, at time.Time) *Play {
	return &Play{TrackID: t.ID, Title: t.Title, Album: t.Album, PlayedAt: at}
}
