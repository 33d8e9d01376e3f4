// package models defines the data model for the jukebox player
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Track represents a single song returned by GET /api/song/list.
type Track struct {
	ID       string `json:"_id"`
	Title    string `json:"name"`
	Desc     string `json:"desc"`
	Album    string `json:"album"`
	Image    string `json:"image"`
	File     string `json:"file"`
	Duration string `json:"duration"` // "m:ss" as reported by the backend
}

// Seconds parses [Track.Duration], returning 0 when it is missing or malformed.
func (t Track) Seconds() float64 {
	return ParseDuration(t.Duration)
}

// Album represents an album returned by GET /api/album/list.
type Album struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	BgColour string `json:"bgColour"`
	Image    string `json:"image"`
}

// Clock is a minute/second pair as displayed by the player bar.
type Clock struct {
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// ClockFromSeconds splits s into whole minutes and seconds.
// Negative, NaN and infinite inputs produce the zero Clock.
func ClockFromSeconds(s float64) Clock {
	if !Known(s) || s < 0 {
		return Clock{}
	}
	return Clock{
		Minute: int(math.Floor(s / 60)),
		Second: int(math.Floor(math.Mod(s, 60))),
	}
}

// Seconds converts c back to a second count.
func (c Clock) Seconds() int { return c.Minute*60 + c.Second }

func (c Clock) String() string { return fmt.Sprintf("%d:%02d", c.Minute, c.Second) }

// Known reports whether d is a usable duration: finite and positive.
func Known(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

// ParseDuration parses "m:ss" or "h:mm:ss" (or a bare second count) into seconds.
func ParseDuration(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	total := 0
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return float64(total)
}

// Status is the transport status of the player.
type Status int

const (
	Paused Status = iota
	Playing
)

func (s Status) String() string {
	if s == Playing {
		return "playing"
	}
	return "paused"
}

// PlaybackState is an immutable snapshot of the playback controller.
type PlaybackState struct {
	Track    *Track  // nil before the first catalog load
	Status   Status
	Elapsed  Clock
	Total    Clock
	Progress float64 // seek bar fill, 0-100
}

// Playing reports whether the status is [Playing].
func (p PlaybackState) Playing() bool { return p.Status == Playing }
