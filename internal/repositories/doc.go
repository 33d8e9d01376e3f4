// Package repositories implements SQLite persistence for play history.
//
// Key Implementations:
//   - [PlayRepository] : one row per playback start, with recent-play and per-track aggregate queries
//
// [PlayRepository] satisfies player.Recorder, so the playback controller can write history directly.
// History is opt-in; without it the player keeps no state beyond the session.
package repositories
