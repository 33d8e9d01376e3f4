// Package player implements the playback controller and the audio primitive it drives.
//
// # Element
//
// [Element] is the audio primitive contract: play, pause, a mutable current time, a readable
// duration, and a periodic time-update event. Subscriptions return a cancel func so callers
// can tear them down deterministically.
//
// [ClockElement] is the bundled implementation. It advances playback against the wall clock
// using the track's duration metadata and does not decode audio.
//
// # Controller
//
// [Controller] owns the selected track, the transport [models.Status] and the derived
// elapsed/total clocks. Operations on a missing track, an unknown id or a catalog bound are
// no-ops, never errors. Selection starts playback after a fixed delay so the element can load
// the new source first; the delay is best-effort ordering, not a readiness guarantee.
//
// Snapshots are published on [Controller.Updates] without blocking; a slow reader misses
// intermediate ticks but always sees a later one.
//
// # Seeking
//
// [SeekPosition] maps a click offset on a bar of a given width onto a position within the
// element's duration. [Controller.Seek] applies it synchronously.
package player
