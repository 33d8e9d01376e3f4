// Package models defines the catalog and playback entities shared by the jukebox packages.
//
// Catalog types mirror the backend's JSON payloads:
//   - [Track] : a playable song with its audio source and artwork
//   - [Album] : album metadata used to group tracks in the display
//   - [Catalog] : the ordered, read-only track collection for a session
//
// Playback types are snapshots handed to the UI:
//   - [PlaybackState] : selected track, [Status], elapsed and total [Clock] values
//
// All types here are values; nothing in this package mutates shared state.
package models
