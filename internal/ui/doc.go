// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The screen is split into three regions:
//  1. Sidebar : navigation between [HomeView], [AlbumsView] and [AlbumView]
//  2. Display : a bubbles list of songs or albums for the active view
//  3. Player bar : now playing, a clickable seek bar, elapsed/total time and key hints
//
// The (view) [Model] keeps no playback state of its own. Everything it renders comes from app.State,
// and transport keys call straight into the player.Controller. Snapshots flow back through the
// controller's update channel, read one at a time by a waiting command so the UI never blocks it.
//
// Keyboard: space play/pause, n/p next/previous, enter select, esc back, tab switch view,
// ←/→ seek, r reload, o open artwork, q quit. A left click on the seek bar jumps to that position.
package ui
