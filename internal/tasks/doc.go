// Package tasks loads the song and album catalog in the background with real-time progress reporting.
//
// # Core Operation
//
// [Loader.Load] issues two independent requests against a [services.Catalog]:
//
//   - ListSongs replaces the song collection held by the [Sink]
//   - ListAlbums replaces the album collection held by the [Sink]
//
// The requests run concurrently with no ordering between them. A failed request is logged and leaves
// the corresponding collection untouched. Nothing is retried.
//
// # Stale Results
//
// Every call to Load takes a new generation number. A result is handed to the sink only if its context
// is still live and no newer Load has started since. Anything else is discarded and logged at debug level.
//
// # Progress Reporting
//
// Load accepts an optional channel of [ProgressUpdate] values. Updates use select with default to prevent blocking.
package tasks
