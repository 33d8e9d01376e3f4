// Package server provides HTTP routing, middleware, and a fixture catalog API for local development.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Fixture Catalog
//
// [CatalogHandler] serves GET /api/song/list and GET /api/album/list from a JSON fixture file, in the same
// envelope the real backend uses. An optional delay makes it easy to exercise reload races by hand.
// With [FixtureOptions.MediaDir] set, audio files are served under [MediaPath] so scanned libraries are playable.
//
// [Watcher] reloads the served catalog when the fixture file or library directory changes.
//
// # Client Credentials
//
// [TokenHandler] issues bearer tokens for the client-credentials grant and [TokenHandler.Require] rejects
// requests without a valid one, so the player's OAuth configuration can be exercised without a real provider.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
