// Package services implements the HTTP client for the catalog backend.
//
// # Catalog Interface
//
// [Catalog] lists songs and albums. [APIService] implements it against
//
//	GET {base}/api/song/list  -> { "success": true, "songs":  [...] }
//	GET {base}/api/album/list -> { "success": true, "albums": [...] }
//
// Requests are paced by an optional [rate.Limiter] so repeated reloads from the UI cannot
// hammer the backend.
//
// # Authentication
//
// The backend is unauthenticated by default. When client credentials are configured,
// [NewHTTPClient] returns an [oauth2] client that attaches and refreshes bearer tokens.
//
// # Error Handling
//
// Every failure wraps [shared.ErrAPIRequest]: transport errors, non-2xx statuses, a false
// "success" flag and undecodable bodies. Callers decide whether to surface or just log them.
package services
