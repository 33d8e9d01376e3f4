// package services defines interface Catalog for reading the backend's song and album lists
package services

import (
	"context"

	"github.com/desertthunder/jukebox/internal/models"
)

// Catalog defines the read operations the player needs from the backend.
type Catalog interface {
	// ListSongs returns every song in server order.
	ListSongs(ctx context.Context) ([]models.Track, error)

	// ListAlbums returns every album in server order.
	ListAlbums(ctx context.Context) ([]models.Album, error)
}

// songListResponse is the body of GET /api/song/list.
type songListResponse struct {
	Success *bool          `json:"success"`
	Message string         `json:"message"`
	Songs   []models.Track `json:"songs"`
}

// albumListResponse is the body of GET /api/album/list.
type albumListResponse struct {
	Success *bool          `json:"success"`
	Message string         `json:"message"`
	Albums  []models.Album `json:"albums"`
}

// failed reports whether the backend explicitly flagged the request as unsuccessful.
func failed(success *bool) bool {
	return success != nil && !*success
}
