package ui

import (
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/tasks"
)

// catalogLoadedMsg arrives when a background load settles, successful or not.
type catalogLoadedMsg struct {
	result tasks.LoadResult
}

// playbackMsg carries a controller snapshot.
type playbackMsg models.PlaybackState

// playbackClosedMsg means the controller's update channel was closed.
type playbackClosedMsg struct{}

// artworkOpenedMsg reports the result of handing an image URL to the browser.
type artworkOpenedMsg struct {
	url string
	err error
}
