package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/jukebox/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = albumItem{}
)

// songItem wraps [models.Track] to implement [list.Item].
type songItem struct {
	track   models.Track
	current bool
}

func (i songItem) FilterValue() string { return i.track.Title }
func (i songItem) Title() string {
	if i.current {
		return "♪ " + i.track.Title
	}
	return i.track.Title
}
func (i songItem) Description() string {
	desc := durationLabel(i.track)
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", i.track.Album, desc)
	}
	return desc
}

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album  models.Album
	tracks int
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.tracks)
	if i.album.Desc != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.album.Desc)
	}
	return desc
}

func songItems(tracks []models.Track, currentID string) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = songItem{track: t, current: t.ID != "" && t.ID == currentID}
	}
	return items
}

func durationLabel(t models.Track) string {
	secs := t.Seconds()
	if !models.Known(secs) {
		return "--:--"
	}
	return models.ClockFromSeconds(secs).String()
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}
