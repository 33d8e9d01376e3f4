package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jukebox/internal/app"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
	tu "github.com/desertthunder/jukebox/internal/testing"
)

const (
	testWidth  = 100
	testHeight = 30
)

type harness struct {
	model     *Model
	state     *app.State
	element   *tu.FakeElement
	scheduler *tu.ManualScheduler
}

func newHarness(t *testing.T, catalog *tu.MockCatalog) *harness {
	t.Helper()

	h := &harness{element: tu.NewFakeElement(), scheduler: &tu.ManualScheduler{}}
	logger := shared.NewLogger(io.Discard)

	state, err := app.New(context.Background(), app.Options{
		Catalog:   catalog,
		Element:   h.element,
		Logger:    logger,
		AfterFunc: h.scheduler.AfterFunc,
	})
	if err != nil {
		t.Fatalf("failed to create state: %v", err)
	}
	t.Cleanup(func() { state.Close() })

	h.state = state
	h.model = NewModel(state, logger)
	h.model.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	return h
}

// loaded returns a harness whose catalog load has completed.
func loaded(t *testing.T, catalog *tu.MockCatalog) *harness {
	t.Helper()
	h := newHarness(t, catalog)
	h.model.Update(h.model.load()())
	return h
}

func (h *harness) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = h.model.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func catalog() *tu.MockCatalog {
	songs := tu.Tracks("a", "b", "c")
	songs[0].Image = "http://cdn/a.jpg"
	songs[2].Album = "Other"
	return &tu.MockCatalog{
		Songs: songs,
		Albums: []models.Album{
			{ID: "x", Name: "Album", Image: "http://cdn/x.jpg", BgColour: "#112233"},
			{ID: "y", Name: "Other"},
		},
	}
}

func TestModelLoad(t *testing.T) {
	t.Run("Populates Lists", func(t *testing.T) {
		h := loaded(t, catalog())

		if n := len(h.model.songs.Items()); n != 3 {
			t.Errorf("expected 3 songs, got %d", n)
		}
		if n := len(h.model.albums.Items()); n != 2 {
			t.Errorf("expected 2 albums, got %d", n)
		}
		if h.model.loading {
			t.Error("loading flag should be cleared")
		}
		if !strings.Contains(h.model.status, "3 songs") {
			t.Errorf("unexpected status %q", h.model.status)
		}
		if h.model.playback.Track == nil || h.model.playback.Track.ID != "a" {
			t.Errorf("expected first track selected, got %+v", h.model.playback.Track)
		}
	})

	t.Run("Marks Current Song", func(t *testing.T) {
		h := loaded(t, catalog())

		first, ok := h.model.songs.Items()[0].(songItem)
		if !ok || !first.current || !strings.HasPrefix(first.Title(), "♪") {
			t.Errorf("expected first song marked current, got %+v", first)
		}
	})

	t.Run("Failure Leaves UI Inert", func(t *testing.T) {
		h := loaded(t, &tu.MockCatalog{SongsErr: shared.ErrAPIRequest, AlbumsErr: shared.ErrAPIRequest})

		if len(h.model.songs.Items()) != 0 {
			t.Error("expected no songs")
		}
		if h.model.status != "" {
			t.Errorf("load errors should not be surfaced, got status %q", h.model.status)
		}

		h.press("space", "n", "p", "right", "enter")
		if h.element.Plays != 0 || h.model.playback.Track != nil {
			t.Error("transport keys should be no-ops without a catalog")
		}
	})

	t.Run("Reload", func(t *testing.T) {
		cat := catalog()
		h := loaded(t, cat)

		cmd := h.press("r")
		if cmd == nil || !h.model.loading {
			t.Fatal("expected reload command")
		}
		h.model.Update(cmd())

		if songs, _ := cat.Calls(); songs != 2 {
			t.Errorf("expected two song fetches, got %d", songs)
		}
	})

	t.Run("Failed Reload Restores Status", func(t *testing.T) {
		cat := catalog()
		h := loaded(t, cat)
		before := h.model.status

		cat.SongsErr = shared.ErrAPIRequest
		cat.AlbumsErr = shared.ErrAPIRequest

		cmd := h.press("r")
		if h.model.status != "loading…" {
			t.Fatalf("expected loading status during reload, got %q", h.model.status)
		}
		h.model.Update(cmd())

		if h.model.loading {
			t.Error("loading flag should be cleared")
		}
		if h.model.status != before {
			t.Errorf("expected status %q after failed reload, got %q", before, h.model.status)
		}
		if n := len(h.model.songs.Items()); n != 3 {
			t.Errorf("expected the previous 3 songs to remain, got %d", n)
		}
	})
}

func TestModelTransport(t *testing.T) {
	t.Run("Space Toggles", func(t *testing.T) {
		h := loaded(t, catalog())

		h.press("space")
		if !h.model.playback.Playing() || h.element.Plays != 1 {
			t.Fatalf("expected playing after space, got %+v", h.model.playback)
		}

		h.press("space")
		if h.model.playback.Playing() {
			t.Error("expected paused after second space")
		}
	})

	t.Run("Enter Plays Highlighted Song", func(t *testing.T) {
		h := loaded(t, catalog())
		h.model.songs.Select(1)

		h.press("enter")
		if h.model.playback.Track == nil || h.model.playback.Track.ID != "b" || !h.model.playback.Playing() {
			t.Fatalf("expected b playing, got %+v", h.model.playback)
		}
		if h.element.Plays != 0 {
			t.Error("element should wait for the play delay")
		}

		h.scheduler.RunAll()
		if h.element.Plays != 1 {
			t.Errorf("expected delayed play, got %d plays", h.element.Plays)
		}
	})

	t.Run("Next And Previous", func(t *testing.T) {
		h := loaded(t, catalog())

		h.press("n", "n", "n")
		if id := h.model.playback.Track.ID; id != "c" {
			t.Errorf("expected c after next at the end, got %s", id)
		}

		h.press("p")
		if id := h.model.playback.Track.ID; id != "b" {
			t.Errorf("expected b after previous, got %s", id)
		}
	})

	t.Run("Arrow Keys Seek", func(t *testing.T) {
		h := loaded(t, catalog())

		h.press("right", "right")
		if got := h.element.CurrentTime(); got != 10 {
			t.Errorf("expected 10s after two steps, got %v", got)
		}

		h.press("left", "left", "left")
		if got := h.element.CurrentTime(); got != 0 {
			t.Errorf("expected clamp at 0, got %v", got)
		}
	})

	t.Run("Playback Snapshot", func(t *testing.T) {
		h := loaded(t, catalog())
		snap := models.PlaybackState{
			Track:    &models.Track{ID: "b", Title: "Song b"},
			Status:   models.Playing,
			Elapsed:  models.Clock{Minute: 1, Second: 5},
			Total:    models.Clock{Minute: 2, Second: 10},
			Progress: 50,
		}

		_, cmd := h.model.Update(playbackMsg(snap))
		if cmd == nil {
			t.Error("expected follow-up wait command")
		}
		if h.model.playback.Progress != 50 || h.model.playback.Track.ID != "b" {
			t.Errorf("snapshot not applied: %+v", h.model.playback)
		}

		second, _ := h.model.songs.Items()[1].(songItem)
		if !second.current {
			t.Error("expected song list to follow the new track")
		}
	})
}

func TestModelMouse(t *testing.T) {
	t.Run("Click On Seek Bar", func(t *testing.T) {
		h := loaded(t, catalog())

		left, width := h.model.seekLayout()
		if left != 6 || width != testWidth-12 {
			t.Fatalf("unexpected layout left=%d width=%d", left, width)
		}

		h.model.Update(tea.MouseMsg{X: left + width/2, Y: testHeight - 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		if got := h.element.CurrentTime(); got != 65 {
			t.Errorf("expected seek to 65s, got %v", got)
		}
	})

	t.Run("Ignored Off The Bar", func(t *testing.T) {
		tests := []struct {
			name string
			msg  tea.MouseMsg
		}{
			{"other row", tea.MouseMsg{X: 50, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
			{"time label", tea.MouseMsg{X: 2, Y: testHeight - 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
			{"release", tea.MouseMsg{X: 50, Y: testHeight - 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}},
			{"right button", tea.MouseMsg{X: 50, Y: testHeight - 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := loaded(t, catalog())
				h.model.Update(tt.msg)
				if got := h.element.CurrentTime(); got != 0 {
					t.Errorf("expected no seek, got %v", got)
				}
			})
		}
	})

	t.Run("Unknown Duration", func(t *testing.T) {
		cat := catalog()
		for i := range cat.Songs {
			cat.Songs[i].Duration = ""
		}
		h := loaded(t, cat)

		h.model.Update(tea.MouseMsg{X: 50, Y: testHeight - 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
		if got := h.element.CurrentTime(); got != 0 {
			t.Errorf("expected no seek with unknown duration, got %v", got)
		}
	})
}

func TestModelNavigation(t *testing.T) {
	t.Run("Album Browsing", func(t *testing.T) {
		h := loaded(t, catalog())

		h.press("tab")
		if h.model.view != AlbumsView {
			t.Fatalf("expected albums view, got %s", h.model.view)
		}

		h.model.albums.Select(1)
		h.press("enter")
		if h.model.view != AlbumView || h.model.album == nil || h.model.album.Name != "Other" {
			t.Fatalf("expected album detail for Other, got %s %+v", h.model.view, h.model.album)
		}
		if n := len(h.model.detail.Items()); n != 1 {
			t.Errorf("expected 1 track in Other, got %d", n)
		}

		h.press("enter")
		if id := h.model.playback.Track.ID; id != "c" {
			t.Errorf("expected c selected from album, got %s", id)
		}

		h.press("esc")
		if h.model.view != AlbumsView {
			t.Errorf("esc should return to albums, got %s", h.model.view)
		}
		h.press("esc")
		if h.model.view != HomeView {
			t.Errorf("esc should return home, got %s", h.model.view)
		}
	})

	t.Run("Tab Cycles", func(t *testing.T) {
		h := loaded(t, catalog())

		h.press("tab", "tab")
		if h.model.view != HomeView {
			t.Errorf("expected home after two tabs, got %s", h.model.view)
		}
	})

	t.Run("Filtering Swallows Shortcuts", func(t *testing.T) {
		h := loaded(t, catalog())

		h.press("/", "q")
		if h.state.Context().Err() != nil {
			t.Error("q while filtering should not quit")
		}
	})
}

func TestModelArtwork(t *testing.T) {
	t.Run("Opens Current Track Image", func(t *testing.T) {
		h := loaded(t, catalog())
		var opened string
		h.model.open = func(url string) error { opened = url; return nil }

		cmd := h.press("o")
		if cmd == nil {
			t.Fatal("expected open command")
		}
		h.model.Update(cmd())

		if opened != "http://cdn/a.jpg" {
			t.Errorf("expected track artwork, got %q", opened)
		}
	})

	t.Run("Opens Album Image In Albums View", func(t *testing.T) {
		h := loaded(t, catalog())
		var opened string
		h.model.open = func(url string) error { opened = url; return nil }

		h.press("tab")
		h.model.Update(h.press("o")())

		if opened != "http://cdn/x.jpg" {
			t.Errorf("expected album artwork, got %q", opened)
		}
	})

	t.Run("Open Failure", func(t *testing.T) {
		h := loaded(t, catalog())
		h.model.open = func(string) error { return errors.New("no browser") }

		h.model.Update(h.press("o")())
		if h.model.status != "could not open artwork" {
			t.Errorf("unexpected status %q", h.model.status)
		}
	})

	t.Run("No Artwork", func(t *testing.T) {
		h := loaded(t, catalog())
		h.press("n")

		if cmd := h.press("o"); cmd != nil {
			t.Error("expected no command without artwork")
		}
		if h.model.status != "no artwork" {
			t.Errorf("unexpected status %q", h.model.status)
		}
	})
}

func TestModelQuit(t *testing.T) {
	h := loaded(t, catalog())

	cmd := h.press("q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if h.state.Context().Err() == nil {
		t.Error("quit should close the session")
	}
	if !h.element.Closed() {
		t.Error("quit should close the element")
	}

	wait := h.model.waitForUpdate()
	for {
		if _, ok := wait().(playbackClosedMsg); ok {
			break
		}
	}
	if _, next := h.model.Update(playbackClosedMsg{}); next != nil {
		t.Error("closed update channel should end the wait loop")
	}
}

func TestModelView(t *testing.T) {
	t.Run("Before Size", func(t *testing.T) {
		h := newHarness(t, catalog())
		h.model.width = 0
		if h.model.View() != "loading…" {
			t.Error("expected placeholder before the first resize")
		}
	})

	t.Run("Layout", func(t *testing.T) {
		h := loaded(t, catalog())
		view := h.model.View()
		lines := strings.Split(view, "\n")

		if len(lines) != testHeight {
			t.Fatalf("expected %d lines, got %d", testHeight, len(lines))
		}
		for _, want := range []string{"jukebox", "Home", "Albums", "Song a"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q", want)
			}
		}
		if !strings.Contains(lines[h.model.seekRow()], "0:00") {
			t.Errorf("expected time labels on the seek row, got %q", lines[h.model.seekRow()])
		}
	})

	t.Run("Now Playing", func(t *testing.T) {
		h := loaded(t, catalog())
		if !strings.Contains(h.model.renderNowPlaying(), "Song a") {
			t.Error("expected selected title in player bar")
		}

		h.press("space")
		if !strings.Contains(h.model.renderNowPlaying(), "▶") {
			t.Error("expected play glyph while playing")
		}
	})

	t.Run("Nothing Selected", func(t *testing.T) {
		h := loaded(t, &tu.MockCatalog{})
		if !strings.Contains(h.model.renderNowPlaying(), "nothing selected") {
			t.Error("expected placeholder without a track")
		}
	})

	t.Run("Time Labels Align", func(t *testing.T) {
		h := loaded(t, catalog())
		h.model.playback.Elapsed = models.Clock{Second: 5}
		h.model.playback.Total = models.Clock{Minute: 12, Second: 30}

		elapsed, total := h.model.timeLabels()
		if elapsed != " 0:05" || total != "12:30" {
			t.Errorf("unexpected labels %q %q", elapsed, total)
		}
	})
}
