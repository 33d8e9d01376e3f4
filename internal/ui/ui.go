package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/app"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

const (
	sidebarWidth    = 22 // content plus padding; the border adds one column
	playerBarHeight = 4  // rule, now playing, seek bar, help
)

// ViewState represents the view shown in the display region.
type ViewState int

const (
	HomeView ViewState = iota
	AlbumsView
	AlbumView
)

func (v ViewState) String() string {
	switch v {
	case HomeView:
		return "Home"
	case AlbumsView:
		return "Albums"
	case AlbumView:
		return "Album"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	state    *app.State
	logger   *log.Logger
	view     ViewState
	width    int
	height   int
	songs    list.Model
	albums   list.Model
	detail   list.Model
	album    *models.Album
	playback models.PlaybackState
	bar      progress.Model
	help     help.Model
	keys     keyMap
	status   string
	settled  string // status to restore when a reload is not applied
	loading  bool
	open     func(url string) error
}

// NewModel creates a new TUI model over a player session.
func NewModel(state *app.State, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Model{
		state:    state,
		logger:   shared.WithLogger(logger, "component", "ui"),
		view:     HomeView,
		songs:    newList(HomeView.String(), nil),
		albums:   newList(AlbumsView.String(), nil),
		detail:   newList("", nil),
		playback: state.Controller().State(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     newKeyMap(),
		open:     shared.OpenURL,
	}
}

// Init loads the catalog once and starts listening for playback snapshots.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.load(), m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case catalogLoadedMsg:
		m.loading = false
		if msg.result.Applied() {
			m.status = fmt.Sprintf("%d songs · %d albums", len(m.state.Songs()), len(m.state.Albums()))
		} else {
			m.status = m.settled
		}
		m.playback = m.state.Controller().State()
		return m, m.refreshLists()

	case playbackMsg:
		return m, tea.Batch(m.syncPlayback(models.PlaybackState(msg)), m.waitForUpdate())

	case playbackClosedMsg:
		return m, nil

	case artworkOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to open artwork", "url", msg.url, "error", msg.err)
			m.status = "could not open artwork"
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the sidebar and display above the player bar.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}

	h := m.contentHeight()
	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderDisplay())
	top = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(top)
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderPlayerBar())
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.activeList()
	if active.FilterState() == list.Filtering {
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		return m.updateList(msg)
	}

	c := m.state.Controller()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.toggle):
		c.Toggle()
	case key.Matches(msg, m.keys.next):
		c.Next()
	case key.Matches(msg, m.keys.previous):
		c.Previous()
	case key.Matches(msg, m.keys.rewind):
		c.SeekBy(-m.state.SeekStep())
	case key.Matches(msg, m.keys.forward):
		c.SeekBy(m.state.SeekStep())
	case key.Matches(msg, m.keys.reload):
		if !m.loading {
			m.settled = m.status
		}
		m.loading = true
		m.status = "loading…"
		return m, m.load()
	case key.Matches(msg, m.keys.open):
		return m, m.openArtwork()
	case key.Matches(msg, m.keys.tab):
		m.cycleView()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		return m, m.choose()
	case key.Matches(msg, m.keys.back):
		if active.FilterState() == list.FilterApplied {
			return m.updateList(msg)
		}
		m.back()
		return m, nil
	default:
		return m.updateList(msg)
	}

	return m, m.syncPlayback(c.State())
}

// handleMouse seeks when the seek bar is left-clicked.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if msg.Y != m.seekRow() {
		return nil
	}

	left, width := m.seekLayout()
	if width <= 0 || msg.X < left || msg.X >= left+width {
		return nil
	}

	c := m.state.Controller()
	if !c.Seek(float64(msg.X-left), float64(width)) {
		return nil
	}
	return m.syncPlayback(c.State())
}

func (m *Model) quit() tea.Cmd {
	if err := m.state.Close(); err != nil {
		m.logger.Error("failed to close session", "error", err)
	}
	return tea.Quit
}

// choose plays the highlighted song or opens the highlighted album.
func (m *Model) choose() tea.Cmd {
	switch m.view {
	case AlbumsView:
		item, ok := m.albums.SelectedItem().(albumItem)
		if !ok {
			return nil
		}
		album := item.album
		m.album = &album
		m.detail.Title = album.Name
		m.detail.Styles.Title = albumBanner(album.BgColour)
		m.detail.ResetSelected()
		m.view = AlbumView
		return m.detail.SetItems(songItems(m.state.AlbumTracks(album.Name), m.currentID()))
	default:
		item, ok := m.activeList().SelectedItem().(songItem)
		if !ok {
			return nil
		}
		c := m.state.Controller()
		c.SelectAndPlay(item.track.ID)
		return m.syncPlayback(c.State())
	}
}

func (m *Model) back() {
	switch m.view {
	case AlbumView:
		m.view = AlbumsView
	case AlbumsView:
		m.view = HomeView
	}
}

func (m *Model) cycleView() {
	if m.view == HomeView {
		m.view = AlbumsView
		return
	}
	m.view = HomeView
}

func (m *Model) openArtwork() tea.Cmd {
	var url string
	if m.view == AlbumsView {
		if item, ok := m.albums.SelectedItem().(albumItem); ok {
			url = item.album.Image
		}
	}
	if url == "" && m.playback.Track != nil {
		url = m.playback.Track.Image
	}
	if url == "" && m.view == AlbumView && m.album != nil {
		url = m.album.Image
	}
	if url == "" {
		m.status = "no artwork"
		return nil
	}

	open := m.open
	return func() tea.Msg {
		return artworkOpenedMsg{url: url, err: open(url)}
	}
}

func (m *Model) load() tea.Cmd {
	state := m.state
	return func() tea.Msg {
		return catalogLoadedMsg{result: state.Load(nil)}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.state.Controller().Updates()
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return playbackClosedMsg{}
		}
		return playbackMsg(s)
	}
}

// syncPlayback stores a snapshot and re-marks the lists when the selected track changed.
func (m *Model) syncPlayback(s models.PlaybackState) tea.Cmd {
	before := m.currentID()
	m.playback = s
	if m.currentID() == before {
		return nil
	}
	return m.refreshLists()
}

func (m *Model) refreshLists() tea.Cmd {
	current := m.currentID()
	cmds := []tea.Cmd{m.songs.SetItems(songItems(m.state.Songs(), current))}

	albums := m.state.Albums()
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a, tracks: len(m.state.AlbumTracks(a.Name))}
	}
	cmds = append(cmds, m.albums.SetItems(items))

	if m.album != nil {
		cmds = append(cmds, m.detail.SetItems(songItems(m.state.AlbumTracks(m.album.Name), current)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) currentID() string {
	if m.playback.Track == nil {
		return ""
	}
	return m.playback.Track.ID
}

func (m *Model) activeList() *list.Model {
	switch m.view {
	case AlbumsView:
		return &m.albums
	case AlbumView:
		return &m.detail
	default:
		return &m.songs
	}
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	active := m.activeList()
	updated, cmd := active.Update(msg)
	*active = updated
	return m, cmd
}

func (m *Model) resize() {
	w := max(m.width-sidebarWidth-1, 0)
	h := m.contentHeight()
	m.songs.SetSize(w, h)
	m.albums.SetSize(w, h)
	m.detail.SetSize(w, h)
	m.help.Width = m.width
}

func (m *Model) contentHeight() int {
	return max(m.height-playerBarHeight, 1)
}

// seekRow is the screen row of the seek bar: second to last, above the help line.
func (m *Model) seekRow() int {
	return m.height - 2
}

// timeLabels returns elapsed and total, with elapsed padded so the bar doesn't shift as it grows.
func (m *Model) timeLabels() (string, string) {
	total := m.playback.Total.String()
	elapsed := m.playback.Elapsed.String()
	return fmt.Sprintf("%*s", len(total), elapsed), total
}

// seekLayout returns the bar's first column and its width in cells.
func (m *Model) seekLayout() (left, width int) {
	elapsed, total := m.timeLabels()
	left = lipgloss.Width(elapsed) + 2
	width = m.width - left - lipgloss.Width(total) - 2
	return left, max(width, 0)
}

func (m *Model) renderSidebar() string {
	lines := []string{styles.title.Render("jukebox")}

	for _, v := range []ViewState{HomeView, AlbumsView} {
		lines = append(lines, navLine(v.String(), m.view == v, 0))
	}
	if m.album != nil {
		lines = append(lines, navLine(m.album.Name, m.view == AlbumView, 2))
	}

	lines = append(lines, "")
	if m.status != "" {
		lines = append(lines, styles.muted.Render(m.status))
	}

	return styles.sidebar.
		Width(sidebarWidth).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Render(strings.Join(lines, "\n"))
}

func navLine(label string, active bool, indent int) string {
	label = lipgloss.NewStyle().MaxWidth(sidebarWidth - 4 - indent).Render(label)
	pad := strings.Repeat(" ", indent)
	if active {
		return pad + styles.active.Render("› "+label)
	}
	return pad + styles.muted.Render("  "+label)
}

func (m *Model) renderDisplay() string {
	return m.activeList().View()
}

func (m *Model) renderPlayerBar() string {
	rule := styles.rule.Render(strings.Repeat("─", max(m.width, 0)))

	elapsed, total := m.timeLabels()
	_, width := m.seekLayout()
	bar := m.bar
	bar.Width = width
	seek := " " + elapsed + " " + bar.ViewAs(m.playback.Progress/100) + " " + total + " "

	return strings.Join([]string{rule, m.renderNowPlaying(), seek, m.help.View(m.keys)}, "\n")
}

func (m *Model) renderNowPlaying() string {
	line := lipgloss.NewStyle().MaxWidth(max(m.width, 1))
	if m.playback.Track == nil {
		return line.Render(styles.muted.Render(" ⏹  nothing selected"))
	}

	t := m.playback.Track
	glyph := "⏸"
	style := styles.active
	if m.playback.Playing() {
		glyph = "▶"
		style = styles.playing
	}

	text := fmt.Sprintf(" %s  %s", glyph, t.Title)
	if t.Album != "" {
		text += styles.muted.Render(" · " + t.Album)
	}
	return line.Render(style.Render(text))
}
