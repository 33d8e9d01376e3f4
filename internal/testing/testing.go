// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/player"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ player.Element = (*FakeElement)(nil)

// FakeElement is a [player.Element] driven by the test: time updates only happen through [FakeElement.Fire].
type FakeElement struct {
	mu        sync.Mutex
	src       player.Source
	playing   bool
	current   float64
	duration  float64
	listeners map[int]player.TimeUpdateFunc
	nextID    int
	closed    bool

	PlayErr error
	Plays   int
	Pauses  int
	Loads   int
}

func NewFakeElement() *FakeElement {
	return &FakeElement{duration: math.NaN(), listeners: make(map[int]player.TimeUpdateFunc)}
}

func (f *FakeElement) Load(src player.Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.src = src
	f.playing = false
	f.current = 0
	f.duration = math.NaN()
	if src.DurationHint > 0 {
		f.duration = src.DurationHint
	}
	f.Loads++
	return nil
}

func (f *FakeElement) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PlayErr != nil {
		return f.PlayErr
	}
	f.playing = true
	f.Plays++
	return nil
}

func (f *FakeElement) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.Pauses++
	return nil
}

func (f *FakeElement) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.playing
}

func (f *FakeElement) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *FakeElement) SetCurrentTime(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = seconds
}

func (f *FakeElement) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

// SetDuration overrides the duration reported after Load.
func (f *FakeElement) SetDuration(d float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = d
}

// Source returns the last loaded source.
func (f *FakeElement) Source() player.Source {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.src
}

func (f *FakeElement) OnTimeUpdate(fn player.TimeUpdateFunc) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Listeners returns the number of active subscriptions.
func (f *FakeElement) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

// Fire sets the current time and delivers a time update to every listener.
func (f *FakeElement) Fire(current, duration float64) {
	f.mu.Lock()
	f.current = current
	fns := make([]player.TimeUpdateFunc, 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(current, duration)
	}
}

// End simulates the track finishing.
func (f *FakeElement) End() {
	f.mu.Lock()
	f.playing = false
	d := f.duration
	f.mu.Unlock()
	f.Fire(d, d)
}

func (f *FakeElement) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.playing = false
	return nil
}

func (f *FakeElement) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// ManualScheduler implements [player.AfterFunc]; timers only fire on [ManualScheduler.RunAll].
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// ManualTimer is a timer created by [ManualScheduler].
type ManualTimer struct {
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *ManualTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) player.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &ManualTimer{Delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Pending returns how many timers are neither stopped nor fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// RunAll fires every pending timer in creation order.
func (s *ManualScheduler) RunAll() {
	s.mu.Lock()
	var due []*ManualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// MockRecorder records plays in memory.
type MockRecorder struct {
	mu     sync.Mutex
	Err    error
	Played []models.Track
}

func (m *MockRecorder) RecordPlay(t models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Played = append(m.Played, t)
	return m.Err
}

func (m *MockRecorder) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Played)
}

// Tracks builds tracks with the given ids, titled after the id, each 2:10 long.
func Tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = models.Track{ID: id, Title: "Song " + id, Album: "Album", File: "http://cdn/" + id + ".mp3", Duration: "2:10"}
	}
	return out
}

// MockCatalog returns canned song and album lists and counts calls.
type MockCatalog struct {
	mu         sync.Mutex
	Songs      []models.Track
	Albums     []models.Album
	SongsErr   error
	AlbumsErr  error
	songCalls  int
	albumCalls int
}

func (m *MockCatalog) ListSongs(ctx context.Context) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.songCalls++
	if m.SongsErr != nil {
		return nil, m.SongsErr
	}
	return m.Songs, nil
}

func (m *MockCatalog) ListAlbums(ctx context.Context) ([]models.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.albumCalls++
	if m.AlbumsErr != nil {
		return nil, m.AlbumsErr
	}
	return m.Albums, nil
}

// Calls returns how many times each list was requested.
func (m *MockCatalog) Calls() (songs, albums int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.songCalls, m.albumCalls
}
