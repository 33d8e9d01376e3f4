package player

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

const defaultTickInterval = 250 * time.Millisecond

var _ Element = (*ClockElement)(nil)

// ClockElement is an [Element] that advances playback position against the wall clock.
//
// It reaches the end of a track when the position hits the duration hint of its [Source],
// then pauses itself like a media element firing "ended".
type ClockElement struct {
	mu        sync.Mutex
	src       Source
	duration  float64
	position  float64 // position at startedAt
	startedAt time.Time
	playing   bool
	closed    bool
	interval  time.Duration
	now       func() time.Time
	stop      chan struct{}
	listeners map[string]TimeUpdateFunc
}

// ClockOption configures a [ClockElement].
type ClockOption func(*ClockElement)

// WithTimeSource replaces time.Now, mostly for tests.
func WithTimeSource(now func() time.Time) ClockOption {
	return func(e *ClockElement) { e.now = now }
}

// NewClockElement creates a [ClockElement] that emits time updates every interval while playing.
func NewClockElement(interval time.Duration, opts ...ClockOption) *ClockElement {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	e := &ClockElement{
		interval:  interval,
		now:       time.Now,
		duration:  math.NaN(),
		listeners: make(map[string]TimeUpdateFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the current source, halting playback and rewinding to zero.
func (e *ClockElement) Load(src Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return shared.ErrElementClosed
	}

	e.haltLocked()
	e.src = src
	e.position = 0
	e.duration = math.NaN()
	if models.Known(src.DurationHint) {
		e.duration = src.DurationHint
	}

	go e.emit()
	return nil
}

// Play starts or resumes playback. Playing from the end restarts the track.
func (e *ClockElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return shared.ErrElementClosed
	}
	if e.src.URL == "" {
		return fmt.Errorf("%w: play", shared.ErrNoSource)
	}
	if e.playing {
		return nil
	}

	if models.Known(e.duration) && e.position >= e.duration {
		e.position = 0
	}
	e.startedAt = e.now()
	e.playing = true

	stop := make(chan struct{})
	e.stop = stop
	go e.run(stop)
	return nil
}

// Pause freezes the position.
func (e *ClockElement) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return shared.ErrElementClosed
	}
	e.haltLocked()
	return nil
}

func (e *ClockElement) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.playing
}

func (e *ClockElement) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

// SetCurrentTime moves the position, clamped to [0, duration] when the duration is known.
func (e *ClockElement) SetCurrentTime(seconds float64) {
	e.mu.Lock()
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if models.Known(e.duration) && seconds > e.duration {
		seconds = e.duration
	}
	e.position = seconds
	e.startedAt = e.now()
	e.mu.Unlock()

	go e.emit()
}

// Duration returns NaN until a source with a known duration is loaded.
func (e *ClockElement) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// OnTimeUpdate registers fn and returns its cancel func. Cancel is safe to call more than once.
func (e *ClockElement) OnTimeUpdate(fn TimeUpdateFunc) func() {
	id := shared.GenerateID()

	e.mu.Lock()
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Close halts playback and drops all listeners.
func (e *ClockElement) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.haltLocked()
	e.closed = true
	clear(e.listeners)
	return nil
}

func (e *ClockElement) run(stop <-chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick advances the end-of-track check and notifies listeners.
func (e *ClockElement) tick() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	if cur := e.currentLocked(); models.Known(e.duration) && cur >= e.duration {
		e.haltLocked()
		e.position = e.duration
	}
	e.mu.Unlock()

	e.emit()
}

func (e *ClockElement) emit() {
	e.mu.Lock()
	cur, dur := e.currentLocked(), e.duration
	fns := make([]TimeUpdateFunc, 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(cur, dur)
	}
}

func (e *ClockElement) currentLocked() float64 {
	pos := e.position
	if e.playing {
		pos += e.now().Sub(e.startedAt).Seconds()
	}
	if models.Known(e.duration) && pos > e.duration {
		pos = e.duration
	}
	return pos
}

// haltLocked stops the ticker without waiting for it; a tick already in flight sees playing=false.
func (e *ClockElement) haltLocked() {
	if e.playing {
		e.position = e.currentLocked()
		e.playing = false
	}
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}
