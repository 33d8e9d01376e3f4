package player

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jukebox/internal/models"
	"github.com/desertthunder/jukebox/internal/shared"
)

const (
	// DefaultPlayDelay is how long selection waits before asking the element to play.
	DefaultPlayDelay = 100 * time.Millisecond
	updateBuffer     = 16
)

// Recorder is notified when playback of a track starts.
//
// Recording is best-effort: errors are logged and never interrupt playback.
type Recorder interface {
	RecordPlay(track models.Track) error
}

// Timer is the subset of [time.Timer] the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. Defaults to [time.AfterFunc].
type AfterFunc func(d time.Duration, f func()) Timer

// Options contains optional [Controller] dependencies.
type Options struct {
	PlayDelay time.Duration
	Logger    *log.Logger
	Recorder  Recorder
	AfterFunc AfterFunc
}

// Controller is the playback state machine over a single [Element].
//
// It is safe for concurrent use: UI events and element callbacks arrive on different goroutines.
type Controller struct {
	mu       sync.Mutex
	element  Element
	catalog  *models.Catalog
	track    *models.Track
	status   models.Status
	elapsed  models.Clock
	total    models.Clock
	progress float64

	playDelay time.Duration
	afterFunc AfterFunc
	pending   Timer
	playToken uint64

	subGen      uint64
	unsubscribe func()

	recorder Recorder
	recorded string

	updates chan models.PlaybackState
	logger  *log.Logger
	closed  bool
}

// NewController creates a [Controller] driving element. A nil element makes every transport operation a no-op.
func NewController(element Element, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.PlayDelay <= 0 {
		opts.PlayDelay = DefaultPlayDelay
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}

	return &Controller{
		element:   element,
		catalog:   models.NewCatalog(nil),
		playDelay: opts.PlayDelay,
		afterFunc: opts.AfterFunc,
		recorder:  opts.Recorder,
		updates:   make(chan models.PlaybackState, updateBuffer),
		logger:    shared.WithLogger(opts.Logger, "component", "player"),
	}
}

// Updates returns the snapshot channel. It is closed by [Controller.Close].
func (c *Controller) Updates() <-chan models.PlaybackState {
	return c.updates
}

// State returns the current snapshot.
func (c *Controller) State() models.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Catalog returns the catalog the controller navigates.
func (c *Controller) Catalog() *models.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog
}

// SetCatalog replaces the catalog wholesale.
//
// The selection survives only if its id is still present; otherwise the first track is
// selected (paused), or the selection is cleared when tracks is empty.
func (c *Controller) SetCatalog(tracks []models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.catalog = models.NewCatalog(tracks)

	if c.track != nil {
		if t, ok := c.catalog.Find(c.track.ID); ok {
			c.track = &t
			c.publishLocked()
			return
		}
	}

	c.cancelPendingLocked()
	c.haltLocked()

	if first, ok := c.catalog.At(0); ok {
		c.selectLocked(first)
	} else {
		c.clearLocked()
	}
	c.publishLocked()
}

// Play resumes the selected track. No-op without a selection.
func (c *Controller) Play() {
	c.mu.Lock()
	if c.closed || c.track == nil || c.element == nil {
		c.mu.Unlock()
		return
	}

	c.cancelPendingLocked()
	if err := c.element.Play(); err != nil {
		c.logger.Error("failed to start playback", "track", c.track.ID, "error", err)
		c.status = models.Paused
		c.publishLocked()
		c.mu.Unlock()
		return
	}
	c.status = models.Playing
	track := c.markRecordedLocked()
	c.publishLocked()
	c.mu.Unlock()

	c.record(track)
}

// Pause halts the element. No-op without a selection.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.track == nil {
		return
	}
	c.cancelPendingLocked()
	c.haltLocked()
	c.publishLocked()
}

// Toggle pauses while playing and plays while paused.
func (c *Controller) Toggle() {
	if c.State().Playing() {
		c.Pause()
		return
	}
	c.Play()
}

// SelectAndPlay selects the track with id and starts it after the play delay.
// Unknown ids are ignored.
func (c *Controller) SelectAndPlay(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	t, ok := c.catalog.Find(id)
	if !ok {
		c.logger.Debug("ignoring selection of unknown track", "id", id)
		return
	}
	c.startLocked(t)
}

// Previous moves to the track before the selection. No-op at the first track.
func (c *Controller) Previous() {
	c.step(-1)
}

// Next moves to the track after the selection. No-op at the last track.
func (c *Controller) Next() {
	c.step(1)
}

func (c *Controller) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.track == nil {
		return
	}
	idx := c.catalog.IndexOf(c.track.ID)
	if idx == -1 {
		return
	}
	t, ok := c.catalog.At(idx + delta)
	if !ok {
		return
	}
	c.startLocked(t)
}

// Seek moves playback to the position a click at offsetX on a bar width wide points at.
// It reports whether a seek happened.
func (c *Controller) Seek(offsetX, width float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.element == nil || c.track == nil {
		return false
	}
	pos, ok := SeekPosition(offsetX, width, c.element.Duration())
	if !ok {
		return false
	}
	c.element.SetCurrentTime(pos)
	return true
}

// SeekBy moves playback by delta relative to the current position, clamped to the track.
func (c *Controller) SeekBy(delta time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.element == nil || c.track == nil {
		return false
	}
	dur := c.element.Duration()
	if !models.Known(dur) {
		return false
	}
	pos := c.element.CurrentTime() + delta.Seconds()
	c.element.SetCurrentTime(math.Max(0, math.Min(pos, dur)))
	return true
}

// Close cancels pending playback and the time subscription, then closes [Controller.Updates].
// The element itself belongs to the caller.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.cancelPendingLocked()
	c.unsubscribeLocked()
	c.closed = true
	close(c.updates)
}

// startLocked selects t, marks it playing and schedules the delayed play.
func (c *Controller) startLocked(t models.Track) {
	c.cancelPendingLocked()
	c.selectLocked(t)
	if c.element == nil {
		c.publishLocked()
		return
	}

	c.status = models.Playing
	c.publishLocked()

	c.playToken++
	token := c.playToken
	c.pending = c.afterFunc(c.playDelay, func() { c.delayedPlay(token) })
}

func (c *Controller) delayedPlay(token uint64) {
	c.mu.Lock()
	if c.closed || token != c.playToken || c.pending == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil

	if err := c.element.Play(); err != nil {
		c.logger.Error("failed to start playback", "track", c.track.ID, "error", err)
		c.status = models.Paused
		c.publishLocked()
		c.mu.Unlock()
		return
	}
	track := c.markRecordedLocked()
	c.publishLocked()
	c.mu.Unlock()

	c.record(track)
}

// selectLocked loads t into the element and re-subscribes to its time updates.
func (c *Controller) selectLocked(t models.Track) {
	c.track = &t
	c.recorded = ""
	c.elapsed, c.total, c.progress = models.Clock{}, models.Clock{}, 0

	if c.element == nil {
		return
	}
	if err := c.element.Load(Source{URL: t.File, DurationHint: t.Seconds()}); err != nil {
		c.logger.Error("failed to load source", "track", t.ID, "error", err)
	}
	c.subscribeLocked()
}

func (c *Controller) clearLocked() {
	c.unsubscribeLocked()
	c.track = nil
	c.recorded = ""
	c.status = models.Paused
	c.elapsed, c.total, c.progress = models.Clock{}, models.Clock{}, 0
}

func (c *Controller) subscribeLocked() {
	c.unsubscribeLocked()
	c.subGen++
	gen := c.subGen
	c.unsubscribe = c.element.OnTimeUpdate(func(current, duration float64) {
		c.onTimeUpdate(gen, current, duration)
	})
}

func (c *Controller) unsubscribeLocked() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.subGen++
}

// onTimeUpdate derives elapsed/total/progress from the element's raw values.
// Callbacks from a cancelled subscription are dropped.
func (c *Controller) onTimeUpdate(gen uint64, current, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.subGen {
		return
	}
	c.applyTimeLocked(current, duration)

	if c.status == models.Playing && c.pending == nil && c.element.Paused() {
		c.status = models.Paused
	}
	c.publishLocked()
}

func (c *Controller) applyTimeLocked(current, duration float64) {
	if !models.Known(duration) {
		c.elapsed, c.total, c.progress = models.Clock{}, models.Clock{}, 0
		return
	}
	current = math.Max(0, math.Min(current, duration))
	c.elapsed = models.ClockFromSeconds(current)
	c.total = models.ClockFromSeconds(duration)
	c.progress = Progress(current, duration)
}

// Progress returns floor(current/duration*100) clamped to [0, 100], or 0 for an unknown duration.
func Progress(current, duration float64) float64 {
	if !models.Known(duration) || math.IsNaN(current) {
		return 0
	}
	return math.Max(0, math.Min(100, math.Floor(current/duration*100)))
}

func (c *Controller) haltLocked() {
	if c.element != nil {
		if err := c.element.Pause(); err != nil {
			c.logger.Warn("failed to pause element", "error", err)
		}
	}
	c.status = models.Paused
}

func (c *Controller) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// markRecordedLocked returns the track to record, or nil if it was already recorded for this selection.
func (c *Controller) markRecordedLocked() *models.Track {
	if c.recorder == nil || c.track == nil || c.recorded == c.track.ID {
		return nil
	}
	c.recorded = c.track.ID
	t := *c.track
	return &t
}

func (c *Controller) record(t *models.Track) {
	if t == nil {
		return
	}
	if err := c.recorder.RecordPlay(*t); err != nil {
		c.logger.Warn("failed to record play", "track", t.ID, "error", err)
	}
}

func (c *Controller) snapshotLocked() models.PlaybackState {
	s := models.PlaybackState{
		Status:   c.status,
		Elapsed:  c.elapsed,
		Total:    c.total,
		Progress: c.progress,
	}
	if c.track != nil {
		t := *c.track
		s.Track = &t
	}
	return s
}

// publishLocked offers a snapshot to [Controller.Updates], dropping it when the buffer is full.
func (c *Controller) publishLocked() {
	if c.closed {
		return
	}
	select {
	case c.updates <- c.snapshotLocked():
	default:
	}
}
