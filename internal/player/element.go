package player

// Source describes what an [Element] should load.
type Source struct {
	URL          string
	DurationHint float64 // seconds, from catalog metadata; 0 when unknown
}

// TimeUpdateFunc receives the element's raw current time and duration in seconds.
// duration is NaN while it is unknown.
type TimeUpdateFunc func(current, duration float64)

// Element is the audio primitive driven by [Controller].
//
// Implementations must not invoke [TimeUpdateFunc] callbacks synchronously from inside their
// own methods; events are delivered from the element's own goroutine.
type Element interface {
	Load(src Source) error
	Play() error
	Pause() error
	Paused() bool
	CurrentTime() float64
	SetCurrentTime(seconds float64)
	Duration() float64
	OnTimeUpdate(fn TimeUpdateFunc) (cancel func())
	Close() error
}
