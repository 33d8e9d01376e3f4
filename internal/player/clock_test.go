package player

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/jukebox/internal/shared"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClock(t *testing.T) (*ClockElement, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Unix(0, 0)}
	// long interval keeps the background ticker out of the way; tests call tick directly
	e := NewClockElement(time.Hour, WithTimeSource(clk.Now))
	t.Cleanup(func() { e.Close() })
	return e, clk
}

func TestClockElement(t *testing.T) {
	t.Run("Unknown Duration Before Load", func(t *testing.T) {
		e, _ := newTestClock(t)
		if !math.IsNaN(e.Duration()) {
			t.Errorf("expected NaN duration, got %v", e.Duration())
		}
		if err := e.Play(); !errors.Is(err, shared.ErrNoSource) {
			t.Errorf("expected ErrNoSource, got %v", err)
		}
	})

	t.Run("Advances While Playing", func(t *testing.T) {
		e, clk := newTestClock(t)
		if err := e.Load(Source{URL: "a.mp3", DurationHint: 130}); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if err := e.Play(); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		clk.Advance(65 * time.Second)
		if got := e.CurrentTime(); got != 65 {
			t.Errorf("CurrentTime() = %v, want 65", got)
		}

		if err := e.Pause(); err != nil {
			t.Fatalf("pause failed: %v", err)
		}
		clk.Advance(10 * time.Second)
		if got := e.CurrentTime(); got != 65 {
			t.Errorf("paused CurrentTime() = %v, want 65", got)
		}
		if !e.Paused() {
			t.Error("expected element to be paused")
		}
	})

	t.Run("SetCurrentTime Clamps", func(t *testing.T) {
		e, _ := newTestClock(t)
		e.Load(Source{URL: "a.mp3", DurationHint: 100})

		e.SetCurrentTime(250)
		if got := e.CurrentTime(); got != 100 {
			t.Errorf("expected clamp to 100, got %v", got)
		}
		e.SetCurrentTime(-5)
		if got := e.CurrentTime(); got != 0 {
			t.Errorf("expected clamp to 0, got %v", got)
		}
	})

	t.Run("Ends At Duration", func(t *testing.T) {
		e, clk := newTestClock(t)
		e.Load(Source{URL: "a.mp3", DurationHint: 10})

		updates := make(chan [2]float64, 8)
		cancel := e.OnTimeUpdate(func(cur, dur float64) { updates <- [2]float64{cur, dur} })
		defer cancel()

		e.Play()
		clk.Advance(15 * time.Second)
		e.tick()

		if !e.Paused() {
			t.Error("expected element to stop at the end of the track")
		}
		if got := e.CurrentTime(); got != 10 {
			t.Errorf("expected position 10, got %v", got)
		}

		deadline := time.After(time.Second)
		for {
			select {
			case u := <-updates:
				if u[0] == 10 && u[1] == 10 {
					return
				}
			case <-deadline:
				t.Fatal("expected an end-of-track time update")
			}
		}
	})

	t.Run("Play From End Restarts", func(t *testing.T) {
		e, clk := newTestClock(t)
		e.Load(Source{URL: "a.mp3", DurationHint: 10})
		e.SetCurrentTime(10)

		e.Play()
		clk.Advance(2 * time.Second)
		if got := e.CurrentTime(); got != 2 {
			t.Errorf("expected restart from zero, got %v", got)
		}
	})

	t.Run("Load Rewinds And Pauses", func(t *testing.T) {
		e, clk := newTestClock(t)
		e.Load(Source{URL: "a.mp3", DurationHint: 60})
		e.Play()
		clk.Advance(20 * time.Second)

		e.Load(Source{URL: "b.mp3"})
		if !e.Paused() || e.CurrentTime() != 0 {
			t.Error("load should pause and rewind")
		}
		if !math.IsNaN(e.Duration()) {
			t.Error("source without a hint should have unknown duration")
		}
	})

	t.Run("Cancel Removes Listener", func(t *testing.T) {
		e, _ := newTestClock(t)
		cancel := e.OnTimeUpdate(func(float64, float64) {})
		cancel()
		cancel()

		e.mu.Lock()
		n := len(e.listeners)
		e.mu.Unlock()
		if n != 0 {
			t.Errorf("expected no listeners, got %d", n)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		e, _ := newTestClock(t)
		e.Close()

		if err := e.Load(Source{URL: "a.mp3"}); !errors.Is(err, shared.ErrElementClosed) {
			t.Errorf("expected ErrElementClosed, got %v", err)
		}
		if err := e.Play(); !errors.Is(err, shared.ErrElementClosed) {
			t.Errorf("expected ErrElementClosed, got %v", err)
		}
	})
}

func TestSeekPosition(t *testing.T) {
	tt := []struct {
		name                    string
		offset, width, duration float64
		want                    float64
		ok                      bool
	}{
		{name: "half", offset: 50, width: 100, duration: 130, want: 65, ok: true},
		{name: "x over w times d", offset: 30, width: 120, duration: 200, want: 50, ok: true},
		{name: "negative offset clamps", offset: -10, width: 100, duration: 130, want: 0, ok: true},
		{name: "beyond width clamps", offset: 150, width: 100, duration: 130, want: 130, ok: true},
		{name: "zero width", offset: 10, width: 0, duration: 130},
		{name: "nan duration", offset: 10, width: 100, duration: math.NaN()},
		{name: "inf duration", offset: 10, width: 100, duration: math.Inf(1)},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SeekPosition(tc.offset, tc.width, tc.duration)
			if ok != tc.ok {
				t.Fatalf("SeekPosition() ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("SeekPosition() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tt := []struct {
		current, duration, want float64
	}{
		{65, 130, 50},
		{0, 130, 0},
		{129.9, 130, 99},
		{300, 130, 100},
		{10, 0, 0},
		{10, math.NaN(), 0},
	}
	for _, tc := range tt {
		if got := Progress(tc.current, tc.duration); got != tc.want {
			t.Errorf("Progress(%v, %v) = %v, want %v", tc.current, tc.duration, got, tc.want)
		}
	}
}
