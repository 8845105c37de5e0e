package game

import (
	"testing"
	"time"
)

// fakeClock drives a SessionTimer deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTimer() (*SessionTimer, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	timer := NewSessionTimer()
	timer.now = clock.now
	return timer, clock
}

func TestSessionTimerAccumulates(t *testing.T) {
	timer, clock := newTestTimer()

	if got := timer.Elapsed(); got != 0 {
		t.Fatalf("elapsed before start = %v", got)
	}

	timer.Start()
	clock.advance(90 * time.Second)
	if got := timer.Elapsed(); got != 90*time.Second {
		t.Errorf("elapsed = %v, want 90s", got)
	}
}

func TestSessionTimerPauseResume(t *testing.T) {
	timer, clock := newTestTimer()
	timer.Start()
	clock.advance(time.Minute)

	timer.Pause()
	clock.advance(time.Hour) // paused time must not count
	if got := timer.Elapsed(); got != time.Minute {
		t.Fatalf("elapsed after pause = %v, want 1m", got)
	}

	timer.Resume()
	clock.advance(30 * time.Second)
	if got := timer.Elapsed(); got != 90*time.Second {
		t.Errorf("elapsed after resume = %v, want 90s", got)
	}
}

func TestSessionTimerIdempotentTransitions(t *testing.T) {
	timer, clock := newTestTimer()
	timer.Start()
	clock.advance(10 * time.Second)

	timer.Pause()
	timer.Pause()
	if got := timer.Elapsed(); got != 10*time.Second {
		t.Errorf("double pause changed elapsed: %v", got)
	}

	timer.Resume()
	clock.advance(5 * time.Second)
	timer.Resume()
	clock.advance(5 * time.Second)
	if got := timer.Elapsed(); got != 20*time.Second {
		t.Errorf("double resume miscounted: %v, want 20s", got)
	}
}

func TestSessionTimerRestart(t *testing.T) {
	timer, clock := newTestTimer()
	timer.Start()
	clock.advance(time.Minute)

	timer.Start()
	if got := timer.Elapsed(); got != 0 {
		t.Errorf("restart should zero the timer, got %v", got)
	}
	if !timer.Running() {
		t.Error("timer should run after restart")
	}
}
