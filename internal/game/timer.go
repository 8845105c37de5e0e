package game

import "time"

// SessionTimer accumulates wall-clock focus time. It pauses with playback and
// survives track changes; only leaving the app resets it.
type SessionTimer struct {
	now         func() time.Time
	startedAt   time.Time
	accumulated time.Duration
	running     bool
}

func NewSessionTimer() *SessionTimer {
	return &SessionTimer{now: time.Now}
}

// Start begins (or restarts) accumulation from zero.
func (t *SessionTimer) Start() {
	t.startedAt = t.now()
	t.accumulated = 0
	t.running = true
}

// Pause freezes the elapsed value. Pausing an already paused timer is a no-op.
func (t *SessionTimer) Pause() {
	if !t.running {
		return
	}
	t.accumulated += t.now().Sub(t.startedAt)
	t.running = false
}

// Resume continues accumulation. Resuming a running timer is a no-op.
func (t *SessionTimer) Resume() {
	if t.running {
		return
	}
	t.startedAt = t.now()
	t.running = true
}

func (t *SessionTimer) Running() bool { return t.running }

// Elapsed returns total accumulated session time.
func (t *SessionTimer) Elapsed() time.Duration {
	if t.running {
		return t.accumulated + t.now().Sub(t.startedAt)
	}
	return t.accumulated
}
