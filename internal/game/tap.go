package game

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// playbackTap wraps a beep.Streamer and records the last N samples into a
// ring buffer so the UI can show a level meter for currently playing audio.
type playbackTap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newPlaybackTap(src beep.Streamer, ringSize int) *playbackTap {
	return &playbackTap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *playbackTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *playbackTap) Err() error { return t.Source.Err() }

// Level returns a compressed RMS of the last n samples in [0, 1]. The 0.3
// exponent lifts quiet ambient material into a visible range.
func (t *playbackTap) Level(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	if n == 0 {
		return 0
	}

	var sumSquares float64
	idx := t.nextIndex - 1
	if idx < 0 {
		idx = len(t.buffer) - 1
	}
	for i := 0; i < n; i++ {
		mono := (t.buffer[idx][0] + t.buffer[idx][1]) * 0.5
		sumSquares += mono * mono
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
	}

	rms := math.Sqrt(sumSquares / float64(n))
	return clamp01(math.Pow(rms, 0.3))
}
