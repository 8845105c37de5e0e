package game

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
)

// fakeSpeaker stands in for the beep speaker package. It records the call
// sequence and fails the test if Init or Clear run while the speaker lock is
// held: both take the speaker's own mutex internally, so that ordering
// deadlocks the game loop against a real speaker.
type fakeSpeaker struct {
	t         *testing.T
	lockDepth int
	calls     []string
	initRates []beep.SampleRate
	played    int
}

func (s *fakeSpeaker) install(p *player) {
	p.speakerInit = func(rate beep.SampleRate, bufferSize int) error {
		if s.lockDepth != 0 {
			s.t.Error("speaker.Init called while speaker lock held")
		}
		s.calls = append(s.calls, "init")
		s.initRates = append(s.initRates, rate)
		return nil
	}
	p.speakerClear = func() {
		if s.lockDepth != 0 {
			s.t.Error("speaker.Clear called while speaker lock held")
		}
		s.calls = append(s.calls, "clear")
	}
	p.speakerLock = func() {
		s.lockDepth++
		s.calls = append(s.calls, "lock")
	}
	p.speakerUnlock = func() {
		s.lockDepth--
		s.calls = append(s.calls, "unlock")
	}
	p.speakerPlay = func(streamers ...beep.Streamer) {
		s.calls = append(s.calls, "play")
		s.played++
	}
}

func newTestPlayer(t *testing.T) (*player, *fakeSpeaker) {
	p := newPlayer(0)
	s := &fakeSpeaker{t: t}
	s.install(p)
	return p, s
}

// writeWAV creates a short silent 16-bit stereo PCM file.
func writeWAV(t *testing.T, dir, name string, sampleRate uint32) Track {
	t.Helper()

	const frames = 64
	dataLen := uint32(frames * 4)
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(2)) // stereo
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate*4)
	binary.Write(&buf, binary.LittleEndian, uint16(4))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(make([]byte, dataLen))

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return Track{Title: TrackTitle(name), Path: path}
}

func TestPlayerFirstPlay(t *testing.T) {
	p, s := newTestPlayer(t)
	track := writeWAV(t, t.TempDir(), "rain.wav", 44100)

	if err := p.play(track); err != nil {
		t.Fatalf("play: %v", err)
	}
	if !p.loaded() || !p.playing() {
		t.Error("player should be playing after play")
	}
	if len(s.initRates) != 1 || s.initRates[0] != 44100 {
		t.Errorf("init rates = %v, want [44100]", s.initRates)
	}
	if s.played != 1 {
		t.Errorf("play called %d times, want 1", s.played)
	}
	// Nothing to clear before the first track.
	for _, c := range s.calls {
		if c == "clear" {
			t.Error("unexpected speaker.Clear before anything played")
		}
	}
}

func TestPlayerTrackChangeSequencing(t *testing.T) {
	p, s := newTestPlayer(t)
	dir := t.TempDir()
	first := writeWAV(t, dir, "rain.wav", 44100)
	second := writeWAV(t, dir, "forest.wav", 44100)

	if err := p.play(first); err != nil {
		t.Fatalf("first play: %v", err)
	}
	s.calls = nil

	if err := p.play(second); err != nil {
		t.Fatalf("second play: %v", err)
	}

	// Same sample rate: old playback cleared, no re-init, new track queued.
	want := []string{"clear", "play"}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", s.calls, want)
	}
	for i, c := range want {
		if s.calls[i] != c {
			t.Fatalf("calls = %v, want %v", s.calls, want)
		}
	}
	if s.lockDepth != 0 {
		t.Errorf("speaker lock depth = %d after track change, want 0", s.lockDepth)
	}
}

func TestPlayerSampleRateChangeReinits(t *testing.T) {
	p, s := newTestPlayer(t)
	dir := t.TempDir()

	if err := p.play(writeWAV(t, dir, "a.wav", 44100)); err != nil {
		t.Fatalf("first play: %v", err)
	}
	if err := p.play(writeWAV(t, dir, "b.wav", 48000)); err != nil {
		t.Fatalf("second play: %v", err)
	}

	if len(s.initRates) != 2 || s.initRates[1] != 48000 {
		t.Fatalf("init rates = %v, want re-init at 48000", s.initRates)
	}
	// The old track must be cleared before the speaker restarts.
	var clearAt, initAt int = -1, -1
	for i, c := range s.calls {
		if c == "clear" && clearAt < 0 {
			clearAt = i
		}
		if c == "init" && i > 0 {
			initAt = i
		}
	}
	if clearAt < 0 || initAt < 0 || clearAt > initAt {
		t.Errorf("calls = %v, want clear before re-init", s.calls)
	}
}

func TestPlayerStopThenQuitPath(t *testing.T) {
	p, s := newTestPlayer(t)

	// stop before anything played touches nothing.
	p.stop()
	if len(s.calls) != 0 {
		t.Fatalf("stop before init made speaker calls: %v", s.calls)
	}

	if err := p.play(writeWAV(t, t.TempDir(), "a.wav", 44100)); err != nil {
		t.Fatalf("play: %v", err)
	}
	p.stop()
	if p.loaded() {
		t.Error("player still loaded after stop")
	}
	if s.lockDepth != 0 {
		t.Errorf("speaker lock depth = %d after stop, want 0", s.lockDepth)
	}
	// stop is idempotent.
	p.stop()
}

func TestPlayerPauseAndVolumeUnderLock(t *testing.T) {
	p, s := newTestPlayer(t)
	if err := p.play(writeWAV(t, t.TempDir(), "a.wav", 44100)); err != nil {
		t.Fatalf("play: %v", err)
	}

	p.togglePause()
	if !p.paused || p.playing() {
		t.Error("expected paused state")
	}
	if p.ctrl == nil || !p.ctrl.Paused {
		t.Error("ctrl not paused")
	}

	p.adjustVolume(volumeStep)
	if p.volume.Volume != volumeStep {
		t.Errorf("volume = %v, want %v", p.volume.Volume, volumeStep)
	}

	p.toggleMute()
	if !p.volume.Silent {
		t.Error("volume not silenced")
	}
	if p.volumePercent() != 0 {
		t.Errorf("volumePercent while muted = %d, want 0", p.volumePercent())
	}

	// Every streamer mutation paired its lock with an unlock.
	if s.lockDepth != 0 {
		t.Errorf("speaker lock depth = %d, want 0", s.lockDepth)
	}
	locks, unlocks := 0, 0
	for _, c := range s.calls {
		switch c {
		case "lock":
			locks++
		case "unlock":
			unlocks++
		}
	}
	if locks == 0 || locks != unlocks {
		t.Errorf("lock/unlock calls = %d/%d, want equal and non-zero", locks, unlocks)
	}
}

func TestPlayerRejectsUnknownExtension(t *testing.T) {
	p, s := newTestPlayer(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := p.play(Track{Title: "notes", Path: path}); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if s.played != 0 {
		t.Error("nothing should reach the speaker on decode failure")
	}
}
