package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	tapRingSize = 8192
	levelWindow = 2048

	volumeStep = 0.25
	volumeMin  = -4
	volumeMax  = 1
)

// player owns the speaker and the active decode chain:
// decoder -> playbackTap -> beep.Ctrl -> effects.Volume -> speaker.
//
// Lock/Unlock guard mutation of streamers the speaker is already pulling
// from. Init, Clear and Play take the speaker's own mutex internally and
// must be called unlocked, or the game loop deadlocks on itself.
type player struct {
	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	tap         *playbackTap

	vol      float64 // log base-2 volume, 0 = unity gain
	muted    bool
	paused   bool
	initDone bool

	// done receives the finished track's path from the speaker goroutine.
	done chan string

	// The speaker package is process-global state; going through these
	// hooks lets tests observe call ordering without an audio device.
	speakerInit   func(beep.SampleRate, int) error
	speakerClear  func()
	speakerLock   func()
	speakerUnlock func()
	speakerPlay   func(...beep.Streamer)
}

func newPlayer(vol float64) *player {
	return &player{
		vol:           clampVolume(vol),
		done:          make(chan string, 1),
		speakerInit:   speaker.Init,
		speakerClear:  speaker.Clear,
		speakerLock:   speaker.Lock,
		speakerUnlock: speaker.Unlock,
		speakerPlay:   speaker.Play,
	}
}

// play stops any current track and starts the given one.
func (p *player) play(t Track) error {
	p.stop()

	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(t.Path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return errors.New("unsupported file type: " + filepath.Ext(t.Path))
	}
	if err != nil {
		_ = f.Close()
		return err
	}

	tap := newPlaybackTap(streamer, tapRingSize)
	ctrl := &beep.Ctrl{Streamer: tap}
	volume := &effects.Volume{Streamer: ctrl, Base: 2, Volume: p.vol, Silent: p.muted}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if !p.initDone || p.format.SampleRate != format.SampleRate {
		// First track, or the sample rate changed: (re)start the speaker.
		// Init locks the speaker mutex itself.
		if err := p.speakerInit(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return err
		}
		p.initDone = true
	}

	p.currentFile = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.volume = volume
	p.tap = tap
	p.paused = false

	path := t.Path
	p.speakerPlay(beep.Seq(volume, beep.Callback(func() {
		// Runs on the speaker goroutine; hand off to the game loop.
		select {
		case p.done <- path:
		default:
		}
	})))

	return nil
}

func (p *player) stop() {
	if !p.initDone {
		return
	}
	// Clear locks the speaker mutex itself; calling it under Lock hangs.
	p.speakerClear()
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.currentFile != nil {
		_ = p.currentFile.Close()
		p.currentFile = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.tap = nil
}

func (p *player) playing() bool { return p.streamer != nil && !p.paused }

func (p *player) loaded() bool { return p.streamer != nil }

func (p *player) togglePause() {
	if p.ctrl == nil {
		return
	}
	p.speakerLock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	p.speakerUnlock()
}

// adjustVolume nudges the log-scale volume by delta steps.
func (p *player) adjustVolume(delta float64) {
	p.vol = clampVolume(p.vol + delta)
	if p.volume == nil {
		return
	}
	p.speakerLock()
	p.volume.Volume = p.vol
	p.speakerUnlock()
}

func (p *player) toggleMute() {
	p.muted = !p.muted
	if p.volume == nil {
		return
	}
	p.speakerLock()
	p.volume.Silent = p.muted
	p.speakerUnlock()
}

// volumePercent maps the log volume to a display percentage, unity = 100.
func (p *player) volumePercent() int {
	if p.muted {
		return 0
	}
	return int(math.Pow(2, p.vol)*100 + 0.5)
}

// position returns the playback offset within the current track.
func (p *player) position() time.Duration {
	if p.streamer == nil {
		return 0
	}
	p.speakerLock()
	n := p.streamer.Position()
	p.speakerUnlock()
	return p.format.SampleRate.D(n)
}

// level reports the current output level for the meter.
func (p *player) level() float64 {
	if p.tap == nil || p.paused {
		return 0
	}
	return p.tap.Level(levelWindow)
}

func clampVolume(v float64) float64 {
	if v < volumeMin {
		return volumeMin
	}
	if v > volumeMax {
		return volumeMax
	}
	return v
}
