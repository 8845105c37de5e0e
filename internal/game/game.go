// Package game implements the Stillpond app shell: landing screen, session
// timer, track player and library drawer, layered over the animated
// background from internal/scene.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/ameline/stillpond/internal/config"
	"github.com/ameline/stillpond/internal/scene"
)

type screen int

const (
	screenLanding screen = iota
	screenSession
)

const drawerWidth = 300

// Game wires the whole app together and satisfies ebiten.Game. Everything
// runs on the update/draw loop; the only other goroutine is the speaker's,
// which reports back over the player's done channel.
type Game struct {
	cfg config.Config
	scr screen

	bg       *background
	started  time.Time // renderer epoch, set at construction
	timer    *SessionTimer
	playlist *Playlist
	audio    *player

	drawerOpen bool
	drawerSel  int

	prevKey map[ebiten.Key]bool
	width   int
	height  int
	lastErr error
}

func New(cfg config.Config) *Game {
	params := scene.Params{
		Speed:   cfg.Scene.Speed,
		Radii:   cfg.Scene.Radii,
		SmoothK: cfg.Scene.SmoothK,
	}
	return &Game{
		cfg:      cfg,
		bg:       newBackground(params),
		started:  time.Now(),
		timer:    NewSessionTimer(),
		playlist: NewPlaylist(ScanTracks(cfg.MusicDir)),
		audio:    newPlayer(cfg.Volume),
		prevKey:  map[ebiten.Key]bool{},
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) && g.drawerOpen {
		g.drawerOpen = false
	}
	if justPressed(ebiten.KeyQ) {
		g.audio.stop()
		g.bg.close()
		return ebiten.Termination
	}

	// Drain track-end notifications from the speaker goroutine.
	select {
	case <-g.audio.done:
		g.onTrackEnd()
	default:
	}

	switch g.scr {
	case screenLanding:
		if justPressed(ebiten.KeyEnter) || justPressed(ebiten.KeySpace) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.beginSession()
		}
	case screenSession:
		if g.drawerOpen {
			g.updateDrawer(justPressed)
		} else {
			g.updateSession(justPressed)
		}
	}

	return nil
}

func (g *Game) updateSession(justPressed func(ebiten.Key) bool) {
	if justPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if justPressed(ebiten.KeyN) || justPressed(ebiten.KeyArrowRight) {
		if t, ok := g.playlist.Next(); ok {
			g.startTrack(t)
		}
	}
	if justPressed(ebiten.KeyB) || justPressed(ebiten.KeyArrowLeft) {
		if t, ok := g.playlist.Prev(); ok {
			g.startTrack(t)
		}
	}
	if justPressed(ebiten.KeyS) {
		g.playlist.ToggleShuffle()
	}
	if justPressed(ebiten.KeyL) {
		g.playlist.CycleLoop()
	}
	if justPressed(ebiten.KeyArrowUp) {
		g.audio.adjustVolume(volumeStep)
	}
	if justPressed(ebiten.KeyArrowDown) {
		g.audio.adjustVolume(-volumeStep)
	}
	if justPressed(ebiten.KeyM) {
		g.audio.toggleMute()
	}
	if justPressed(ebiten.KeyTab) {
		g.openDrawer()
	}
	if justPressed(ebiten.KeyO) {
		if err := g.addTrackDialog(); err != nil {
			g.lastErr = err
		}
	}
}

func (g *Game) updateDrawer(justPressed func(ebiten.Key) bool) {
	if justPressed(ebiten.KeyTab) {
		g.drawerOpen = false
	}
	if justPressed(ebiten.KeyArrowUp) && g.drawerSel > 0 {
		g.drawerSel--
	}
	if justPressed(ebiten.KeyArrowDown) && g.drawerSel < g.playlist.Len()-1 {
		g.drawerSel++
	}
	if justPressed(ebiten.KeyEnter) {
		if t, ok := g.playlist.Select(g.drawerSel); ok {
			g.startTrack(t)
			g.drawerOpen = false
		}
	}
	if justPressed(ebiten.KeyO) {
		if err := g.addTrackDialog(); err != nil {
			g.lastErr = err
		}
	}
}

func (g *Game) beginSession() {
	g.scr = screenSession
	g.timer.Start()
	if t, ok := g.playlist.Next(); ok {
		g.startTrack(t)
	}
}

func (g *Game) startTrack(t Track) {
	if err := g.audio.play(t); err != nil {
		g.lastErr = err
		return
	}
	g.lastErr = nil
	if !g.timer.Running() {
		g.timer.Resume()
	}
}

func (g *Game) togglePause() {
	if !g.audio.loaded() {
		return
	}
	g.audio.togglePause()
	if g.audio.playing() {
		g.timer.Resume()
	} else {
		g.timer.Pause()
	}
}

func (g *Game) onTrackEnd() {
	if t, ok := g.playlist.NextAuto(); ok {
		g.startTrack(t)
		return
	}
	g.audio.stop()
	g.timer.Pause()
}

func (g *Game) openDrawer() {
	g.drawerOpen = true
	g.drawerSel = g.playlist.CurrentIndex()
	if g.drawerSel < 0 {
		g.drawerSel = 0
	}
}

// addTrackDialog lets the user pick a local audio file and starts it.
func (g *Game) addTrackDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Add Audio Track"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	g.playlist.Add(Track{Title: TrackTitle(filename), Path: filename})
	if t, ok := g.playlist.Select(g.playlist.Len() - 1); ok {
		g.startTrack(t)
	}
	return nil
}

func (g *Game) elapsed() float64 {
	return time.Since(g.started).Seconds()
}

func (g *Game) Draw(dst *ebiten.Image) {
	elapsed := g.elapsed()

	switch g.scr {
	case screenLanding:
		g.bg.drawGradient(dst, elapsed)
		g.bg.drawGrain(dst)
		g.drawLanding(dst)
	case screenSession:
		g.bg.drawScene(dst, elapsed)
		g.bg.drawGrain(dst)
		g.drawSession(dst)
		if g.drawerOpen {
			g.drawDrawer(dst)
		}
	}
}

func (g *Game) drawLanding(dst *ebiten.Image) {
	cx := g.width / 2
	ebitenutil.DebugPrintAt(dst, "s t i l l p o n d", cx-70, g.height/2-20)
	ebitenutil.DebugPrintAt(dst, "press enter to begin", cx-80, g.height/2+10)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%d tracks in library", g.playlist.Len()), cx-75, g.height/2+30)
}

func (g *Game) drawSession(dst *ebiten.Image) {
	// Session timer, top center.
	ebitenutil.DebugPrintAt(dst, formatDuration(g.timer.Elapsed()), g.width/2-18, 14)

	status := "press tab for library"
	if t, ok := g.playlist.Current(); ok {
		switch {
		case !g.audio.loaded():
			status = t.Title + " - stopped"
		case g.audio.playing():
			status = t.Title + " - " + formatDuration(g.audio.position())
		default:
			status = t.Title + " - paused"
		}
	}
	ebitenutil.DebugPrintAt(dst, status, 12, g.height-58)

	modes := fmt.Sprintf("shuffle %s | %s | vol %d%%",
		onOff(g.playlist.Shuffle()), g.playlist.Loop(), g.audio.volumePercent())
	ebitenutil.DebugPrintAt(dst, modes, 12, g.height-40)
	ebitenutil.DebugPrintAt(dst, "space pause  n/b track  s shuffle  l loop  m mute  o add  q quit", 12, g.height-22)

	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(dst, "error: "+g.lastErr.Error(), 12, 14)
	}

	g.drawLevelMeter(dst)
}

// drawLevelMeter shows current output loudness as a thin bar on the right.
func (g *Game) drawLevelMeter(dst *ebiten.Image) {
	level := g.audio.level()
	barH := float64(g.height) * 0.25
	x := float64(g.width) - 18
	y := float64(g.height) - 30 - barH

	vector.StrokeRect(dst, float32(x), float32(y), 8, float32(barH), 1, color.RGBA{R: 60, G: 70, B: 90, A: 160}, false)

	fill := barH * level
	hue := 180 + 60*level
	r, gr, b := hsvToRgb(hue, 0.6, 0.9)
	vector.DrawFilledRect(dst, float32(x), float32(y+barH-fill), 8, float32(fill), color.RGBA{R: r, G: gr, B: b, A: 200}, false)
}

func (g *Game) drawDrawer(dst *ebiten.Image) {
	w := drawerWidth
	if w > g.width {
		w = g.width
	}
	vector.DrawFilledRect(dst, 0, 0, float32(w), float32(g.height), color.RGBA{R: 12, G: 14, B: 20, A: 230}, false)
	vector.StrokeLine(dst, float32(w), 0, float32(w), float32(g.height), 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	ebitenutil.DebugPrintAt(dst, "library  (enter play, o add, tab close)", 12, 12)

	if g.playlist.Len() == 0 {
		ebitenutil.DebugPrintAt(dst, "no tracks yet - press o to add one", 12, 40)
		return
	}

	for i, t := range g.playlist.Tracks() {
		y := 40 + i*18
		if y > g.height-20 {
			break
		}
		prefix := "  "
		if i == g.drawerSel {
			prefix = "> "
		}
		if i == g.playlist.CurrentIndex() {
			prefix = prefix[:1] + "*"
		}
		ebitenutil.DebugPrintAt(dst, prefix+t.Title, 12, y)
	}
}

// Layout adopts the outside size so the window is freely resizable. Resize
// reaches the scene renderer here, before the frame's Draw reads resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	g.width = outsideWidth
	g.height = outsideHeight
	g.bg.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
