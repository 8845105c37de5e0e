package game

import (
	"errors"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ameline/stillpond/internal/scene"
)

const (
	grainTileSize = 128
	grainAlpha    = 0.045

	// The fallback frame is rasterized at reduced resolution and scaled up.
	fallbackScale = 4
)

// background composes the visual layers: a sine-shifted vertical gradient on
// the landing screen, the shader scene during a session, and a grain texture
// on top of everything. When the scene renderer could not be constructed the
// session shows a single CPU-rasterized frame plus a human-readable notice.
type background struct {
	renderer    *scene.Renderer
	fallbackMsg string
	fallback    *ebiten.Image
	params      scene.Params
	grain       *ebiten.Image
	width       int
	height      int
}

func newBackground(params scene.Params) *background {
	b := &background{
		params: params,
		grain:  makeGrain(grainTileSize),
	}

	r, err := scene.New(params, scene.GraphicsDevice{})
	switch {
	case err == nil:
		b.renderer = r
	case errors.Is(err, scene.ErrUnsupported):
		b.fallbackMsg = err.Error()
	default:
		log.Printf("scene renderer unavailable: %v", err)
		b.fallbackMsg = "background animation unavailable on this system"
	}
	return b
}

// resize propagates the new surface size. Must run before the next draw.
func (b *background) resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	b.width = width
	b.height = height
	if b.renderer != nil {
		b.renderer.Resize(width, height)
	}
	b.fallback = nil
}

// drawGradient paints the deep-blue ambient gradient, one scanline at a
// time, with colors drifting slowly over time.
func (b *background) drawGradient(screen *ebiten.Image, elapsed float64) {
	for y := 0; y < b.height; y++ {
		ratio := float64(y) / float64(b.height)
		r := uint8(10 + 20*math.Sin(elapsed*0.5+ratio*math.Pi))
		g := uint8(12 + 15*math.Cos(elapsed*0.3+ratio*math.Pi))
		bl := uint8(20 + 25*math.Sin(elapsed*0.7+ratio*math.Pi))
		ebitenutil.DrawLine(screen, 0, float64(y), float64(b.width), float64(y), color.RGBA{R: r, G: g, B: bl, A: 255})
	}
}

// drawScene paints the animated scene, or the static fallback frame with its
// notice when no renderer exists.
func (b *background) drawScene(screen *ebiten.Image, elapsed float64) {
	if b.renderer != nil {
		b.renderer.Draw(screen, elapsed)
		return
	}

	if b.fallback == nil {
		w, h := b.width/fallbackScale, b.height/fallbackScale
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		b.fallback = ebiten.NewImageFromImage(scene.RasterizeFrame(b.params, 0, w, h))
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(
		float64(b.width)/float64(b.fallback.Bounds().Dx()),
		float64(b.height)/float64(b.fallback.Bounds().Dy()),
	)
	screen.DrawImage(b.fallback, op)
	ebitenutil.DebugPrintAt(screen, b.fallbackMsg, 12, b.height-20)
}

// drawGrain tiles the noise texture across the surface at low alpha.
func (b *background) drawGrain(screen *ebiten.Image) {
	for y := 0; y < b.height; y += grainTileSize {
		for x := 0; x < b.width; x += grainTileSize {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			op.ColorScale.ScaleAlpha(grainAlpha)
			screen.DrawImage(b.grain, op)
		}
	}
}

func (b *background) close() {
	if b.renderer != nil {
		b.renderer.Close()
		b.renderer = nil
	}
}

// makeGrain builds one tile of static monochrome noise.
func makeGrain(size int) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	pix := make([]byte, 4*size*size)
	for i := 0; i < len(pix); i += 4 {
		v := byte(rand.Intn(256))
		pix[i] = v
		pix[i+1] = v
		pix[i+2] = v
		pix[i+3] = 255
	}
	img.WritePixels(pix)
	return img
}
