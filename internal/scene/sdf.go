package scene

import (
	"image"
	"image/color"
	"math"
)

// CPU reference implementation of the scene function. The Kage shader in
// shader.go mirrors this term for term; keeping both lets the math be tested
// off-GPU and gives the host a way to rasterize a static frame when no shader
// is available.

type vec2 struct{ x, y float64 }

func (v vec2) sub(o vec2) vec2 { return vec2{v.x - o.x, v.y - o.y} }

func (v vec2) length() float64 { return math.Hypot(v.x, v.y) }

// circleSDF is the signed distance from p to a circle of radius r centered
// at c: negative inside, zero on the boundary, positive outside.
func circleSDF(p, c vec2, r float64) float64 {
	return p.sub(c).length() - r
}

// smoothMin blends two distances with sharpness k. Larger k widens the merge
// region; as k approaches zero the result approaches min(d1, d2).
func smoothMin(d1, d2, k float64) float64 {
	h := clamp(0.5+0.5*(d2-d1)/k, 0, 1)
	return lerp(d2, d1, h) - k*h*(1-h)
}

// orbitCenters places the three blobs at scaled time t. Each center uses a
// different angular rate per axis, so the paths are Lissajous-like rather
// than circular.
func orbitCenters(t float64) [3]vec2 {
	return [3]vec2{
		{math.Cos(t*0.5) * 0.3, math.Sin(t*0.5) * 0.3},
		{math.Cos(t*0.7+2.1) * 0.4, math.Sin(t*0.6+2.1) * 0.4},
		{math.Cos(t*0.4+4.2) * 0.35, math.Sin(t*0.8+4.2) * 0.35},
	}
}

// palette returns the per-channel cosine color wave at unscaled elapsed time.
// R, G and B cycle with a fixed phase offset, giving a slow hue drift
// independent of the blob motion.
func palette(elapsed float64, uv vec2) [3]float64 {
	return [3]float64{
		0.5 + 0.5*math.Cos(elapsed*0.2+uv.x),
		0.5 + 0.5*math.Cos(elapsed*0.2+uv.y+1),
		0.5 + 0.5*math.Cos(elapsed*0.2+uv.x+2),
	}
}

// sceneDistance evaluates the combined signed distance at uv. Blobs 1 and 2
// merge first, then blob 3 joins the pair; the order only affects which seam
// smooths first.
func sceneDistance(uv vec2, t float64, p Params) float64 {
	c := orbitCenters(t)
	d1 := circleSDF(uv, c[0], p.Radii[0])
	d2 := circleSDF(uv, c[1], p.Radii[1])
	d3 := circleSDF(uv, c[2], p.Radii[2])
	return smoothMin(smoothMin(d1, d2, p.SmoothK[0]), d3, p.SmoothK[1])
}

// shade produces the clamped RGB color for one pixel.
func shade(uv vec2, elapsed float64, p Params) [3]float64 {
	d := sceneDistance(uv, elapsed*p.Speed, p)
	base := 0.01 / math.Abs(d)
	pal := palette(elapsed, uv)
	return [3]float64{
		clamp(base*pal[0], 0, 1),
		clamp(base*pal[1], 0, 1),
		clamp(base*pal[2], 0, 1),
	}
}

// normalizeUV maps a pixel coordinate to scene space. Dividing both axes by
// the height keeps the vertical extent fixed at roughly [-0.5, 0.5] for any
// aspect ratio, so blob sizes are resolution-independent.
func normalizeUV(px, py, w, h float64) vec2 {
	return vec2{(px - 0.5*w) / h, (py - 0.5*h) / h}
}

// RasterizeFrame renders one frame of the scene on the CPU. It is far too
// slow for per-frame use; the host draws it once as a static backdrop when
// shader compilation failed.
func RasterizeFrame(p Params, elapsed float64, w, h int) *image.RGBA {
	p = p.sanitize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			uv := normalizeUV(float64(x)+0.5, float64(y)+0.5, float64(w), float64(h))
			rgb := shade(uv, elapsed, p)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rgb[0]*255 + 0.5),
				G: uint8(rgb[1]*255 + 0.5),
				B: uint8(rgb[2]*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
