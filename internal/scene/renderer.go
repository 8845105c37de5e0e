// Package scene renders the animated liquid background: three
// signed-distance-field circles on drifting orbits, merged with a smooth
// minimum and shaded by a time-cycling cosine palette. The scene runs as a
// per-pixel shader; an equivalent CPU path exists for tests and for the
// static fallback frame.
package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer owns one compiled scene program and the static full-surface quad.
// It is driven entirely by the host's frame loop: construct once, call Resize
// on surface changes, Draw every frame.
type Renderer struct {
	params   Params
	shader   *ebiten.Shader
	vertices [4]ebiten.Vertex
	indices  [6]uint16
	width    int
	height   int
}

// New compiles the scene program for the given device. Construction is the
// only fallible step: a renderer either comes back Ready or not at all.
// Errors are ErrUnsupported or *CompileError.
func New(params Params, dev Device) (*Renderer, error) {
	if !dev.Supported() {
		return nil, ErrUnsupported
	}
	shader, err := dev.Compile([]byte(shaderSrc))
	if err != nil {
		return nil, &CompileError{Err: err}
	}

	r := &Renderer{
		params: params.sanitize(),
		shader: shader,
		// Two triangles covering the quad in strip order.
		indices: [6]uint16{0, 1, 2, 1, 3, 2},
	}
	for i := range r.vertices {
		r.vertices[i].ColorR = 1
		r.vertices[i].ColorG = 1
		r.vertices[i].ColorB = 1
		r.vertices[i].ColorA = 1
	}
	return r, nil
}

// Params returns the scene parameters after sanitization.
func (r *Renderer) Params() Params { return r.params }

// Resize updates the quad to cover the new surface size. The host must call
// this on resize notification, before the next Draw reads the resolution.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height

	w, h := float32(width), float32(height)
	r.vertices[0].DstX, r.vertices[0].DstY = 0, 0
	r.vertices[1].DstX, r.vertices[1].DstY = w, 0
	r.vertices[2].DstX, r.vertices[2].DstY = 0, h
	r.vertices[3].DstX, r.vertices[3].DstY = w, h
}

// Draw paints one frame onto dst. elapsed is wall-clock time in seconds
// since the renderer's session began, monotonically increasing.
func (r *Renderer) Draw(dst *ebiten.Image, elapsed float64) {
	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Uniforms = map[string]any{
		"Time":       float32(elapsed),
		"Speed":      float32(r.params.Speed),
		"Resolution": []float32{float32(r.width), float32(r.height)},
		"Radius": []float32{
			float32(r.params.Radii[0]),
			float32(r.params.Radii[1]),
			float32(r.params.Radii[2]),
		},
		"SmoothK": []float32{
			float32(r.params.SmoothK[0]),
			float32(r.params.SmoothK[1]),
		},
	}
	dst.DrawTrianglesShader(r.vertices[:], r.indices[:], r.shader, op)
}

// Close releases the compiled program. The renderer must not be used after.
func (r *Renderer) Close() {
	if r.shader != nil {
		r.shader.Deallocate()
		r.shader = nil
	}
}
