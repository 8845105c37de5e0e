package scene

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// shaderSrc is the Kage program evaluated once per pixel per frame. It must
// stay in lockstep with the reference math in sdf.go.
const shaderSrc = `//kage:unit pixels

package main

var Time float
var Speed float
var Resolution vec2
var Radius vec3
var SmoothK vec2

func circle(p vec2, c vec2, r float) float {
	return length(p-c) - r
}

func smin(d1 float, d2 float, k float) float {
	h := clamp(0.5+0.5*(d2-d1)/k, 0.0, 1.0)
	return mix(d2, d1, h) - k*h*(1.0-h)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := (dstPos.xy - 0.5*Resolution) / Resolution.y

	t := Time * Speed
	c1 := vec2(cos(t*0.5), sin(t*0.5)) * 0.3
	c2 := vec2(cos(t*0.7+2.1), sin(t*0.6+2.1)) * 0.4
	c3 := vec2(cos(t*0.4+4.2), sin(t*0.8+4.2)) * 0.35

	d1 := circle(uv, c1, Radius.x)
	d2 := circle(uv, c2, Radius.y)
	d3 := circle(uv, c3, Radius.z)
	d := smin(smin(d1, d2, SmoothK.x), d3, SmoothK.y)

	base := 0.01 / abs(d)
	pal := 0.5 + 0.5*cos(Time*0.2+uv.xyx+vec3(0.0, 1.0, 2.0))

	return vec4(clamp(vec3(base)*pal, 0.0, 1.0), 1.0)
}
`

// ErrUnsupported reports that the rendering backend cannot run per-pixel
// programs. Its text is meant for direct display to the user.
var ErrUnsupported = errors.New("this graphics device does not support shader rendering")

// CompileError wraps a shader compilation or linking failure. The cause is a
// diagnostic for logs; hosts show a generic fallback message instead.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string { return fmt.Sprintf("compiling scene shader: %v", e.Err) }

func (e *CompileError) Unwrap() error { return e.Err }

// Device is the narrow capability the renderer needs from the host: the
// ability to compile a per-pixel program. The draw call itself goes through
// the destination image.
type Device interface {
	// Supported reports whether per-pixel programs can run at all.
	Supported() bool
	// Compile builds a program from Kage source.
	Compile(src []byte) (*ebiten.Shader, error)
}

// GraphicsDevice is the default Device backed by ebiten's shader compiler.
type GraphicsDevice struct{}

// Supported always reports true: ebiten guarantees shader support on every
// backend it initializes.
func (GraphicsDevice) Supported() bool { return true }

func (GraphicsDevice) Compile(src []byte) (*ebiten.Shader, error) {
	return ebiten.NewShader(src)
}
