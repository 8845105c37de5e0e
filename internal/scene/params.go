package scene

// minPositive guards the smooth-min division and the glow falloff against
// degenerate parameter values.
const minPositive = 1e-4

// Params are the scene knobs, fixed for the lifetime of a Renderer.
type Params struct {
	// Speed multiplies elapsed time before the orbit phases are computed.
	Speed float64
	// Radii are the three blob radii in normalized scene units
	// (the visible vertical extent is roughly [-0.5, 0.5]).
	Radii [3]float64
	// SmoothK holds the two blend sharpness coefficients: [0] merges
	// blob 1 with blob 2, [1] merges that result with blob 3.
	SmoothK [2]float64
}

// DefaultParams returns the stock scene configuration.
func DefaultParams() Params {
	return Params{
		Speed:   0.5,
		Radii:   [3]float64{0.2, 0.15, 0.22},
		SmoothK: [2]float64{0.2, 0.25},
	}
}

// sanitize clamps radii and blend coefficients to a small positive epsilon.
// A zero k would divide by zero in the smooth blend; a zero radius collapses
// a blob to a point and spikes the glow term.
func (p Params) sanitize() Params {
	if p.Speed <= 0 {
		p.Speed = DefaultParams().Speed
	}
	for i := range p.Radii {
		if p.Radii[i] < minPositive {
			p.Radii[i] = minPositive
		}
	}
	for i := range p.SmoothK {
		if p.SmoothK[i] < minPositive {
			p.SmoothK[i] = minPositive
		}
	}
	return p
}
