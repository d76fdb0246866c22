// Package fluid implements a 2D stable-fluids solver on a fixed square grid.
//
// A Grid carries a passive density field through an incompressible velocity
// field. Each Step diffuses, projects, advects and re-projects the velocity,
// then diffuses and advects the density along the result. All solvers are
// unconditionally stable, so the time step can be arbitrarily large.
package fluid

// Params configures a Grid at construction.
type Params struct {
	Size          int     // cells per side (N)
	Iterations    int     // Gauss-Seidel sweeps per relaxation
	DecayAmount   float32 // density removed per DecayDensity call
	DiffusionRate float32 // density diffusion coefficient
	Viscosity     float32 // velocity diffusion coefficient
	Parallel      bool    // split per-cell loops across goroutines
}

// Reference values.
const (
	DefaultSize          = 256
	DefaultIterations    = 4
	DefaultDecayAmount   = 0.1
	DefaultDiffusionRate = 0.1
	DefaultViscosity     = 0.0004

	// MaxDensity is the upper clamp applied by DecayDensity and rendering.
	MaxDensity = 255
)

// DefaultParams returns the reference configuration.
func DefaultParams() Params {
	return Params{
		Size:          DefaultSize,
		Iterations:    DefaultIterations,
		DecayAmount:   DefaultDecayAmount,
		DiffusionRate: DefaultDiffusionRate,
		Viscosity:     DefaultViscosity,
	}
}

// normalize clamps values that would leave the grid without an interior.
func (p Params) normalize() Params {
	if p.Size < 3 {
		p.Size = 3
	}
	if p.Iterations < 1 {
		p.Iterations = 1
	}
	return p
}
