package fluid

// Grid is an N x N fluid simulation. Cells are stored row-major.
// A Grid is not safe for concurrent use; callers serialize access
// (see the stimulus package).
type Grid struct {
	n             int
	iterations    int
	decayAmount   float32
	diffusionRate float32
	viscosity     float32
	parallel      bool

	// simulationTime accumulates AdvanceTime calls and is the dt used by Step.
	simulationTime float32

	density        []float32
	densityScratch []float32
	velX           []float32
	velY           []float32
	velScratchX    []float32
	velScratchY    []float32

	observer PhaseObserver
}

// New allocates a zeroed grid.
func New(p Params) *Grid {
	p = p.normalize()
	cells := p.Size * p.Size
	return &Grid{
		n:              p.Size,
		iterations:     p.Iterations,
		decayAmount:    p.DecayAmount,
		diffusionRate:  p.DiffusionRate,
		viscosity:      p.Viscosity,
		parallel:       p.Parallel,
		density:        make([]float32, cells),
		densityScratch: make([]float32, cells),
		velX:           make([]float32, cells),
		velY:           make([]float32, cells),
		velScratchX:    make([]float32, cells),
		velScratchY:    make([]float32, cells),
	}
}

// Size returns N.
func (g *Grid) Size() int { return g.n }

// Cells returns N*N.
func (g *Grid) Cells() int { return g.n * g.n }

// Iterations returns the relaxation sweep count.
func (g *Grid) Iterations() int { return g.iterations }

// Index maps (x, y) to a buffer offset. Coordinates outside [0, N-1] are
// clamped, so out-of-range reads and writes alias the nearest edge cell.
func (g *Grid) Index(x, y int) int {
	n := g.n
	if x < 0 {
		x = 0
	} else if x > n-1 {
		x = n - 1
	}
	if y < 0 {
		y = 0
	} else if y > n-1 {
		y = n - 1
	}
	return x + y*n
}

// Density returns the live density buffer. Callers must not retain it
// across Step calls made from other goroutines.
func (g *Grid) Density() []float32 { return g.density }

// VelocityX returns the live horizontal velocity buffer.
func (g *Grid) VelocityX() []float32 { return g.velX }

// VelocityY returns the live vertical velocity buffer.
func (g *Grid) VelocityY() []float32 { return g.velY }

// DensityAt returns the density at (x, y) with clamped addressing.
func (g *Grid) DensityAt(x, y int) float32 { return g.density[g.Index(x, y)] }

// VelocityAt returns the velocity at (x, y) with clamped addressing.
func (g *Grid) VelocityAt(x, y int) (float32, float32) {
	i := g.Index(x, y)
	return g.velX[i], g.velY[i]
}

func (g *Grid) DiffusionRate() float32        { return g.diffusionRate }
func (g *Grid) SetDiffusionRate(rate float32) { g.diffusionRate = rate }
func (g *Grid) Viscosity() float32            { return g.viscosity }
func (g *Grid) SetViscosity(v float32)        { g.viscosity = v }
func (g *Grid) Parallel() bool                { return g.parallel }
func (g *Grid) SetParallel(on bool)           { g.parallel = on }

// AddDensity adds amount to the cell at (x, y).
func (g *Grid) AddDensity(x, y int, amount float32) {
	g.density[g.Index(x, y)] += amount
}

// AddDensityBrush adds amount to the square of cells from (x-size/2, y-size/2)
// up to but excluding (x+size/2, y+size/2). Cells past the edge clamp, so a
// brush near a border deposits repeatedly into the edge cells.
func (g *Grid) AddDensityBrush(x, y int, amount float32, size int) {
	half := size / 2
	for i := -half; i < half; i++ {
		for j := -half; j < half; j++ {
			g.density[g.Index(x+i, y+j)] += amount
		}
	}
}

// AddVelocity adds (dx, dy) to the velocity at (x, y).
func (g *Grid) AddVelocity(x, y int, dx, dy float32) {
	i := g.Index(x, y)
	g.velX[i] += dx
	g.velY[i] += dy
}

// AdvanceTime adds dt to the accumulated simulation time.
func (g *Grid) AdvanceTime(dt float32) { g.simulationTime += dt }

// SimulationTime returns the accumulated time, which Step uses as its dt.
func (g *Grid) SimulationTime() float32 { return g.simulationTime }

// DecayDensity subtracts the decay amount from every cell and clamps the
// result to [0, MaxDensity]. Velocity is not damped.
func (g *Grid) DecayDensity() {
	for i, d := range g.density {
		g.density[i] = clamp32(d-g.decayAmount, 0, MaxDensity)
	}
}

// Reset zeroes every buffer. Simulation time is kept.
func (g *Grid) Reset() {
	clear(g.density)
	clear(g.densityScratch)
	clear(g.velX)
	clear(g.velY)
	clear(g.velScratchX)
	clear(g.velScratchY)
}

// RenderInto writes one packed 0x00RRGGBB gray pixel per cell, row-major,
// then decays the density. A short buffer receives only its leading cells.
func (g *Grid) RenderInto(pixels []uint32) {
	n := min(len(pixels), len(g.density))
	for i := 0; i < n; i++ {
		v := densityByte(g.density[i])
		pixels[i] = v<<16 | v<<8 | v
	}
	g.DecayDensity()
}

// densityByte converts a density to its displayed gray level.
func densityByte(d float32) uint32 {
	if !(d >= 1) { // also catches NaN
		return 0
	}
	if d >= MaxDensity {
		return MaxDensity
	}
	return uint32(d)
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
