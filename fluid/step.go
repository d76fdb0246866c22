package fluid

// Phase names reported to a PhaseObserver during Step.
const (
	PhaseDiffuseVelocity = "diffuse_velocity"
	PhaseProject         = "project"
	PhaseAdvectVelocity  = "advect_velocity"
	PhaseReproject       = "reproject"
	PhaseDiffuseDensity  = "diffuse_density"
	PhaseAdvectDensity   = "advect_density"
)

// PhaseObserver is notified as Step enters each phase.
type PhaseObserver interface {
	StartPhase(phase string)
}

// SetObserver installs o, or removes the observer when o is nil.
func (g *Grid) SetObserver(o PhaseObserver) { g.observer = o }

func (g *Grid) phase(name string) {
	if g.observer != nil {
		g.observer.StartPhase(name)
	}
}

// Step advances the simulation once, using the accumulated simulation time
// as dt.
//
// The velocity buffers trade roles between phases. The scratch pair receives
// the diffused velocity while the live pair serves as pressure and divergence
// storage for the first projection. The live pair then receives the advected
// velocity and the scratch pair becomes projection storage. Density diffuses
// into its scratch buffer and is advected back along the final velocity.
func (g *Grid) Step() {
	dt := g.simulationTime

	g.phase(PhaseDiffuseVelocity)
	g.Diffuse(BoundaryX, g.velScratchX, g.velX, g.viscosity, dt)
	g.Diffuse(BoundaryY, g.velScratchY, g.velY, g.viscosity, dt)

	g.phase(PhaseProject)
	g.Project(g.velScratchX, g.velScratchY, g.velX, g.velY)

	g.phase(PhaseAdvectVelocity)
	g.Advect(BoundaryX, g.velX, g.velScratchX, g.velScratchX, g.velScratchY, dt)
	g.Advect(BoundaryY, g.velY, g.velScratchY, g.velScratchX, g.velScratchY, dt)

	g.phase(PhaseReproject)
	g.Project(g.velX, g.velY, g.velScratchX, g.velScratchY)

	g.phase(PhaseDiffuseDensity)
	g.Diffuse(BoundaryScalar, g.densityScratch, g.density, g.diffusionRate, dt)

	g.phase(PhaseAdvectDensity)
	g.Advect(BoundaryScalar, g.density, g.densityScratch, g.velX, g.velY, dt)
}
