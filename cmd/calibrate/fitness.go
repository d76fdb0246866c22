package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ink/config"
	"github.com/pthm-cable/ink/fluid"
)

// Probe is one puff experiment: a square of ink at the grid centre with an
// optional velocity kick.
type Probe struct {
	Name      string
	Ink       float32
	BrushSize int
	KickX     float32
	KickY     float32
}

// DefaultProbes returns a still puff and two kicked puffs.
func DefaultProbes(cfg *config.Config) []Probe {
	ink := float32(cfg.Input.DensityAmount)
	brush := cfg.Input.BrushSize
	kick := float32(cfg.Input.Acceleration) * float32(cfg.Input.DragThreshold) * 4
	return []Probe{
		{Name: "still", Ink: ink, BrushSize: brush},
		{Name: "kick_x", Ink: ink, BrushSize: brush, KickX: kick},
		{Name: "kick_y", Ink: ink, BrushSize: brush, KickY: kick},
	}
}

// failedFitness is returned when a run produced no measurable ink.
const failedFitness = 1e6

// Evaluator runs puff probes headless and scores how far their spread
// radius lands from the target.
type Evaluator struct {
	params   *ParamVector
	base     *config.Config
	probes   []Probe
	ticks    int
	target   float64
	timeStep float32

	mu         sync.Mutex
	lastRadius float64 // mean radius from the most recent Evaluate call
}

// NewEvaluator creates an evaluator. A timeStep of zero uses the config's.
func NewEvaluator(params *ParamVector, base *config.Config, probes []Probe, ticks int, target float64, timeStep float32) *Evaluator {
	if timeStep == 0 {
		timeStep = base.Derived.TimeStep32
	}
	return &Evaluator{
		params:   params,
		base:     base,
		probes:   probes,
		ticks:    ticks,
		target:   target,
		timeStep: timeStep,
	}
}

// LastRadius returns the mean spread radius from the most recent evaluation.
func (e *Evaluator) LastRadius() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRadius
}

// Evaluate scores raw parameter values (lower = better): the mean squared
// distance between each probe's spread radius and the target.
func (e *Evaluator) Evaluate(raw []float64) float64 {
	cfg := *e.base
	e.params.ApplyToConfig(&cfg, raw)
	p := cfg.FluidParams()

	// Probes are independent grids, so run them concurrently.
	radii := make([]float64, len(e.probes))
	var wg sync.WaitGroup
	for i, probe := range e.probes {
		wg.Add(1)
		go func(idx int, pr Probe) {
			defer wg.Done()
			radii[idx] = RunProbe(p, e.timeStep, e.ticks, pr)
		}(i, probe)
	}
	wg.Wait()

	var sq, sum float64
	for _, r := range radii {
		if math.IsNaN(r) {
			return failedFitness
		}
		d := r - e.target
		sq += d * d
		sum += r
	}

	e.mu.Lock()
	e.lastRadius = sum / float64(len(radii))
	e.mu.Unlock()

	return sq / float64(len(radii))
}

// RunProbe runs one probe for the given number of ticks and returns the
// ink spread radius, or NaN if no ink is left.
func RunProbe(p fluid.Params, timeStep float32, ticks int, probe Probe) float64 {
	g := fluid.New(p)
	n := g.Size()
	c := n / 2

	g.AddDensityBrush(c, c, probe.Ink, probe.BrushSize)
	if probe.KickX != 0 || probe.KickY != 0 {
		g.AddVelocity(c, c, probe.KickX, probe.KickY)
	}

	// Each tick renders once, as the viewer does, so decay is included.
	pixels := make([]uint32, g.Cells())
	for i := 0; i < ticks; i++ {
		g.AdvanceTime(timeStep)
		g.Step()
		g.RenderInto(pixels)
	}

	_, _, radius := MeasureSpread(g.Density(), n)
	return radius
}

// MeasureSpread returns the ink-weighted centre of mass and RMS radius of a
// density field. It returns NaN for all three when the field holds no ink.
func MeasureSpread(density []float32, n int) (cx, cy, radius float64) {
	xs := make([]float64, 0, len(density))
	ys := make([]float64, 0, len(density))
	ws := make([]float64, 0, len(density))
	for idx, d := range density {
		if d <= 0 || math.IsNaN(float64(d)) {
			continue
		}
		xs = append(xs, float64(idx%n))
		ys = append(ys, float64(idx/n))
		ws = append(ws, float64(d))
	}
	if len(ws) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}

	cx = stat.Mean(xs, ws)
	cy = stat.Mean(ys, ws)
	if len(ws) == 1 {
		return cx, cy, 0
	}
	varX := stat.PopVariance(xs, ws)
	varY := stat.PopVariance(ys, ws)
	return cx, cy, math.Sqrt(varX + varY)
}
