// Package game runs the fluid simulation: it owns the grid, the stimulus
// queue, the emitters and telemetry, and drives them headless or in a
// raylib window.
package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/ink/components"
	"github.com/pthm-cable/ink/config"
	"github.com/pthm-cable/ink/fluid"
	"github.com/pthm-cable/ink/renderer"
	"github.com/pthm-cable/ink/sources"
	"github.com/pthm-cable/ink/stimulus"
	"github.com/pthm-cable/ink/telemetry"
	"github.com/pthm-cable/ink/ui"
)

// Options configures a Game beyond what the config file holds.
type Options struct {
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

const maxStepsPerUpdate = 10

// Game holds the complete simulation state.
type Game struct {
	grid    *fluid.Grid
	queue   *stimulus.Queue
	pointer *stimulus.Pointer
	sources *sources.System
	pixels  []uint32

	// Rendering (nil when headless)
	density    *renderer.DensityRenderer
	flow       *renderer.FlowRenderer
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	paramPanel *ui.ParamPanel
	controls   *ui.ControlsPanel
	overlays   *ui.OverlayRegistry

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool

	// State
	tick           int32
	paused         bool
	stepRequested  bool
	stepsPerUpdate int
	tickAccum      float64
}

// NewGameWithOptions creates a game from the global config. In graphics
// mode the raylib window must already be open.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	grid := fluid.New(cfg.FluidParams())
	queue := stimulus.NewQueue()

	g := &Game{
		grid:  grid,
		queue: queue,
		pointer: stimulus.NewPointer(stimulus.PointerConfig{
			Scale:         cfg.Screen.Scale,
			DensityAmount: float32(cfg.Input.DensityAmount),
			BrushSize:     cfg.Input.BrushSize,
			Acceleration:  float32(cfg.Input.Acceleration),
			DragThreshold: cfg.Input.DragThreshold,
		}, queue),
		sources:        sources.NewSystem(),
		pixels:         make([]uint32, grid.Cells()),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:      telemetry.NewCollector(int32(cfg.Telemetry.StatsWindow), grid.Cells()),
		logStats:       opts.LogStats,
		stepsPerUpdate: clampSteps(opts.StepsPerUpdate),
	}
	grid.SetObserver(g.perfCollector)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		g.outputManager = om
	}

	g.spawnConfiguredEmitters()

	if !opts.Headless {
		g.initRendering()
	}

	slog.Info("simulation created",
		"size", grid.Size(),
		"iterations", grid.Iterations(),
		"diffusion", grid.DiffusionRate(),
		"viscosity", grid.Viscosity(),
		"parallel", grid.Parallel(),
		"emitters", g.sources.Count(),
	)

	return g
}

// config returns the global configuration.
func (g *Game) config() *config.Config {
	return config.Cfg()
}

// spawnConfiguredEmitters places the emitters listed in the config.
func (g *Game) spawnConfiguredEmitters() {
	for _, ec := range g.config().Emitters {
		g.sources.Spawn(float32(ec.X), float32(ec.Y), components.Emitter{
			Density: float32(ec.Density),
			Size:    ec.Size,
			Force:   float32(ec.Force),
			Angle:   degToRad(ec.Angle),
			Spin:    degToRad(ec.Spin),
		}, float32(ec.Lifetime))
	}
}

// UpdateHeadless runs stepsPerUpdate ticks and renders once into the pixel
// buffer, which applies the same per-frame density decay a window would.
func (g *Game) UpdateHeadless() {
	if !g.paused {
		g.runTicks(g.stepsPerUpdate)
	}
	g.grid.RenderInto(g.pixels)
}

// runTicks runs n simulation ticks.
func (g *Game) runTicks(n int) {
	for i := 0; i < n; i++ {
		g.simulationStep()
	}
}

// advance runs the ticks owed for this frame, honoring pause and
// single-step requests.
func (g *Game) advance(dueTicks int) {
	if g.paused {
		if g.stepRequested {
			g.simulationStep()
		}
		g.stepRequested = false
		return
	}
	g.runTicks(dueTicks * g.stepsPerUpdate)
}

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	cfg := g.config()
	g.perfCollector.StartTick()

	// 1. Emitters push their stimulus for this tick.
	g.perfCollector.StartPhase(telemetry.PhaseEmitters)
	g.sources.Update(float32(cfg.Derived.TickSeconds), g.queue)

	// 2. Apply everything queued since the last tick boundary.
	g.perfCollector.StartPhase(telemetry.PhaseStimulus)
	g.collector.RecordCommands(g.queue.Drain(g.grid))

	// 3. Advance time and solve. The grid reports its own phases.
	g.grid.AdvanceTime(cfg.Derived.TimeStep32)
	g.grid.Step()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// SetPaused pauses or resumes ticking.
func (g *Game) SetPaused(paused bool) { g.paused = paused }

// Paused reports whether ticking is paused.
func (g *Game) Paused() bool { return g.paused }

// RequestStep runs exactly one tick on the next update while paused.
func (g *Game) RequestStep() { g.stepRequested = true }

// SetStepsPerUpdate sets the tick multiplier, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) { g.stepsPerUpdate = clampSteps(n) }

// StepsPerUpdate returns the tick multiplier.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Grid returns the simulated grid. Only the goroutine running the game may
// touch it.
func (g *Game) Grid() *fluid.Grid { return g.grid }

// Queue returns the stimulus queue. It is safe to push from any goroutine.
func (g *Game) Queue() *stimulus.Queue { return g.queue }

// Sources returns the emitter system.
func (g *Game) Sources() *sources.System { return g.sources }

// Pixels returns the most recently rendered frame.
func (g *Game) Pixels() []uint32 { return g.pixels }

// Unload releases all resources.
func (g *Game) Unload() {
	if g.density != nil {
		g.density.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}

func clampSteps(n int) int {
	return min(max(n, 1), maxStepsPerUpdate)
}

func degToRad(deg float64) float32 {
	return float32(deg * math.Pi / 180)
}
