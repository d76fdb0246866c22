package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ink/components"
	"github.com/pthm-cable/ink/renderer"
	"github.com/pthm-cable/ink/ui"
)

const (
	flowStride = 8
	panelWidth = 260

	controlsLegend = "LMB ink | RMB push | MMB/R reset | SPACE pause | N step | </> speed | [/] brush | E emitter | X clear emitters | O overlays"
)

// initRendering creates GPU resources and panels. The window must be open.
func (g *Game) initRendering() {
	cfg := g.config()
	scale := cfg.Screen.Scale
	width := int32(cfg.Derived.WindowWidth)

	g.density = renderer.NewDensityRenderer(g.grid.Size())
	g.density.Init()

	// A glyph reaches full length at twice the velocity of the smallest
	// right-drag push.
	refSpeed := float32(cfg.Input.Acceleration) * float32(cfg.Input.DragThreshold) * 2
	g.flow = renderer.NewFlowRenderer(flowStride, scale, float32(flowStride*scale)/refSpeed)

	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(width-panelWidth-10, 10, panelWidth)
	g.paramPanel = ui.NewParamPanel(width-panelWidth-10, 10, panelWidth)
	g.controls = ui.NewControlsPanel(10, 100, 180)

	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayHUD, cfg.Screen.ShowHUD)
}

// Update handles input and runs the ticks due since the last frame.
func (g *Game) Update() {
	g.handleInput()
	g.advance(g.dueTicks(float64(rl.GetFrameTime())))
}

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	// RenderInto also applies the per-frame density decay.
	g.grid.RenderInto(g.pixels)
	g.density.Upload(g.pixels)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.density.Draw(g.config().Screen.Scale)

	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.flow.Draw(g.grid)
	}
	if g.overlays.IsEnabled(ui.OverlayEmitters) {
		g.drawEmitters()
	}

	g.drawPanels()

	rl.EndDrawing()
}

// drawEmitters marks each emitter with a ring and its push direction.
func (g *Game) drawEmitters() {
	scale := float32(g.config().Screen.Scale)
	g.sources.Each(func(pos components.Position, em components.Emitter) {
		center := rl.Vector2{X: (pos.X + 0.5) * scale, Y: (pos.Y + 0.5) * scale}
		radius := max(float32(em.Size)*scale/2, 4)
		rl.DrawCircleLines(int32(center.X), int32(center.Y), radius, rl.Orange)
		if em.Force != 0 {
			tip := rl.Vector2{
				X: center.X + radius*2*cosf(em.Angle),
				Y: center.Y + radius*2*sinf(em.Angle),
			}
			rl.DrawLineV(center, tip, rl.Orange)
		}
	})
}

// drawPanels renders the HUD and whichever panels are open, and applies
// edits from the parameter panel.
func (g *Game) drawPanels() {
	cfg := g.config()

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(ui.HUDData{
			Title:          "Fluid Dynamics",
			Tick:           g.tick,
			SimTime:        g.grid.SimulationTime(),
			StepsPerUpdate: g.stepsPerUpdate,
			FPS:            rl.GetFPS(),
			Paused:         g.paused,
			Emitters:       g.sources.Count(),
			BrushSize:      g.pointer.Config().BrushSize,
			DiffusionRate:  g.grid.DiffusionRate(),
			Viscosity:      g.grid.Viscosity(),
			Parallel:       g.grid.Parallel(),
		})
		g.hud.DrawControls(int32(cfg.Derived.WindowHeight), controlsLegend)
	}

	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.controls.Draw(g.overlays)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if g.overlays.IsEnabled(ui.OverlayParams) {
		values, changed := g.paramPanel.Draw(g.paramValues())
		if changed {
			g.applyParams(values)
		}
	}
}

// paramValues reads the live coefficients for the parameter panel.
func (g *Game) paramValues() ui.ParamValues {
	return ui.ParamValues{
		DiffusionRate: g.grid.DiffusionRate(),
		Viscosity:     g.grid.Viscosity(),
		BrushSize:     g.pointer.Config().BrushSize,
		Parallel:      g.grid.Parallel(),
	}
}

// applyParams writes panel edits back. Draw runs on the goroutine that
// owns the grid, so the setters are safe here.
func (g *Game) applyParams(v ui.ParamValues) {
	g.grid.SetDiffusionRate(v.DiffusionRate)
	g.grid.SetViscosity(v.Viscosity)
	g.grid.SetParallel(v.Parallel)
	g.setBrushSize(v.BrushSize)
}
