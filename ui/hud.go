package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ink/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Tick           int32
	SimTime        float32
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Emitters       int
	BrushSize      int
	DiffusionRate  float32
	Viscosity      float32
	Parallel       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | dt: %.3g", data.Tick, data.StepsPerUpdate, data.FPS, data.SimTime),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Diffusion: %.4g | Viscosity: %.4g | Brush: %d | Emitters: %d",
			data.DiffusionRate, data.Viscosity, data.BrushSize, data.Emitters),
		10, 55, 16, rl.LightGray,
	)

	status := []string{"Running"}
	if data.Paused {
		status[0] = "PAUSED"
	}
	if data.Parallel {
		status = append(status, "parallel")
	}
	rl.DrawText(strings.Join(status, " | "), 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	height := int32(len(phases)+3)*(r.Theme.LineHeight+2) + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	inner := p.width - r.Theme.Padding*2

	y = r.DrawSectionHeader(x, y, "Solver Timing")
	y = r.DrawLabelValue(x, y, "Tick", stats.AvgTickDuration.Round(time.Microsecond).String())
	y = r.DrawLabelValue(x, y, "Solver", fmt.Sprintf("%.1f%%", stats.SolverShare()))

	for _, phase := range phases {
		y = r.DrawBar(x, y, phase, float32(stats.PhasePct[phase]/100), inner, 0.3)
	}
}
