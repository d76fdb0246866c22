package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParamValues are the coefficients the parameter panel edits live.
type ParamValues struct {
	DiffusionRate float32
	Viscosity     float32
	BrushSize     int
	Parallel      bool
}

// Slider ranges. Coefficients span several decades, so their sliders work
// on log10 of the value.
const (
	minLogDiffusion = -5
	maxLogDiffusion = 0
	minLogViscosity = -7
	maxLogViscosity = -1
	minBrush        = 1
	maxBrush        = 32

	paramPanelHeight = 200
)

// ParamPanel draws raygui sliders for the solver coefficients.
type ParamPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewParamPanel creates a parameter panel.
func NewParamPanel(x, y, width int32) *ParamPanel {
	return &ParamPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Bounds returns the screen area the panel covers.
func (p *ParamPanel) Bounds() rl.Rectangle {
	return rl.Rectangle{X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: paramPanelHeight}
}

// Draw renders the panel and returns the values after user edits and
// whether anything changed.
func (p *ParamPanel) Draw(v ParamValues) (ParamValues, bool) {
	r := p.renderer
	pad := r.Theme.Padding
	sliderW := float32(p.width - pad*2 - 60)
	r.DrawPanel(p.x, p.y, p.width, paramPanelHeight)

	x := p.x + pad
	y := p.y + pad
	y = r.DrawSectionHeader(x, y, "Parameters")

	out := v

	y = p.label(x, y, "Diffusion", fmt.Sprintf("%.3g", v.DiffusionRate))
	if pos, moved := p.logSlider(x, y, sliderW, v.DiffusionRate, minLogDiffusion, maxLogDiffusion); moved {
		out.DiffusionRate = fromLog(pos, minLogDiffusion)
	}
	y += 30

	y = p.label(x, y, "Viscosity", fmt.Sprintf("%.3g", v.Viscosity))
	if pos, moved := p.logSlider(x, y, sliderW, v.Viscosity, minLogViscosity, maxLogViscosity); moved {
		out.Viscosity = fromLog(pos, minLogViscosity)
	}
	y += 30

	y = p.label(x, y, "Brush", fmt.Sprintf("%d", v.BrushSize))
	brush := gui.SliderBar(p.bounds(x, y, sliderW), "", "", float32(v.BrushSize), minBrush, maxBrush)
	out.BrushSize = snapBrush(brush)
	y += 30

	mode := "Serial"
	if v.Parallel {
		mode = "Parallel"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 120, Height: 24}, mode) {
		out.Parallel = !v.Parallel
	}

	return out, out != v
}

// logSlider draws a slider over log10 of value. Round trips through log
// space are lossy, so the caller only takes the new position when the knob
// actually moved.
func (p *ParamPanel) logSlider(x, y int32, w, value, lo, hi float32) (float32, bool) {
	cur := toLog(value, lo)
	pos := gui.SliderBar(p.bounds(x, y, w), "", "", cur, lo, hi)
	return pos, pos != cur
}

func (p *ParamPanel) label(x, y int32, name, value string) int32 {
	return p.renderer.DrawLabelValue(x, y, name, value)
}

func (p *ParamPanel) bounds(x, y int32, w float32) rl.Rectangle {
	return rl.Rectangle{X: float32(x), Y: float32(y), Width: w, Height: 14}
}

// toLog maps a coefficient to its slider position. Zero and negative values
// sit at the bottom of the range.
func toLog(v float32, floor float32) float32 {
	if v <= 0 {
		return floor
	}
	return max(float32(math.Log10(float64(v))), floor)
}

// fromLog maps a slider position back to a coefficient. The bottom of the
// range means zero so a coefficient can be switched off entirely.
func fromLog(pos float32, floor float32) float32 {
	if pos <= floor {
		return 0
	}
	return float32(math.Pow(10, float64(pos)))
}

func snapBrush(v float32) int {
	n := int(math.Round(float64(v)))
	return min(max(n, minBrush), maxBrush)
}
