package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ink/fluid"
)

// inkThreshold is the density at which a cell first renders non-black.
const inkThreshold = 1

// FieldStats is a snapshot of the grid at the end of a window.
type FieldStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTime         float64 `csv:"sim_time"` // accumulated step dt

	// Ink
	InkMass     float64 `csv:"ink_mass"`     // sum of density
	InkPeak     float64 `csv:"ink_peak"`     // max density
	InkCoverage float64 `csv:"ink_coverage"` // fraction of cells >= inkThreshold
	InkP50      float64 `csv:"ink_p50"`      // median over inked cells
	InkP90      float64 `csv:"ink_p90"`

	// Velocity
	SpeedPeak   float64 `csv:"speed_peak"`   // largest |component|
	VelocityRMS float64 `csv:"velocity_rms"` // sqrt(mean(u^2+v^2))

	// Residual divergence after the last projection
	DivMean float64 `csv:"div_mean"`
	DivStd  float64 `csv:"div_std"`
	DivMax  float64 `csv:"div_max"` // max |div|

	// Activity during the window
	Commands int `csv:"commands"`
	Emitters int `csv:"emitters"`
}

// FieldSampler computes FieldStats from a grid, reusing scratch buffers.
type FieldSampler struct {
	div    []float32
	div64  []float64
	inked  []float64
	absDiv []float64
}

// NewFieldSampler creates a sampler for grids with the given cell count.
func NewFieldSampler(cells int) *FieldSampler {
	return &FieldSampler{
		div:    make([]float32, cells),
		div64:  make([]float64, 0, cells),
		inked:  make([]float64, 0, cells),
		absDiv: make([]float64, 0, cells),
	}
}

// Sample fills the field-derived parts of FieldStats.
func (fs *FieldSampler) Sample(g *fluid.Grid) FieldStats {
	var s FieldStats
	cells := g.Cells()
	if cells == 0 {
		return s
	}
	if len(fs.div) != cells {
		fs.div = make([]float32, cells)
	}
	s.SimTime = float64(g.SimulationTime())

	density := blas32.Vector{N: cells, Inc: 1, Data: g.Density()}
	velX := blas32.Vector{N: cells, Inc: 1, Data: g.VelocityX()}
	velY := blas32.Vector{N: cells, Inc: 1, Data: g.VelocityY()}

	// Density is non-negative after decay, so Asum is the total mass.
	s.InkMass = float64(blas32.Asum(density))
	s.InkPeak = float64(g.Density()[blas32.Iamax(density)])

	fs.inked = fs.inked[:0]
	for _, d := range g.Density() {
		if d >= inkThreshold {
			fs.inked = append(fs.inked, float64(d))
		}
	}
	s.InkCoverage = float64(len(fs.inked)) / float64(cells)
	if len(fs.inked) > 0 {
		sort.Float64s(fs.inked)
		s.InkP50 = Percentile(fs.inked, 0.5)
		s.InkP90 = Percentile(fs.inked, 0.9)
	}

	peakX := math.Abs(float64(g.VelocityX()[blas32.Iamax(velX)]))
	peakY := math.Abs(float64(g.VelocityY()[blas32.Iamax(velY)]))
	s.SpeedPeak = math.Max(peakX, peakY)
	nx, ny := float64(blas32.Nrm2(velX)), float64(blas32.Nrm2(velY))
	s.VelocityRMS = math.Sqrt((nx*nx + ny*ny) / float64(cells))

	fs.sampleDivergence(g, &s)
	return s
}

func (fs *FieldSampler) sampleDivergence(g *fluid.Grid, s *FieldStats) {
	g.Divergence(g.VelocityX(), g.VelocityY(), fs.div)

	n := g.Size()
	fs.div64 = fs.div64[:0]
	fs.absDiv = fs.absDiv[:0]
	for j := 1; j < n-1; j++ {
		for i := 1; i < n-1; i++ {
			d := float64(fs.div[i+j*n])
			fs.div64 = append(fs.div64, d)
			fs.absDiv = append(fs.absDiv, math.Abs(d))
		}
	}
	if len(fs.div64) == 0 {
		return
	}
	s.DivMean, s.DivStd = stat.MeanStdDev(fs.div64, nil)
	s.DivMax = floats.Max(fs.absDiv)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("ink_mass", s.InkMass),
		slog.Float64("ink_peak", s.InkPeak),
		slog.Float64("ink_coverage", s.InkCoverage),
		slog.Float64("ink_p50", s.InkP50),
		slog.Float64("ink_p90", s.InkP90),
		slog.Float64("speed_peak", s.SpeedPeak),
		slog.Float64("velocity_rms", s.VelocityRMS),
		slog.Float64("div_mean", s.DivMean),
		slog.Float64("div_std", s.DivStd),
		slog.Float64("div_max", s.DivMax),
		slog.Int("commands", s.Commands),
		slog.Int("emitters", s.Emitters),
	)
}

// LogStats logs the field stats using slog.
func (s FieldStats) LogStats() {
	slog.Info("fields",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTime,
		"ink_mass", s.InkMass,
		"ink_peak", s.InkPeak,
		"ink_coverage", s.InkCoverage,
		"speed_peak", s.SpeedPeak,
		"velocity_rms", s.VelocityRMS,
		"div_max", s.DivMax,
		"commands", s.Commands,
		"emitters", s.Emitters,
	)
}
