package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/ink/fluid"
)

// Phase names for one simulation tick. Solver phases come from the grid's
// PhaseObserver callbacks; the rest are marked by the runner.
const (
	PhaseStimulus        = "stimulus"
	PhaseEmitters        = "emitters"
	PhaseDiffuseVelocity = fluid.PhaseDiffuseVelocity
	PhaseProject         = fluid.PhaseProject
	PhaseAdvectVelocity  = fluid.PhaseAdvectVelocity
	PhaseReproject       = fluid.PhaseReproject
	PhaseDiffuseDensity  = fluid.PhaseDiffuseDensity
	PhaseAdvectDensity   = fluid.PhaseAdvectDensity
	PhaseTelemetry       = "telemetry"
)

// tickPhases lists phases in execution order for logs and CSV columns.
var tickPhases = []string{
	PhaseEmitters,
	PhaseStimulus,
	PhaseDiffuseVelocity,
	PhaseProject,
	PhaseAdvectVelocity,
	PhaseReproject,
	PhaseDiffuseDensity,
	PhaseAdvectDensity,
	PhaseTelemetry,
}

// Phases returns the tick phases in execution order.
func Phases() []string {
	return append([]string(nil), tickPhases...)
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector times ticks and their phases over a rolling window.
// It satisfies fluid.PhaseObserver.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration, len(tickPhases)),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(tickPhases))
	p.lastPhase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the current tick and records it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.lastPhase = ""

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples in the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if i == 0 || s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > stats.MaxTickDuration {
			stats.MaxTickDuration = s.TickDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	count := time.Duration(p.sampleCount)
	stats.AvgTickDuration = total / count
	for phase, sum := range phaseSum {
		avg := sum / count
		stats.PhaseAvg[phase] = avg
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(stats.AvgTickDuration) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// SolverShare returns the percentage of tick time spent inside Step.
func (s PerfStats) SolverShare() float64 {
	var pct float64
	for _, phase := range tickPhases[2:8] {
		pct += s.PhasePct[phase]
	}
	return pct
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range tickPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range tickPhases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd          int32   `csv:"window_end"`
	AvgTickUS          int64   `csv:"avg_tick_us"`
	MinTickUS          int64   `csv:"min_tick_us"`
	MaxTickUS          int64   `csv:"max_tick_us"`
	TicksPerSec        float64 `csv:"ticks_per_sec"`
	FPS                float64 `csv:"fps"`
	StimulusPct        float64 `csv:"stimulus_pct"`
	EmittersPct        float64 `csv:"emitters_pct"`
	DiffuseVelocityPct float64 `csv:"diffuse_velocity_pct"`
	ProjectPct         float64 `csv:"project_pct"`
	AdvectVelocityPct  float64 `csv:"advect_velocity_pct"`
	ReprojectPct       float64 `csv:"reproject_pct"`
	DiffuseDensityPct  float64 `csv:"diffuse_density_pct"`
	AdvectDensityPct   float64 `csv:"advect_density_pct"`
	TelemetryPct       float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:          windowEnd,
		AvgTickUS:          s.AvgTickDuration.Microseconds(),
		MinTickUS:          s.MinTickDuration.Microseconds(),
		MaxTickUS:          s.MaxTickDuration.Microseconds(),
		TicksPerSec:        s.TicksPerSecond,
		FPS:                s.FPS,
		StimulusPct:        s.PhasePct[PhaseStimulus],
		EmittersPct:        s.PhasePct[PhaseEmitters],
		DiffuseVelocityPct: s.PhasePct[PhaseDiffuseVelocity],
		ProjectPct:         s.PhasePct[PhaseProject],
		AdvectVelocityPct:  s.PhasePct[PhaseAdvectVelocity],
		ReprojectPct:       s.PhasePct[PhaseReproject],
		DiffuseDensityPct:  s.PhasePct[PhaseDiffuseDensity],
		AdvectDensityPct:   s.PhasePct[PhaseAdvectDensity],
		TelemetryPct:       s.PhasePct[PhaseTelemetry],
	}
}
