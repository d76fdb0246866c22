// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/ink/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Fluid      FluidConfig      `yaml:"fluid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Screen     ScreenConfig     `yaml:"screen"`
	Input      InputConfig      `yaml:"input"`
	Emitters   []EmitterConfig  `yaml:"emitters"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds lattice and solver settings.
type GridConfig struct {
	Size                 int     `yaml:"size"`                  // cells per side
	RelaxationIterations int     `yaml:"relaxation_iterations"` // Gauss-Seidel sweeps
	DecayAmount          float64 `yaml:"decay_amount"`          // density removed per rendered frame
	Parallel             bool    `yaml:"parallel"`              // split per-cell loops across CPUs
}

// FluidConfig holds physical coefficients.
type FluidConfig struct {
	DiffusionRate float64 `yaml:"diffusion_rate"`
	Viscosity     float64 `yaml:"viscosity"`
}

// SimulationConfig holds tick cadence.
type SimulationConfig struct {
	TimeStep float64 `yaml:"time_step"` // added to the accumulated step dt every tick
	TickRate int     `yaml:"tick_rate"` // ticks per wall-clock second in graphics mode
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Scale     int  `yaml:"scale"` // screen pixels per cell
	TargetFPS int  `yaml:"target_fps"`
	ShowHUD   bool `yaml:"show_hud"`
}

// InputConfig maps pointer input to stimulus.
type InputConfig struct {
	DensityAmount float64 `yaml:"density_amount"` // ink per brush cell
	BrushSize     int     `yaml:"brush_size"`     // brush side length in cells
	Acceleration  float64 `yaml:"acceleration"`   // velocity per screen pixel of drag
	DragThreshold int     `yaml:"drag_threshold"` // screen pixels before a drag pushes
}

// EmitterConfig describes a persistent source placed at startup.
type EmitterConfig struct {
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"` // grid cells
	Y        float64 `yaml:"y"`
	Density  float64 `yaml:"density"`
	Size     int     `yaml:"size"`
	Force    float64 `yaml:"force"`
	Angle    float64 `yaml:"angle"` // degrees, 0 = +X, 90 = +Y (down)
	Spin     float64 `yaml:"spin"`  // degrees per second
	Lifetime float64 `yaml:"lifetime"`
}

// TelemetryConfig holds stats window settings.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per fields.csv row
	PerfWindow  int `yaml:"perf_window"`  // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TimeStep32   float32        // Simulation.TimeStep as float32
	TickSeconds  float64        // wall-clock seconds per tick
	WindowWidth  int            // Grid.Size * Screen.Scale
	WindowHeight int            // Grid.Size * Screen.Scale
	EmitterIndex map[string]int // name -> index into Emitters
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// validate rejects settings the runner cannot work with.
func (c *Config) validate() error {
	if c.Grid.Size < 3 {
		return fmt.Errorf("grid.size must be at least 3, got %d", c.Grid.Size)
	}
	if c.Screen.Scale < 1 {
		return fmt.Errorf("screen.scale must be positive, got %d", c.Screen.Scale)
	}
	if c.Simulation.TickRate < 1 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	seen := make(map[string]bool, len(c.Emitters))
	for i, em := range c.Emitters {
		if em.Name == "" {
			continue
		}
		if seen[em.Name] {
			return fmt.Errorf("emitters[%d]: duplicate name %q", i, em.Name)
		}
		seen[em.Name] = true
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TimeStep32 = float32(c.Simulation.TimeStep)
	c.Derived.TickSeconds = 1 / float64(c.Simulation.TickRate)
	c.Derived.WindowWidth = c.Grid.Size * c.Screen.Scale
	c.Derived.WindowHeight = c.Grid.Size * c.Screen.Scale

	c.Derived.EmitterIndex = make(map[string]int, len(c.Emitters))
	for i, em := range c.Emitters {
		if em.Name != "" {
			c.Derived.EmitterIndex[em.Name] = i
		}
	}
}

// FluidParams converts the grid and fluid sections into solver parameters.
func (c *Config) FluidParams() fluid.Params {
	return fluid.Params{
		Size:          c.Grid.Size,
		Iterations:    c.Grid.RelaxationIterations,
		DecayAmount:   float32(c.Grid.DecayAmount),
		DiffusionRate: float32(c.Fluid.DiffusionRate),
		Viscosity:     float32(c.Fluid.Viscosity),
		Parallel:      c.Grid.Parallel,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
