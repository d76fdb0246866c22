package game

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ink/config"
	"github.com/pthm-cable/ink/stimulus"
)

const smallConfig = `
grid:
  size: 32
telemetry:
  stats_window: 10
  perf_window: 10
`

func initConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := config.Init(path); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g := NewGameWithOptions(opts)
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessTicks(t *testing.T) {
	initConfig(t, smallConfig)
	g := newHeadless(t, Options{StepsPerUpdate: 3})

	g.UpdateHeadless()
	g.UpdateHeadless()

	if g.Tick() != 6 {
		t.Errorf("tick = %d, want 6", g.Tick())
	}
	// Every tick adds the configured time step to the accumulated dt.
	if got := float64(g.Grid().SimulationTime()); math.Abs(got-6e-10) > 1e-15 {
		t.Errorf("simulation time = %g, want 6e-10", got)
	}
}

func TestQueuedStimulusReachesGrid(t *testing.T) {
	initConfig(t, smallConfig)
	g := newHeadless(t, Options{StepsPerUpdate: 1})

	g.Queue().AddDensity(16, 16, 100)
	g.UpdateHeadless()

	// The step is tiny, so the ink stays put; rendering then decays it once.
	if d := g.Grid().DensityAt(16, 16); d < 99 || d > 100 {
		t.Errorf("density = %v, want just under 100", d)
	}
	if px := g.Pixels()[g.Grid().Index(16, 16)]; px == 0 {
		t.Error("expected rendered pixel for the inked cell")
	}
}

func TestResetThroughQueue(t *testing.T) {
	initConfig(t, smallConfig)
	g := newHeadless(t, Options{StepsPerUpdate: 1})

	g.Queue().AddDensityBrush(10, 10, 200, 4)
	g.Queue().AddVelocity(10, 10, 50, 0)
	g.UpdateHeadless()

	g.Queue().Reset()
	g.UpdateHeadless()

	for i, d := range g.Grid().Density() {
		if d != 0 {
			t.Fatalf("density[%d] = %v after reset", i, d)
		}
	}
	for i, u := range g.Grid().VelocityX() {
		if u != 0 {
			t.Fatalf("velX[%d] = %v after reset", i, u)
		}
	}
}

func TestConfiguredEmitters(t *testing.T) {
	initConfig(t, smallConfig+`
emitters:
  - name: steady
    x: 16
    y: 16
    density: 10
  - name: brief
    x: 4
    y: 4
    density: 10
    lifetime: 0.04
`)
	g := newHeadless(t, Options{StepsPerUpdate: 1})

	if g.Sources().Count() != 2 {
		t.Fatalf("emitters = %d, want 2", g.Sources().Count())
	}

	g.UpdateHeadless()
	if g.Grid().DensityAt(16, 16) <= 0 {
		t.Error("steady emitter should have inked its cell")
	}

	// 0.04s runs out on the third 1/60s tick.
	g.UpdateHeadless()
	if g.Sources().Count() != 2 {
		t.Errorf("emitters after 2 ticks = %d, want 2", g.Sources().Count())
	}
	g.UpdateHeadless()
	if g.Sources().Count() != 1 {
		t.Errorf("emitters after 3 ticks = %d, want 1", g.Sources().Count())
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	initConfig(t, smallConfig)
	g := newHeadless(t, Options{StepsPerUpdate: 1})

	g.SetPaused(true)
	g.advance(5)
	if g.Tick() != 0 {
		t.Errorf("paused game ticked to %d", g.Tick())
	}

	g.RequestStep()
	g.advance(5)
	if g.Tick() != 1 {
		t.Errorf("single step ran %d ticks, want 1", g.Tick())
	}
	g.advance(5)
	if g.Tick() != 1 {
		t.Errorf("step request should be consumed, tick = %d", g.Tick())
	}

	g.SetPaused(false)
	g.SetStepsPerUpdate(2)
	g.advance(2)
	if g.Tick() != 5 {
		t.Errorf("tick = %d, want 5", g.Tick())
	}
}

func TestStepsPerUpdateClamps(t *testing.T) {
	initConfig(t, smallConfig)
	g := newHeadless(t, Options{StepsPerUpdate: 0})

	if g.StepsPerUpdate() != 1 {
		t.Errorf("steps = %d, want 1", g.StepsPerUpdate())
	}
	g.SetStepsPerUpdate(99)
	if g.StepsPerUpdate() != maxStepsPerUpdate {
		t.Errorf("steps = %d, want %d", g.StepsPerUpdate(), maxStepsPerUpdate)
	}
}

func TestDueTicks(t *testing.T) {
	initConfig(t, smallConfig+`
simulation:
  tick_rate: 10
`)
	g := newHeadless(t, Options{StepsPerUpdate: 1})

	steps := []struct {
		elapsed float64
		want    int
	}{
		{0.05, 0},
		{0.06, 1}, // carries 0.01
		{0.25, 2}, // carries 0.06
		{10, maxCatchUpTicks},
		{0.05, 0}, // backlog was dropped
	}
	for i, s := range steps {
		if got := g.dueTicks(s.elapsed); got != s.want {
			t.Errorf("step %d: dueTicks(%v) = %d, want %d", i, s.elapsed, got, s.want)
		}
	}
}

func TestOutputDir(t *testing.T) {
	initConfig(t, smallConfig)
	dir := filepath.Join(t.TempDir(), "run")
	g := NewGameWithOptions(Options{Headless: true, StepsPerUpdate: 1, OutputDir: dir})

	g.Queue().AddDensityBrush(16, 16, 255, 6)
	for i := 0; i < 20; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "fields.csv"))
	if err != nil {
		t.Fatalf("reading fields.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 windows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[1], "10,") || !strings.HasPrefix(lines[2], "20,") {
		t.Errorf("unexpected window rows:\n%s", data)
	}

	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestCursorEmitter(t *testing.T) {
	em := cursorEmitter(stimulus.PointerConfig{
		Scale:         3,
		DensityAmount: 255,
		BrushSize:     8,
		Acceleration:  1536,
		DragThreshold: 5,
	})

	if em.Density != 63.75 || em.Size != 4 || em.Force != 7680 {
		t.Errorf("unexpected emitter %+v", em)
	}
	if math.Abs(float64(em.Angle)+math.Pi/2) > 1e-6 {
		t.Errorf("angle = %v, want -pi/2 (up)", em.Angle)
	}

	if small := cursorEmitter(stimulus.PointerConfig{BrushSize: 1}); small.Size != 1 {
		t.Errorf("brush size 1 should give a one-cell emitter, got %d", small.Size)
	}
}

func TestDegToRad(t *testing.T) {
	if got := degToRad(180); math.Abs(float64(got)-math.Pi) > 1e-6 {
		t.Errorf("degToRad(180) = %v", got)
	}
}
