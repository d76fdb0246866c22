package fluid

import (
	"math/rand"
	"slices"
	"testing"
)

func TestStepStillFluidKeepsDensity(t *testing.T) {
	p := smallParams(32)
	p.DiffusionRate = 0
	p.Viscosity = 0
	g := New(p)
	g.AdvanceTime(0.25)
	g.AddDensityBrush(16, 16, 40, 6)
	g.AddDensity(5, 20, 9)
	before := slices.Clone(g.Density())

	g.Step()

	for i, d := range g.Density() {
		if d != before[i] {
			t.Fatalf("density[%d] changed: %f -> %f", i, before[i], d)
		}
	}
}

func TestStepSpreadsInk(t *testing.T) {
	g := New(DefaultParams())
	g.AddDensity(128, 128, 255)
	g.AdvanceTime(1.0 / 60.0)
	g.Step()

	if c := g.DensityAt(128, 128); c >= 255 {
		t.Errorf("expected centre below 255, got %f", c)
	}
	for _, x := range []int{127, 129} {
		if d := g.DensityAt(x, 128); d <= 0 {
			t.Errorf("expected ink at (%d,128), got %f", x, d)
		}
	}
}

func TestStepSuppressesDivergence(t *testing.T) {
	g := New(DefaultParams())
	g.AddVelocity(128, 128, 100, 0)
	before := maxAbsDivergence(g, g.VelocityX(), g.VelocityY())

	g.AdvanceTime(1.0 / 60.0)
	g.Step()
	after := maxAbsDivergence(g, g.VelocityX(), g.VelocityY())

	// Four sweeps only approximate the pressure solve, so the residual is
	// bounded relative to the injected divergence rather than near zero.
	if after > before/4 {
		t.Errorf("expected divergence below %f, got %f (before %f)", before/4, after, before)
	}
}

func TestStepWithoutTimeStillProjects(t *testing.T) {
	g := New(DefaultParams())
	g.AddVelocity(128, 128, 100, 0)
	before := maxAbsDivergence(g, g.VelocityX(), g.VelocityY())

	g.Step()
	after := maxAbsDivergence(g, g.VelocityX(), g.VelocityY())

	if after >= before {
		t.Errorf("expected divergence to drop with dt=0, before=%f after=%f", before, after)
	}
}

func TestStepParallelMatchesSerial(t *testing.T) {
	p := smallParams(130)
	serial := New(p)
	p.Parallel = true
	parallel := New(p)

	rng := rand.New(rand.NewSource(7))
	for k := 0; k < 40; k++ {
		x, y := rng.Intn(130), rng.Intn(130)
		amount := rng.Float32() * 255
		dx, dy := rng.Float32()*200-100, rng.Float32()*200-100
		for _, g := range []*Grid{serial, parallel} {
			g.AddDensityBrush(x, y, amount, 4)
			g.AddVelocity(x, y, dx, dy)
		}
	}

	for step := 0; step < 5; step++ {
		for _, g := range []*Grid{serial, parallel} {
			g.AdvanceTime(0.01)
			g.Step()
		}
	}

	fields := []struct {
		name string
		a, b []float32
	}{
		{"density", serial.density, parallel.density},
		{"densityScratch", serial.densityScratch, parallel.densityScratch},
		{"velX", serial.velX, parallel.velX},
		{"velY", serial.velY, parallel.velY},
		{"velScratchX", serial.velScratchX, parallel.velScratchX},
		{"velScratchY", serial.velScratchY, parallel.velScratchY},
	}
	for _, f := range fields {
		if !slices.Equal(f.a, f.b) {
			t.Errorf("%s differs between serial and parallel runs", f.name)
		}
	}
}

type phaseRecorder struct {
	phases []string
}

func (r *phaseRecorder) StartPhase(phase string) {
	r.phases = append(r.phases, phase)
}

func TestStepReportsPhases(t *testing.T) {
	g := New(smallParams(8))
	rec := &phaseRecorder{}
	g.SetObserver(rec)
	g.Step()

	want := []string{
		PhaseDiffuseVelocity,
		PhaseProject,
		PhaseAdvectVelocity,
		PhaseReproject,
		PhaseDiffuseDensity,
		PhaseAdvectDensity,
	}
	if !slices.Equal(rec.phases, want) {
		t.Errorf("phases = %v, want %v", rec.phases, want)
	}

	g.SetObserver(nil)
	g.Step()
	if len(rec.phases) != len(want) {
		t.Errorf("observer still called after removal")
	}
}

func TestAdvanceTimeAccumulates(t *testing.T) {
	g := New(smallParams(8))
	for i := 0; i < 4; i++ {
		g.AdvanceTime(0.25)
	}
	if g.SimulationTime() != 1 {
		t.Errorf("expected accumulated time 1, got %f", g.SimulationTime())
	}
}

func BenchmarkStep(b *testing.B) {
	g := New(DefaultParams())
	g.AddDensityBrush(128, 128, 255, 8)
	g.AddVelocity(128, 128, 500, 200)
	g.AdvanceTime(1e-10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step()
	}
}

func BenchmarkStepParallel(b *testing.B) {
	p := DefaultParams()
	p.Parallel = true
	g := New(p)
	g.AddDensityBrush(128, 128, 255, 8)
	g.AddVelocity(128, 128, 500, 200)
	g.AdvanceTime(1e-10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step()
	}
}

func BenchmarkRenderInto(b *testing.B) {
	g := New(DefaultParams())
	pixels := make([]uint32, g.Cells())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.RenderInto(pixels)
	}
}
