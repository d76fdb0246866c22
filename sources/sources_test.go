package sources

import (
	"math"
	"testing"

	"github.com/pthm-cable/ink/components"
	"github.com/pthm-cable/ink/fluid"
	"github.com/pthm-cable/ink/stimulus"
)

type sinkCall struct {
	kind   string
	x, y   int
	amount float32
	size   int
	dx, dy float32
}

type recordingSink struct {
	calls []sinkCall
}

func (r *recordingSink) AddDensity(x, y int, amount float32) {
	r.calls = append(r.calls, sinkCall{kind: "density", x: x, y: y, amount: amount})
}

func (r *recordingSink) AddDensityBrush(x, y int, amount float32, size int) {
	r.calls = append(r.calls, sinkCall{kind: "brush", x: x, y: y, amount: amount, size: size})
}

func (r *recordingSink) AddVelocity(x, y int, dx, dy float32) {
	r.calls = append(r.calls, sinkCall{kind: "velocity", x: x, y: y, dx: dx, dy: dy})
}

func TestSpawnAndCount(t *testing.T) {
	s := NewSystem()
	e := s.Spawn(10.7, 20.2, components.Emitter{Density: 5}, 0)
	s.Spawn(1, 1, components.Emitter{Density: 5}, 2)

	if s.Count() != 2 {
		t.Errorf("expected 2 emitters, got %d", s.Count())
	}
	pos, ok := s.Position(e)
	if !ok || pos.X != 10.7 || pos.Y != 20.2 {
		t.Errorf("unexpected position %+v ok=%v", pos, ok)
	}
}

func TestUpdateEmitsDensityAndVelocity(t *testing.T) {
	s := NewSystem()
	s.Spawn(10.7, 20.2, components.Emitter{Density: 50, Size: 4, Force: 100}, 0)

	sink := &recordingSink{}
	if n := s.Update(1.0/60.0, sink); n != 2 {
		t.Fatalf("expected 2 commands, got %d", n)
	}

	brush := sink.calls[0]
	if brush.kind != "brush" || brush.x != 10 || brush.y != 20 || brush.amount != 50 || brush.size != 4 {
		t.Errorf("unexpected brush call %+v", brush)
	}
	vel := sink.calls[1]
	if vel.kind != "velocity" || vel.dx != 100 || vel.dy != 0 {
		t.Errorf("unexpected velocity call %+v", vel)
	}
}

func TestUpdateSingleCellDensity(t *testing.T) {
	s := NewSystem()
	s.Spawn(3, 4, components.Emitter{Density: 9}, 0)

	sink := &recordingSink{}
	s.Update(0.1, sink)
	if len(sink.calls) != 1 || sink.calls[0].kind != "density" {
		t.Errorf("expected one single-cell density call, got %+v", sink.calls)
	}
}

func TestUpdateSpinRotatesImpulse(t *testing.T) {
	s := NewSystem()
	s.Spawn(5, 5, components.Emitter{Force: 10, Spin: math.Pi / 2}, 0)

	sink := &recordingSink{}
	s.Update(1, sink) // emits at angle 0, then turns a quarter
	s.Update(1, sink)

	second := sink.calls[1]
	if math.Abs(float64(second.dx)) > 1e-4 || math.Abs(float64(second.dy)-10) > 1e-4 {
		t.Errorf("expected impulse (0,10) after a quarter turn, got (%f,%f)", second.dx, second.dy)
	}
}

func TestUpdateRemovesExpired(t *testing.T) {
	s := NewSystem()
	short := s.Spawn(1, 1, components.Emitter{Density: 1}, 0.25)
	s.Spawn(2, 2, components.Emitter{Density: 1}, 0)

	sink := &recordingSink{}
	s.Update(0.1, sink)
	s.Update(0.1, sink)
	if s.Count() != 2 {
		t.Fatalf("expected both emitters alive, got %d", s.Count())
	}
	s.Update(0.1, sink)
	if s.Count() != 1 {
		t.Fatalf("expected short-lived emitter removed, got %d", s.Count())
	}
	if _, ok := s.Position(short); ok {
		t.Error("expected removed emitter to be gone")
	}

	sink.calls = nil
	s.Update(0.1, sink)
	if len(sink.calls) != 1 || sink.calls[0].x != 2 {
		t.Errorf("expected only the permanent emitter to fire, got %+v", sink.calls)
	}
}

func TestClear(t *testing.T) {
	s := NewSystem()
	for i := 0; i < 5; i++ {
		s.Spawn(float32(i), 0, components.Emitter{Density: 1}, 0)
	}
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("expected 0 emitters, got %d", s.Count())
	}
	sink := &recordingSink{}
	if n := s.Update(0.1, sink); n != 0 {
		t.Errorf("expected no output after clear, got %d", n)
	}
}

func TestEach(t *testing.T) {
	s := NewSystem()
	s.Spawn(3, 4, components.Emitter{Density: 1, Spin: 2}, 0)
	s.Spawn(5, 6, components.Emitter{Force: 7}, 0)

	var sumX, force float32
	visited := 0
	s.Each(func(pos components.Position, em components.Emitter) {
		visited++
		sumX += pos.X
		force += em.Force
	})
	if visited != 2 || sumX != 8 || force != 7 {
		t.Errorf("visited=%d sumX=%v force=%v", visited, sumX, force)
	}
}

func TestUpdateThroughQueueIntoGrid(t *testing.T) {
	g := fluid.New(fluid.Params{Size: 32, Iterations: 4})
	q := stimulus.NewQueue()
	s := NewSystem()
	s.Spawn(16, 16, components.Emitter{Density: 20, Size: 2, Force: 3}, 0)

	s.Update(1.0/60.0, q)
	q.Drain(g)

	// Size 2 covers x, y in [15, 16].
	for _, c := range [][2]int{{15, 15}, {16, 15}, {15, 16}, {16, 16}} {
		if d := g.DensityAt(c[0], c[1]); d != 20 {
			t.Errorf("cell %v = %f, want 20", c, d)
		}
	}
	if vx, _ := g.VelocityAt(16, 16); vx != 3 {
		t.Errorf("expected vx 3, got %f", vx)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("wrapAngle(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
