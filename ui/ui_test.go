package ui

import (
	"math"
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayToggle(t *testing.T) {
	reg := NewOverlayRegistry()

	if len(reg.EnabledOverlays()) != 0 {
		t.Fatalf("expected all overlays off, got %v", reg.EnabledOverlays())
	}
	if !reg.Toggle(OverlayVelocity) {
		t.Error("first toggle should enable")
	}
	if reg.Toggle(OverlayVelocity) {
		t.Error("second toggle should disable")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay should not enable")
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.SetEnabled(OverlayParams, true)
	reg.SetEnabled(OverlayHUD, true)

	reg.Toggle(OverlayPerf)
	if reg.IsEnabled(OverlayParams) {
		t.Error("enabling perf should hide params")
	}
	if !reg.IsEnabled(OverlayHUD) {
		t.Error("HUD is not exclusive with perf")
	}

	want := []OverlayID{OverlayHUD, OverlayPerf}
	if got := reg.EnabledOverlays(); !slices.Equal(got, want) {
		t.Errorf("enabled = %v, want %v", got, want)
	}
}

func TestOverlayHandleKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, on, ok := reg.HandleKeyPress(rl.KeyV)
	if !ok || id != OverlayVelocity || !on {
		t.Errorf("HandleKeyPress(V) = %q, %v, %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle")
	}
	if !slices.Contains(reg.Keys(), int32(rl.KeyP)) {
		t.Error("expected P in bound keys")
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()
	if got := reg.Categories(); !slices.Equal(got, []string{"field", "panel"}) {
		t.Errorf("categories = %v", got)
	}
	if n := len(reg.ByCategory("field")); n != 2 {
		t.Errorf("field overlays = %d, want 2", n)
	}
}

func TestLogSliderMapping(t *testing.T) {
	tests := []struct {
		name  string
		value float32
		floor float32
		want  float32
	}{
		{"zero sits at floor", 0, -7, -7},
		{"negative sits at floor", -1, -7, -7},
		{"below floor clamps", 1e-9, -7, -7},
		{"decade", 0.001, -7, -3},
		{"one", 1, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toLog(tt.value, tt.floor)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("toLog(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if fromLog(-7, -7) != 0 {
		t.Error("floor should map back to zero")
	}
	if got := fromLog(-2, -7); math.Abs(float64(got-0.01)) > 1e-6 {
		t.Errorf("fromLog(-2) = %v, want 0.01", got)
	}
}

func TestSnapBrush(t *testing.T) {
	tests := []struct {
		in   float32
		want int
	}{
		{0, 1},
		{1.4, 1},
		{7.6, 8},
		{100, 32},
	}
	for _, tt := range tests {
		if got := snapBrush(tt.in); got != tt.want {
			t.Errorf("snapBrush(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
