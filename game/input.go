package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ink/components"
	"github.com/pthm-cable/ink/stimulus"
	"github.com/pthm-cable/ink/ui"
)

// pointerButtons maps raylib mouse buttons onto pointer buttons.
var pointerButtons = []struct {
	mouse  rl.MouseButton
	button stimulus.Button
}{
	{rl.MouseButtonLeft, stimulus.ButtonLeft},
	{rl.MouseButtonMiddle, stimulus.ButtonMiddle},
	{rl.MouseButtonRight, stimulus.ButtonRight},
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.RequestStep()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetStepsPerUpdate(g.stepsPerUpdate - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetStepsPerUpdate(g.stepsPerUpdate + 1)
	}

	// Brush size with [ and ]
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.setBrushSize(g.pointer.Config().BrushSize - 1)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.setBrushSize(g.pointer.Config().BrushSize + 1)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.queue.Reset()
	}
	if rl.IsKeyPressed(rl.KeyE) {
		mouse := rl.GetMousePosition()
		g.spawnCursorEmitter(int(mouse.X), int(mouse.Y))
	}
	if rl.IsKeyPressed(rl.KeyX) {
		g.sources.Clear()
	}

	for _, key := range g.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			g.overlays.HandleKeyPress(key)
		}
	}

	g.handlePointer()
}

// handlePointer forwards mouse buttons and motion to the pointer. Presses
// that land on an open panel belong to the panel.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	sx, sy := int(mouse.X), int(mouse.Y)
	overPanel := g.overPanel(mouse)

	for _, pb := range pointerButtons {
		if rl.IsMouseButtonPressed(pb.mouse) && !overPanel {
			g.pointer.Press(pb.button, sx, sy)
		}
		if rl.IsMouseButtonReleased(pb.mouse) {
			g.pointer.Release(pb.button, sx, sy)
		}
	}

	delta := rl.GetMouseDelta()
	if delta.X != 0 || delta.Y != 0 {
		g.pointer.Drag(sx, sy)
	}
}

// overPanel reports whether pos is inside an open interactive panel.
func (g *Game) overPanel(pos rl.Vector2) bool {
	return g.overlays.IsEnabled(ui.OverlayParams) && rl.CheckCollisionPointRec(pos, g.paramPanel.Bounds())
}

// setBrushSize changes the left-drag brush, keeping it at least one cell.
func (g *Game) setBrushSize(size int) {
	g.pointer.SetBrushSize(max(size, 1))
}

// spawnCursorEmitter drops a rising plume emitter under the cursor.
func (g *Game) spawnCursorEmitter(sx, sy int) {
	cfg := g.pointer.Config()
	x, y := g.pointer.ToGrid(sx, sy)
	g.sources.Spawn(float32(x), float32(y), cursorEmitter(cfg), 0)
}

// cursorEmitter derives a plume from the pointer settings: a quarter-strength
// brush of ink pushed upward at one drag-threshold's worth of acceleration.
func cursorEmitter(cfg stimulus.PointerConfig) components.Emitter {
	return components.Emitter{
		Density: cfg.DensityAmount / 4,
		Size:    max(cfg.BrushSize/2, 1),
		Force:   cfg.Acceleration * float32(cfg.DragThreshold),
		Angle:   -math.Pi / 2,
	}
}
