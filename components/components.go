// Package components defines ECS components for persistent fluid sources.
package components

// Position is a location in grid cells.
type Position struct {
	X, Y float32
}

// Emitter injects ink and momentum at its position every tick.
type Emitter struct {
	Density float32 // ink per brush cell per tick
	Size    int     // brush side length in cells (0 = single cell)
	Force   float32 // velocity impulse magnitude per tick
	Angle   float32 // impulse direction in radians, 0 = +X
	Spin    float32 // radians per second added to Angle
}

// Lifetime bounds how long an emitter runs.
type Lifetime struct {
	Remaining float32 // seconds left
	Forever   bool    // ignore Remaining
}

// Expired reports whether the lifetime has run out.
func (l Lifetime) Expired() bool {
	return !l.Forever && l.Remaining <= 0
}
