package game

import "math"

// maxCatchUpTicks bounds how many ticks one frame may run to make up for a
// slow frame. Older backlog is dropped.
const maxCatchUpTicks = 4

// dueTicks converts elapsed wall-clock seconds into whole ticks at the
// configured tick rate, carrying the remainder to the next frame.
func (g *Game) dueTicks(elapsed float64) int {
	step := g.config().Derived.TickSeconds
	g.tickAccum += elapsed
	n := int(g.tickAccum / step)
	g.tickAccum -= float64(n) * step
	if n > maxCatchUpTicks {
		n = maxCatchUpTicks
		g.tickAccum = 0
	}
	return n
}

func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }
