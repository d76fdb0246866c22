package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ink/fluid"
)

// Segment is one velocity glyph in screen space.
type Segment struct {
	From, To rl.Vector2
	Speed    float32
}

// FlowRenderer overlays the velocity field as short line glyphs on a
// coarse lattice.
type FlowRenderer struct {
	stride int     // cells between glyphs
	scale  int     // screen pixels per cell
	gain   float32 // screen pixels per unit of velocity
	maxLen float32 // glyph length cap in screen pixels

	segments []Segment
}

// NewFlowRenderer creates a velocity overlay.
func NewFlowRenderer(stride, scale int, gain float32) *FlowRenderer {
	if stride < 1 {
		stride = 1
	}
	return &FlowRenderer{
		stride: stride,
		scale:  scale,
		gain:   gain,
		maxLen: float32(stride * scale),
	}
}

// Segments samples the grid and returns glyphs for every lattice point
// whose velocity is not zero. The returned slice is reused between calls.
func (r *FlowRenderer) Segments(g *fluid.Grid) []Segment {
	r.segments = r.segments[:0]
	n := g.Size()
	half := float32(r.scale) / 2

	for j := r.stride / 2; j < n; j += r.stride {
		for i := r.stride / 2; i < n; i += r.stride {
			u, v := g.VelocityAt(i, j)
			if u == 0 && v == 0 {
				continue
			}
			speed := float32(math.Hypot(float64(u), float64(v)))
			dx, dy := u*r.gain, v*r.gain
			if l := speed * r.gain; l > r.maxLen {
				dx *= r.maxLen / l
				dy *= r.maxLen / l
			}

			from := rl.Vector2{X: float32(i*r.scale) + half, Y: float32(j*r.scale) + half}
			r.segments = append(r.segments, Segment{
				From:  from,
				To:    rl.Vector2{X: from.X + dx, Y: from.Y + dy},
				Speed: speed,
			})
		}
	}
	return r.segments
}

// Draw renders the overlay with additive blending.
func (r *FlowRenderer) Draw(g *fluid.Grid) {
	rl.BeginBlendMode(rl.BlendAdditive)
	for _, s := range r.Segments(g) {
		alpha := min(s.Speed*r.gain*8, 200)
		if alpha < 2 {
			continue
		}
		rl.DrawLineV(s.From, s.To, rl.Color{R: 50, G: 100, B: 130, A: uint8(alpha)})
	}
	rl.EndBlendMode()
}
