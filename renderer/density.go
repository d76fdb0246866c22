// Package renderer draws the fluid grid with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DensityRenderer shows the density field as a greyscale texture scaled up
// to the window.
type DensityRenderer struct {
	tex         rl.Texture2D
	pixels      []color.RGBA
	size        int
	initialized bool
}

// NewDensityRenderer creates a renderer for an n x n grid.
func NewDensityRenderer(n int) *DensityRenderer {
	return &DensityRenderer{
		size:   n,
		pixels: make([]color.RGBA, n*n),
	}
}

// Init creates the GPU texture (must be called after the raylib window is created).
func (r *DensityRenderer) Init() {
	if r.initialized {
		return
	}

	img := rl.GenImageColor(r.size, r.size, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	// Nearest filtering keeps cells crisp at integer scales.
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	r.initialized = true
}

// Upload converts packed 0x00RRGGBB pixels and copies them to the texture.
func (r *DensityRenderer) Upload(packed []uint32) {
	if !r.initialized {
		r.Init()
	}
	PackedToRGBA(r.pixels, packed)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the texture at the given screen pixels per cell.
func (r *DensityRenderer) Draw(scale int) {
	if !r.initialized {
		return
	}
	side := float32(r.size * scale)
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.size), Height: float32(r.size)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: side, Height: side}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *DensityRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// PackedToRGBA unpacks 0x00RRGGBB values into opaque colors. Only the
// overlapping prefix of dst and src is converted.
func PackedToRGBA(dst []color.RGBA, src []uint32) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		p := src[i]
		dst[i] = color.RGBA{
			R: uint8(p >> 16),
			G: uint8(p >> 8),
			B: uint8(p),
			A: 255,
		}
	}
}
