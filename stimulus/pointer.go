package stimulus

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	numButtons
)

// PointerConfig holds the pointer-to-stimulus mapping.
type PointerConfig struct {
	Scale         int     // screen pixels per grid cell
	DensityAmount float32 // ink per cell for a left drag
	BrushSize     int     // brush side length in cells
	Acceleration  float32 // velocity per screen pixel of right drag
	DragThreshold int     // minimum screen pixels from the anchor before a right drag pushes
}

// Pointer turns pointer events in screen pixels into queued commands.
//
// Left drag paints a density brush. Right drag pushes velocity proportional
// to the distance from the point where the right button went down. Middle
// press resets the field.
type Pointer struct {
	cfg     PointerConfig
	queue   *Queue
	pressed [numButtons]bool

	anchorX, anchorY int
}

// NewPointer creates a pointer that feeds q.
func NewPointer(cfg PointerConfig, q *Queue) *Pointer {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	return &Pointer{cfg: cfg, queue: q}
}

// Config returns the current mapping.
func (p *Pointer) Config() PointerConfig { return p.cfg }

// SetBrushSize changes the density brush side length.
func (p *Pointer) SetBrushSize(size int) { p.cfg.BrushSize = size }

// ToGrid converts screen pixels to grid cell coordinates.
func (p *Pointer) ToGrid(sx, sy int) (int, int) {
	return sx / p.cfg.Scale, sy / p.cfg.Scale
}

// Pressed reports whether b is held.
func (p *Pointer) Pressed(b Button) bool {
	if b < 0 || b >= numButtons {
		return false
	}
	return p.pressed[b]
}

// Press records a button going down at screen position (sx, sy).
func (p *Pointer) Press(b Button, sx, sy int) {
	if b < 0 || b >= numButtons {
		return
	}
	p.pressed[b] = true
	switch b {
	case ButtonRight:
		p.anchorX, p.anchorY = sx, sy
	case ButtonMiddle:
		p.queue.Reset()
	}
}

// Release records a button going up. While the right button is still held
// the velocity anchor moves to the release point.
func (p *Pointer) Release(b Button, sx, sy int) {
	if b < 0 || b >= numButtons {
		return
	}
	p.pressed[b] = false
	if p.pressed[ButtonRight] {
		p.anchorX, p.anchorY = sx, sy
	}
}

// Drag handles pointer movement to (sx, sy) with buttons held. It returns
// the number of commands queued.
func (p *Pointer) Drag(sx, sy int) int {
	queued := 0
	x, y := p.ToGrid(sx, sy)

	if p.pressed[ButtonLeft] {
		p.queue.AddDensityBrush(x, y, p.cfg.DensityAmount, p.cfg.BrushSize)
		queued++
	}
	if p.pressed[ButtonRight] {
		dx, dy := sx-p.anchorX, sy-p.anchorY
		if abs(dx) > p.cfg.DragThreshold || abs(dy) > p.cfg.DragThreshold {
			p.queue.AddVelocity(x, y,
				float32(dx)*p.cfg.Acceleration,
				float32(dy)*p.cfg.Acceleration)
			queued++
		}
	}
	return queued
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
