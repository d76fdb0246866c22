package fluid

// Boundary selects how a field is mirrored into the edge ring.
type Boundary int

const (
	// BoundaryScalar copies the adjacent interior value on every edge.
	BoundaryScalar Boundary = iota
	// BoundaryX negates on the left and right edges (horizontal velocity).
	BoundaryX
	// BoundaryY negates on the top and bottom edges (vertical velocity).
	BoundaryY
)

func (b Boundary) String() string {
	switch b {
	case BoundaryScalar:
		return "scalar"
	case BoundaryX:
		return "x"
	case BoundaryY:
		return "y"
	default:
		return "unknown"
	}
}

// ApplyBoundary overwrites the edge ring of field from its interior
// neighbours. Velocity kinds reflect the normal component so fluid cannot
// leave the box. Each corner becomes the mean of its two edge neighbours,
// computed after the edges are written.
func (g *Grid) ApplyBoundary(kind Boundary, field []float32) {
	n := g.n
	last := n - 1

	for i := 1; i < last; i++ {
		top, bottom := field[i+n], field[i+(last-1)*n]
		if kind == BoundaryY {
			top, bottom = -top, -bottom
		}
		field[i] = top
		field[i+last*n] = bottom
	}
	for j := 1; j < last; j++ {
		left, right := field[1+j*n], field[last-1+j*n]
		if kind == BoundaryX {
			left, right = -left, -right
		}
		field[j*n] = left
		field[last+j*n] = right
	}

	field[0] = 0.5 * (field[1] + field[n])
	field[last*n] = 0.5 * (field[1+last*n] + field[(last-1)*n])
	field[last] = 0.5 * (field[last-1] + field[last+n])
	field[last+last*n] = 0.5 * (field[last-1+last*n] + field[last+(last-1)*n])
}
