package fluid

import "math"

// Relax runs Gauss-Seidel sweeps of x = (x0 + a*(sum of 4 neighbours)) / c
// over the interior, then applies the boundary. Cells are visited row by
// row, left to right, and updated in place so later cells in a sweep see
// earlier results. The ordering is part of the result and is never split
// across goroutines.
func (g *Grid) Relax(kind Boundary, x, x0 []float32, a, c float32) {
	n := g.n
	recip := 1 / c
	for k := 0; k < g.iterations; k++ {
		for j := 1; j < n-1; j++ {
			row := j * n
			for i := 1; i < n-1; i++ {
				idx := row + i
				x[idx] = (x0[idx] + a*(x[idx+1]+x[idx-1]+x[idx+n]+x[idx-n])) * recip
			}
		}
	}
	g.ApplyBoundary(kind, x)
}

// Diffuse solves target implicitly from source with coefficient rate over dt.
// The centre weight is 1+6a rather than the textbook 1+4a, which damps
// diffusion relative to the exact five-point scheme.
func (g *Grid) Diffuse(kind Boundary, target, source []float32, rate, dt float32) {
	inner := float32(g.n - 2)
	a := dt * rate * inner * inner
	g.Relax(kind, target, source, a, 1+6*a)
}

// Divergence writes the discrete divergence of (u, v), scaled by -0.5/N,
// into the interior of dst. The edge ring of dst is not touched.
func (g *Grid) Divergence(u, v, dst []float32) {
	n := g.n
	fn := float32(n)
	g.forRows(func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := j * n
			for i := 1; i < n-1; i++ {
				idx := row + i
				dst[idx] = -0.5 * (u[idx+1] - u[idx-1] + v[idx+n] - v[idx-n]) / fn
			}
		}
	})
}

// Project removes the divergent part of (u, v). pressure and divergence are
// scratch buffers and are fully overwritten.
func (g *Grid) Project(u, v, pressure, divergence []float32) {
	n := g.n
	fn := float32(n)

	g.Divergence(u, v, divergence)
	clear(pressure)
	g.ApplyBoundary(BoundaryScalar, divergence)
	g.ApplyBoundary(BoundaryScalar, pressure)
	g.Relax(BoundaryScalar, pressure, divergence, 1, 6)

	g.forRows(func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := j * n
			for i := 1; i < n-1; i++ {
				idx := row + i
				u[idx] -= 0.5 * (pressure[idx+1] - pressure[idx-1]) * fn
				v[idx] -= 0.5 * (pressure[idx+n] - pressure[idx-n]) * fn
			}
		}
	})
	g.ApplyBoundary(BoundaryX, u)
	g.ApplyBoundary(BoundaryY, v)
}

// Advect moves source along (velU, velV) into target by tracing each
// interior cell back over dt and sampling source bilinearly there.
//
// Trace positions clamp to [0.5, N+0.5]. The upper bound overshoots the last
// cell; Index clamps the overrun back to the edge.
func (g *Grid) Advect(kind Boundary, target, source, velU, velV []float32, dt float32) {
	n := g.n
	dt0 := dt * float32(n-2)
	lo, hi := float32(0.5), float32(n)+0.5

	g.forRows(func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			fj := float32(j)
			for i := 1; i < n-1; i++ {
				idx := i + j*n
				x := float32(i) - dt0*velU[idx]
				y := fj - dt0*velV[idx]
				x = clamp32(x, lo, hi)
				y = clamp32(y, lo, hi)

				fi0 := float32(math.Floor(float64(x)))
				fj0 := float32(math.Floor(float64(y)))
				s1 := x - fi0
				s0 := 1 - s1
				t1 := y - fj0
				t0 := 1 - t1

				xi, yi := int(fi0), int(fj0)
				target[idx] = s0*(t0*source[g.Index(xi, yi)]+t1*source[g.Index(xi, yi+1)]) +
					s1*(t0*source[g.Index(xi+1, yi)]+t1*source[g.Index(xi+1, yi+1)])
			}
		}
	})
	g.ApplyBoundary(kind, target)
}
