package fluid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum number of interior rows to split across
// goroutines. Smaller grids finish faster on one core.
const parallelThreshold = 64

// forRows calls fn(j0, j1) over the interior rows [1, N-1). When the grid is
// in parallel mode and large enough, the range is split into contiguous
// chunks, one per CPU. fn must only write cells in its own rows.
func (g *Grid) forRows(fn func(j0, j1 int)) {
	start, end := 1, g.n-1
	total := end - start
	if total <= 0 {
		return
	}
	if !g.parallel || total < parallelThreshold {
		fn(start, end)
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > total {
		workers = total
	}
	chunk := (total + workers - 1) / workers

	var wg sync.WaitGroup
	for s := start; s < end; s += chunk {
		e := min(s+chunk, end)
		wg.Add(1)
		go func(j0, j1 int) {
			defer wg.Done()
			fn(j0, j1)
		}(s, e)
	}
	wg.Wait()
}
