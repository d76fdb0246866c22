// Package stimulus serializes external input to a fluid grid.
//
// Producers on any goroutine push commands into a Queue. The goroutine that
// owns the grid drains the queue between steps, so stimulus never lands in
// the middle of a solver phase.
package stimulus

import "sync"

// Kind identifies a stimulus command.
type Kind uint8

const (
	KindDensity Kind = iota
	KindDensityBrush
	KindVelocity
	KindReset
)

func (k Kind) String() string {
	switch k {
	case KindDensity:
		return "density"
	case KindDensityBrush:
		return "density_brush"
	case KindVelocity:
		return "velocity"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Command is one queued stimulus in grid coordinates.
type Command struct {
	Kind   Kind
	X, Y   int
	Amount float32 // density added per cell
	Size   int     // brush side length
	DX, DY float32 // velocity impulse
}

// Target receives drained commands. *fluid.Grid satisfies it.
type Target interface {
	AddDensity(x, y int, amount float32)
	AddDensityBrush(x, y int, amount float32, size int)
	AddVelocity(x, y int, dx, dy float32)
	Reset()
}

// Apply performs the command on t.
func (c Command) Apply(t Target) {
	switch c.Kind {
	case KindDensity:
		t.AddDensity(c.X, c.Y, c.Amount)
	case KindDensityBrush:
		t.AddDensityBrush(c.X, c.Y, c.Amount, c.Size)
	case KindVelocity:
		t.AddVelocity(c.X, c.Y, c.DX, c.DY)
	case KindReset:
		t.Reset()
	}
}

// Queue is a FIFO of pending commands, safe for concurrent producers.
type Queue struct {
	mu      sync.Mutex
	pending []Command
	spare   []Command
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		pending: make([]Command, 0, 64),
		spare:   make([]Command, 0, 64),
	}
}

// Push appends commands in order.
func (q *Queue) Push(cmds ...Command) {
	q.mu.Lock()
	q.pending = append(q.pending, cmds...)
	q.mu.Unlock()
}

func (q *Queue) AddDensity(x, y int, amount float32) {
	q.Push(Command{Kind: KindDensity, X: x, Y: y, Amount: amount})
}

func (q *Queue) AddDensityBrush(x, y int, amount float32, size int) {
	q.Push(Command{Kind: KindDensityBrush, X: x, Y: y, Amount: amount, Size: size})
}

func (q *Queue) AddVelocity(x, y int, dx, dy float32) {
	q.Push(Command{Kind: KindVelocity, X: x, Y: y, DX: dx, DY: dy})
}

// Reset queues a full field reset. Commands queued before it are still
// applied first.
func (q *Queue) Reset() {
	q.Push(Command{Kind: KindReset})
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain applies every pending command to t in push order and returns how
// many were applied. Commands pushed while draining wait for the next call.
// Only the goroutine that owns t may call Drain.
func (q *Queue) Drain(t Target) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, c := range batch {
		c.Apply(t)
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}
