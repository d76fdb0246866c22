// Package sources keeps persistent ink and velocity emitters as ECS
// entities and replays them into the stimulus stream every tick.
package sources

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ink/components"
)

// Sink receives emitted stimulus. *stimulus.Queue and *fluid.Grid satisfy it.
type Sink interface {
	AddDensity(x, y int, amount float32)
	AddDensityBrush(x, y int, amount float32, size int)
	AddVelocity(x, y int, dx, dy float32)
}

// System owns the emitter world.
type System struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Emitter, components.Lifetime]
	filter *ecs.Filter3[components.Position, components.Emitter, components.Lifetime]

	posMap *ecs.Map1[components.Position]

	expired []ecs.Entity
	count   int
}

// NewSystem creates an empty emitter system.
func NewSystem() *System {
	world := ecs.NewWorld()
	return &System{
		world:   world,
		mapper:  ecs.NewMap3[components.Position, components.Emitter, components.Lifetime](world),
		filter:  ecs.NewFilter3[components.Position, components.Emitter, components.Lifetime](world),
		posMap:  ecs.NewMap1[components.Position](world),
		expired: make([]ecs.Entity, 0, 8),
	}
}

// Spawn adds an emitter at (x, y). A lifetime <= 0 runs forever.
func (s *System) Spawn(x, y float32, em components.Emitter, lifetime float32) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	life := components.Lifetime{Remaining: lifetime, Forever: lifetime <= 0}
	e := s.mapper.NewEntity(&pos, &em, &life)
	s.count++
	return e
}

// Count returns the number of live emitters.
func (s *System) Count() int { return s.count }

// Position returns the position of e, or false if e is gone.
func (s *System) Position(e ecs.Entity) (components.Position, bool) {
	if !s.world.Alive(e) {
		return components.Position{}, false
	}
	return *s.posMap.Get(e), true
}

// Each calls fn with the position and settings of every live emitter.
func (s *System) Each(fn func(pos components.Position, em components.Emitter)) {
	query := s.filter.Query()
	for query.Next() {
		pos, em, _ := query.Get()
		fn(*pos, *em)
	}
}

// Update emits one tick of stimulus from every emitter into sink, rotates
// spinning emitters by dt and removes the ones whose lifetime ran out.
// It returns the number of commands emitted.
func (s *System) Update(dt float32, sink Sink) int {
	emitted := 0
	s.expired = s.expired[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, em, life := query.Get()
		x, y := int(pos.X), int(pos.Y)

		if em.Density != 0 {
			if em.Size > 1 {
				sink.AddDensityBrush(x, y, em.Density, em.Size)
			} else {
				sink.AddDensity(x, y, em.Density)
			}
			emitted++
		}
		if em.Force != 0 {
			sin, cos := math.Sincos(float64(em.Angle))
			sink.AddVelocity(x, y, em.Force*float32(cos), em.Force*float32(sin))
			emitted++
		}

		em.Angle = wrapAngle(em.Angle + em.Spin*dt)

		if !life.Forever {
			life.Remaining -= dt
			if life.Expired() {
				s.expired = append(s.expired, query.Entity())
			}
		}
	}

	// Structural changes wait until the query is closed.
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
		s.count--
	}
	return emitted
}

// Clear removes every emitter.
func (s *System) Clear() {
	s.expired = s.expired[:0]
	query := s.filter.Query()
	for query.Next() {
		s.expired = append(s.expired, query.Entity())
	}
	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}

func wrapAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	w := math.Mod(float64(a), twoPi)
	if w < 0 {
		w += twoPi
	}
	return float32(w)
}
