package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
)

// Raycaster answers straight-line visibility queries against obstacle
// geometry.
type Raycaster interface {
	Raycast(origin, direction cp.Vector, maxDistance float64, mask uint) bool
}

// Sense measures the distance to the target and tests line of sight. The
// ray is clipped to the separation so geometry behind the target does not
// block it. A target beyond maxRange is never visible.
func Sense(agentPos, targetPos cp.Vector, targetFound bool, obstacles Raycaster, maxRange float64, mask uint) (distance float64, hasLineOfSight bool) {
	if !targetFound {
		return math.Inf(1), false
	}
	distance = agentPos.Distance(targetPos)
	if distance > maxRange {
		return distance, false
	}
	if distance == 0 || obstacles == nil {
		return distance, true
	}
	return distance, !obstacles.Raycast(agentPos, targetPos.Sub(agentPos), distance, mask)
}

// PerceptionSystem refreshes every agent's perception snapshot.
type PerceptionSystem struct {
	obstacles Raycaster
}

// NewPerceptionSystem creates a perception system. With a nil raycaster the
// world's physics service answers line-of-sight queries.
func NewPerceptionSystem(obstacles Raycaster) *PerceptionSystem {
	return &PerceptionSystem{obstacles: obstacles}
}

func (s *PerceptionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	obstacles := s.obstacles
	if obstacles == nil {
		if pw := w.PhysicsWorld(); pw != nil {
			obstacles = pw
		}
	}

	ecs.ForEach2(w, component.AITagComponent.Kind(), component.PerceptionComponent.Kind(), func(e ecs.Entity, _ *component.AITag, p *component.Perception) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.IsAlive() {
			return
		}
		tuning, ok := ecs.Get(w, e, component.HostileComponent.Kind())
		if !ok {
			return
		}
		pos, ok := entityPosition(w, e)
		if !ok {
			return
		}
		target, _ := ecs.Get(w, e, component.TargetComponent.Kind())
		targetPos, found := targetPosition(target)

		mask := tuning.ObstacleMask
		if mask == 0 {
			mask = ecs.CategoryObstacle
		}
		dist, los := Sense(pos, targetPos, found, obstacles, tuning.DetectionRange, mask)
		*p = component.Perception{
			Distance:       dist,
			HasLineOfSight: los,
			TargetFound:    found,
			TargetPosition: targetPos,
		}
	})
}
