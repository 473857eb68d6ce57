package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
)

// entityPosition prefers the live physics body and falls back to the
// transform for entities that have none.
func entityPosition(w *ecs.World, e ecs.Entity) (cp.Vector, bool) {
	if w == nil || !ecs.IsAlive(w, e) {
		return cp.Vector{}, false
	}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		return pb.Body.Position(), true
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return cp.Vector{X: t.X, Y: t.Y}, true
	}
	return cp.Vector{}, false
}

// EntityLocator resolves a target by its stable entity handle. It reports no
// position once the entity is destroyed or dead.
type EntityLocator struct {
	World  *ecs.World
	Entity ecs.Entity
}

func (l EntityLocator) TargetPosition() (cp.Vector, bool) {
	if l.World == nil {
		return cp.Vector{}, false
	}
	if h, ok := ecs.Get(l.World, l.Entity, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		return cp.Vector{}, false
	}
	return entityPosition(l.World, l.Entity)
}

func targetPosition(t *component.Target) (cp.Vector, bool) {
	if t == nil || t.Locator == nil {
		return cp.Vector{}, false
	}
	return t.Locator.TargetPosition()
}

// direction returns the unit vector from a to b and false when they coincide.
func direction(from, to cp.Vector) (cp.Vector, bool) {
	d := to.Sub(from)
	if d.LengthSq() == 0 {
		return cp.Vector{}, false
	}
	return d.Normalize(), true
}
