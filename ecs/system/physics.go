package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
)

// PhysicsSystem writes steering velocities into bodies, steps the physics
// service and mirrors body positions into transforms. An active knockback
// replaces the steering velocity for its duration.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()
	dt := w.Clock().Delta()

	pw := w.PhysicsWorld()
	if pw == nil {
		s.integrate(w, now, dt)
	} else {
		pw.Step(dt, func(float64) {
			ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
				if pb.Body == nil || pb.Kinematic {
					return
				}
				pb.Body.SetVelocityVector(desiredVelocity(w, e, now))
			})
		})
		ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
			if pb.Body == nil {
				return
			}
			pos := pb.Body.Position()
			t.X, t.Y = pos.X, pos.Y
		})
	}

	ecs.ForEach(w, component.KnockbackComponent.Kind(), func(e ecs.Entity, kb *component.Knockback) {
		if !kb.Active(now) {
			_ = ecs.Remove(w, e, component.KnockbackComponent.Kind())
		}
	})
}

// integrate moves bodiless entities directly when no physics service is
// attached.
func (s *PhysicsSystem) integrate(w *ecs.World, now, dt float64) {
	if dt <= 0 {
		return
	}
	ecs.ForEach(w, component.SteeringComponent.Kind(), func(e ecs.Entity, _ *component.Steering) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		v := desiredVelocity(w, e, now)
		t.X += v.X * dt
		t.Y += v.Y * dt
	})
}

func desiredVelocity(w *ecs.World, e ecs.Entity, now float64) cp.Vector {
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		return cp.Vector{}
	}
	if kb, ok := ecs.Get(w, e, component.KnockbackComponent.Kind()); ok && kb.Active(now) {
		return kb.Velocity
	}
	if steering, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok {
		return steering.Velocity
	}
	return cp.Vector{}
}
