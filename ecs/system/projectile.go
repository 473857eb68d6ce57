package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
)

const (
	defaultProjectileLifetime = 3.0
	defaultProjectileRadius   = 3.0
)

// ProjectileSpawner is the default spawner: each projectile is an entity
// with a kinematic sensor body moving at constant velocity and a time to
// live. Hit detection belongs to the projectile's own collaborators.
type ProjectileSpawner struct {
	World    *ecs.World
	Lifetime float64
	Radius   float64
}

func NewProjectileSpawner(w *ecs.World) *ProjectileSpawner {
	return &ProjectileSpawner{
		World:    w,
		Lifetime: defaultProjectileLifetime,
		Radius:   defaultProjectileRadius,
	}
}

func (s *ProjectileSpawner) Spawn(position, velocity cp.Vector, rotation float64) (uint64, error) {
	if s == nil || s.World == nil {
		return 0, fmt.Errorf("projectile: %w", ErrMissingDependency)
	}
	w := s.World
	e := ecs.CreateEntity(w)

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: position.X, Y: position.Y, Rotation: rotation}); err != nil {
		return 0, fmt.Errorf("projectile: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{Velocity: velocity, Rotation: rotation}); err != nil {
		return 0, fmt.Errorf("projectile: add projectile: %w", err)
	}
	if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{ExpiresAt: w.Now() + s.Lifetime}); err != nil {
		return 0, fmt.Errorf("projectile: add ttl: %w", err)
	}

	if pw := w.PhysicsWorld(); pw != nil {
		body := pw.EnsureKinematicBody(e, position, s.Radius, ecs.CategoryProjectile, true)
		if body != nil {
			body.SetVelocityVector(velocity)
			body.SetAngle(rotation)
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Body:      body,
			Radius:    s.Radius,
			Category:  ecs.CategoryProjectile,
			Sensor:    true,
			Kinematic: true,
		}); err != nil {
			return 0, fmt.Errorf("projectile: add physics body: %w", err)
		}
	} else {
		if err := ecs.Add(w, e, component.SteeringComponent.Kind(), &component.Steering{Velocity: velocity}); err != nil {
			return 0, fmt.Errorf("projectile: add steering: %w", err)
		}
	}

	return uint64(e), nil
}
