package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectileSpawnerLifecycle(t *testing.T) {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(cp.Vector{}, 1.0/16.0)
	w.SetPhysicsWorld(pw)

	spawner := NewProjectileSpawner(w)
	spawner.Lifetime = 0.5
	id, err := spawner.Spawn(cp.Vector{X: 1}, cp.Vector{X: 8}, 0)
	require.NoError(t, err)

	e := ecs.Entity(id)
	require.True(t, ecs.IsAlive(w, e))
	p, ok := ecs.Get(w, e, component.ProjectileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 8}, p.Velocity)

	sched := ecs.NewScheduler(NewPhysicsSystem(), NewTTLSystem())
	sched.Step(w, 0.25)
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 3, tr.X, 1e-6, "kinematic body keeps its spawn velocity")

	sched.Step(w, 0.25)
	assert.False(t, ecs.IsAlive(w, e))
	_, ok = pw.Body(e)
	assert.False(t, ok, "body removed with the entity")
}

func TestProjectileSpawnerWithoutPhysics(t *testing.T) {
	w := ecs.NewWorld()
	id, err := NewProjectileSpawner(w).Spawn(cp.Vector{}, cp.Vector{Y: 4}, 0)
	require.NoError(t, err)

	ecs.NewScheduler(NewPhysicsSystem()).Step(w, 0.5)
	tr, ok := ecs.Get(w, ecs.Entity(id), component.TransformComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 2, tr.Y, 1e-9)
}

func TestSpawnerWithoutWorld(t *testing.T) {
	var s *ProjectileSpawner
	_, err := s.Spawn(cp.Vector{}, cp.Vector{}, 0)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestEntityLocatorStopsAtDeath(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: 3, Y: 4}))
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(10)))
	loc := EntityLocator{World: w, Entity: e}

	pos, ok := loc.TargetPosition()
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 3, Y: 4}, pos)

	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	h.Dead = true
	_, ok = loc.TargetPosition()
	assert.False(t, ok)
}
