package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSense(t *testing.T) {
	wall := BoxObstacles{{L: 2, B: -1, R: 3, T: 1}}

	tests := []struct {
		name      string
		agent     cp.Vector
		target    cp.Vector
		found     bool
		obstacles Raycaster
		wantDist  float64
		wantLOS   bool
	}{
		{name: "absent_target", found: false, obstacles: wall, wantDist: math.Inf(1)},
		{name: "clear", agent: cp.Vector{}, target: cp.Vector{Y: 4}, found: true, obstacles: wall, wantDist: 4, wantLOS: true},
		{name: "blocked", agent: cp.Vector{}, target: cp.Vector{X: 5}, found: true, obstacles: wall, wantDist: 5},
		{name: "wall_behind_target", agent: cp.Vector{}, target: cp.Vector{X: 1.5}, found: true, obstacles: wall, wantDist: 1.5, wantLOS: true},
		{name: "beyond_range", agent: cp.Vector{}, target: cp.Vector{Y: 9}, found: true, obstacles: wall, wantDist: 9},
		{name: "at_range", agent: cp.Vector{}, target: cp.Vector{Y: 8}, found: true, obstacles: wall, wantDist: 8, wantLOS: true},
		{name: "same_spot", agent: cp.Vector{X: 1}, target: cp.Vector{X: 1}, found: true, obstacles: wall, wantDist: 0, wantLOS: true},
		{name: "no_geometry", agent: cp.Vector{}, target: cp.Vector{X: 5}, found: true, wantDist: 5, wantLOS: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist, los := Sense(tc.agent, tc.target, tc.found, tc.obstacles, 8, ecs.CategoryObstacle)
			if math.IsInf(tc.wantDist, 1) {
				assert.True(t, math.IsInf(dist, 1))
			} else {
				assert.InDelta(t, tc.wantDist, dist, 1e-9)
			}
			assert.Equal(t, tc.wantLOS, los)
		})
	}
}

func TestSenseWithPhysicsWorld(t *testing.T) {
	pw := ecs.NewPhysicsWorld(cp.Vector{}, 0)
	pw.AddObstacle(cp.BB{L: 2, B: -1, R: 3, T: 1})

	_, los := Sense(cp.Vector{}, cp.Vector{X: 5}, true, pw, 8, ecs.CategoryObstacle)
	assert.False(t, los)

	_, los = Sense(cp.Vector{}, cp.Vector{X: 5, Y: 4}, true, pw, 8, ecs.CategoryObstacle)
	assert.True(t, los)
}

func TestPerceptionSystemIgnoresOwnBody(t *testing.T) {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(cp.Vector{}, 0)
	w.SetPhysicsWorld(pw)
	pw.AddObstacle(cp.BB{L: 40, B: 0, R: 50, T: 100})

	target := ecs.CreateEntity(w)
	targetBody := pw.EnsureKinematicBody(target, cp.Vector{X: 20, Y: 10}, 4, ecs.CategoryTarget, false)
	require.NoError(t, ecs.Add(w, target, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: targetBody, Kinematic: true}))

	agent := ecs.CreateEntity(w)
	body := pw.EnsureBody(agent, cp.Vector{X: 0, Y: 10}, 5, ecs.CategoryAgent, false)
	tuning := testTuning()
	tuning.DetectionRange = 100
	require.NoError(t, ecs.Add(w, agent, component.AITagComponent.Kind(), &component.AITag{}))
	require.NoError(t, ecs.Add(w, agent, component.HostileComponent.Kind(), tuning))
	require.NoError(t, ecs.Add(w, agent, component.PerceptionComponent.Kind(), &component.Perception{}))
	require.NoError(t, ecs.Add(w, agent, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Body: body}))
	require.NoError(t, ecs.Add(w, agent, component.TargetComponent.Kind(), &component.Target{Locator: EntityLocator{World: w, Entity: target}}))

	NewPerceptionSystem(nil).Update(w)
	p, _ := ecs.Get(w, agent, component.PerceptionComponent.Kind())
	assert.True(t, p.TargetFound)
	assert.True(t, p.HasLineOfSight)
	assert.InDelta(t, 20, p.Distance, 1e-9)

	targetBody.SetPosition(cp.Vector{X: 70, Y: 10})
	NewPerceptionSystem(nil).Update(w)
	assert.False(t, p.HasLineOfSight, "obstacle between agent and target")

	ecs.DestroyEntity(w, target)
	NewPerceptionSystem(nil).Update(w)
	assert.False(t, p.TargetFound)
	assert.True(t, math.IsInf(p.Distance, 1))
}

func TestBoxObstaclesRespectsMask(t *testing.T) {
	wall := BoxObstacles{{L: 2, B: -1, R: 3, T: 1}}
	assert.True(t, wall.Raycast(cp.Vector{}, cp.Vector{X: 1}, 5, ecs.CategoryObstacle))
	assert.False(t, wall.Raycast(cp.Vector{}, cp.Vector{X: 1}, 5, ecs.CategoryAgent))
	assert.False(t, wall.Raycast(cp.Vector{}, cp.Vector{X: -1}, 5, ecs.CategoryObstacle))
}
