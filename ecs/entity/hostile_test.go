package entity

import (
	"errors"
	"os"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/logger"
	"github.com/milk9111/hostile/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func TestNewHostileComponents(t *testing.T) {
	w := ecs.NewWorld()
	player, err := NewPlayer(w, prefabs.TargetSpec{X: 400, Y: 0, Radius: 8})
	require.NoError(t, err)

	h, err := NewHostile(w, nil, HostileOptions{Position: cp.Vector{X: 10, Y: 20}, Target: player.Locator()})
	require.NoError(t, err)

	assert.Equal(t, component.StatePatrol, h.State())
	assert.True(t, h.Alive())
	cur, max := h.Health()
	assert.Equal(t, 30, cur)
	assert.Equal(t, 30, max)

	pos, ok := h.Position()
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, pos)

	for name, kind := range map[string]component.KindID{
		"perception": component.PerceptionComponent.Kind(),
		"memory":     component.MemoryComponent.Kind(),
		"timers":     component.AITimersComponent.Kind(),
		"slot":       component.ActionSlotComponent.Kind(),
		"patrol":     component.PatrolPathComponent.Kind(),
		"armament":   component.ArmamentComponent.Kind(),
	} {
		assert.True(t, w.HasComponent(h.Entity, kind), name)
	}

	arm, ok := ecs.Get(w, h.Entity, component.ArmamentComponent.Kind())
	require.True(t, ok)
	assert.NotNil(t, arm.Spawner)
}

func TestNewHostileOptions(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.DefaultHostileSpec()
	spec.Patrol.Enabled = false

	h, err := NewHostile(w, &spec, HostileOptions{NoSpawner: true})
	require.NoError(t, err)

	assert.Equal(t, component.StateInvestigate, h.State())
	assert.False(t, w.HasComponent(h.Entity, component.PatrolPathComponent.Kind()))
	arm, ok := ecs.Get(w, h.Entity, component.ArmamentComponent.Kind())
	require.True(t, ok)
	assert.Nil(t, arm.Spawner)
}

func TestNewHostileRejectsBadTuning(t *testing.T) {
	spec := prefabs.DefaultHostileSpec()
	spec.Health = 0

	_, err := NewHostile(ecs.NewWorld(), &spec, HostileOptions{})
	assert.True(t, errors.Is(err, prefabs.ErrInvalidTuning), "got %v", err)

	_, err = NewHostile(nil, nil, HostileOptions{})
	assert.Error(t, err)
}

func TestHostileTakeDamage(t *testing.T) {
	w := ecs.NewWorld()
	h, err := NewHostile(w, nil, HostileOptions{NoSpawner: true})
	require.NoError(t, err)

	h.TakeDamage(10, cp.Vector{X: 50})
	cur, _ := h.Health()
	assert.Equal(t, 20, cur)
	assert.True(t, h.Alive())

	// Still invulnerable from the first hit.
	h.TakeDamage(10, cp.Vector{X: 50})
	cur, _ = h.Health()
	assert.Equal(t, 20, cur)

	w.Clock().Advance(1)
	h.TakeDamage(25, cp.Vector{X: 50})
	assert.False(t, h.Alive())
	assert.Equal(t, component.StateDead, h.State())
}

func TestApplyTuning(t *testing.T) {
	w := ecs.NewWorld()
	h, err := NewHostile(w, nil, HostileOptions{NoSpawner: true})
	require.NoError(t, err)

	spec := prefabs.DefaultHostileSpec()
	spec.ChaseSpeed = 999
	require.NoError(t, h.ApplyTuning(&spec))

	tuning, ok := ecs.Get(w, h.Entity, component.HostileComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 999.0, tuning.ChaseSpeed)

	spec.ForgetAfter = 0
	assert.True(t, errors.Is(h.ApplyTuning(&spec), prefabs.ErrInvalidTuning))
	assert.Equal(t, 999.0, tuning.ChaseSpeed)
}

func TestNilHostileHandle(t *testing.T) {
	var h *Hostile
	assert.False(t, h.Alive())
	assert.Equal(t, component.StateDead, h.State())
	h.TakeDamage(10, cp.Vector{})
	_, ok := h.Position()
	assert.False(t, ok)
}

func TestPlayerMoveTo(t *testing.T) {
	w := ecs.NewWorld()
	p, err := NewPlayer(w, prefabs.TargetSpec{X: 1, Y: 2, Radius: 4})
	require.NoError(t, err)

	p.MoveTo(cp.Vector{X: 7, Y: 9})
	pos, ok := p.Position()
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 7, Y: 9}, pos)
}
