package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLethalDamageKillsOnce(t *testing.T) {
	f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 7}, 30)
	f.run(0.5, nil)

	require.True(t, ApplyDamage(f.w, f.e, 50, cp.Vector{X: 1}))
	hp := f.health()
	assert.Equal(t, -20, hp.Current)
	assert.True(t, hp.Dead)
	assert.Equal(t, component.StateDead, f.state())

	ttl, ok := ecs.Get(f.w, f.e, component.TTLComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, f.w.Now()+1, ttl.ExpiresAt, 1e-9)

	assert.False(t, ApplyDamage(f.w, f.e, 10, cp.Vector{X: 1}), "damage after death is a no-op")
	assert.Equal(t, -20, f.health().Current)

	f.run(1.25, func() {
		if ecs.IsAlive(f.w, f.e) {
			require.Equal(t, component.StateDead, f.state())
			require.Equal(t, cp.Vector{}, f.steering().Velocity)
		}
	})
	assert.Equal(t, 1, countCue(f.cues, CueDied))

	f.run(1.6, nil)
	assert.False(t, ecs.IsAlive(f.w, f.e), "dead agents despawn after the delay")
}

func TestInvulnerabilityWindow(t *testing.T) {
	tests := []struct {
		name    string
		delay   float64
		applied bool
	}{
		{name: "inside_window", delay: 0.2, applied: false},
		{name: "at_window_end", delay: 0.4, applied: true},
		{name: "after_window", delay: 0.5, applied: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 7}, 30)
			require.True(t, ApplyDamage(f.w, f.e, 5, cp.Vector{X: -1}))
			kb, ok := ecs.Get(f.w, f.e, component.KnockbackComponent.Kind())
			require.True(t, ok)
			firstKnockback := *kb

			f.w.Clock().Advance(tc.delay)
			got := ApplyDamage(f.w, f.e, 5, cp.Vector{X: -1})
			assert.Equal(t, tc.applied, got)

			if tc.applied {
				assert.Equal(t, 20, f.health().Current)
				return
			}
			assert.Equal(t, 25, f.health().Current)
			kb, ok = ecs.Get(f.w, f.e, component.KnockbackComponent.Kind())
			require.True(t, ok)
			assert.Equal(t, firstKnockback, *kb, "no new knockback inside the window")
		})
	}
}

func TestKnockbackDirection(t *testing.T) {
	tests := []struct {
		name   string
		source cp.Vector
		want   cp.Vector
	}{
		{name: "from_left", source: cp.Vector{X: -3}, want: cp.Vector{X: 5}},
		{name: "from_below", source: cp.Vector{Y: 2}, want: cp.Vector{Y: -5}},
		{name: "coincident_goes_up", source: cp.Vector{}, want: cp.Vector{Y: -5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 7}, 30)
			require.True(t, ApplyDamage(f.w, f.e, 1, tc.source))
			kb, ok := ecs.Get(f.w, f.e, component.KnockbackComponent.Kind())
			require.True(t, ok)
			assert.InDelta(t, tc.want.X, kb.Velocity.X, 1e-9)
			assert.InDelta(t, tc.want.Y, kb.Velocity.Y, 1e-9)
			assert.InDelta(t, 0.2, kb.Until, 1e-9)
		})
	}
}

func TestKnockbackOverridesSteering(t *testing.T) {
	f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 7}, 30)
	f.timers().NextShootAt = 100
	f.run(frame, nil)
	require.Equal(t, component.StateChase, f.state())

	require.True(t, ApplyDamage(f.w, f.e, 1, cp.Vector{X: 1}))
	start := f.position()
	f.run(frame+0.125, nil)
	assert.Less(t, f.position().X, start.X, "knocked back against the chase direction")

	f.run(0.5, nil)
	_, ok := ecs.Get(f.w, f.e, component.KnockbackComponent.Kind())
	assert.False(t, ok, "expired knockback is removed")
}

func TestHitCancelsCommittedActions(t *testing.T) {
	f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 5}, 30)
	f.sched.Step(f.w, 0)
	require.True(t, f.slot().Running())
	require.Equal(t, component.StateShoot, f.state())

	require.True(t, ApplyDamage(f.w, f.e, 1, cp.Vector{X: 5}))
	assert.False(t, f.slot().Running())
	assert.Equal(t, 2.0, f.timers().NextShootAt, "a cancelled shoot keeps its cooldown")

	f.run(0.5, nil)
	assert.Empty(t, f.spawner.calls, "no shots after cancellation")
}

func TestHitDoesNotCancelRetreat(t *testing.T) {
	tuning := testTuning()
	tuning.HitInvulnerableTime = 0
	f := newAgent(t, tuning, cp.Vector{}, cp.Vector{X: 2}, 30)
	f.timers().RecordHit(0)
	f.timers().StartChargeCooldown(0, 10)

	f.run(frame, nil)
	require.Equal(t, component.StateRetreat, f.state())
	retreat := f.slot().Current

	require.True(t, ApplyDamage(f.w, f.e, 1, cp.Vector{X: 2}))
	assert.True(t, retreat.Running())
	assert.Same(t, retreat, f.slot().Current)
}

func TestHitAlertsMemory(t *testing.T) {
	t.Run("uses_live_target", func(t *testing.T) {
		f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 50}, 30)
		require.True(t, ApplyDamage(f.w, f.e, 1, cp.Vector{X: 1}))
		m, _ := ecs.Get(f.w, f.e, component.MemoryComponent.Kind())
		assert.True(t, m.Alerted)
		assert.Equal(t, cp.Vector{X: 50}, m.LastKnown)
		assert.Equal(t, 1, countCueQueued(f.w, CueHit))
	})

	t.Run("falls_back_to_source", func(t *testing.T) {
		f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 50}, 30)
		f.target.present = false
		require.True(t, ApplyDamage(f.w, f.e, 1, cp.Vector{X: -4}))
		m, _ := ecs.Get(f.w, f.e, component.MemoryComponent.Kind())
		assert.Equal(t, cp.Vector{X: -4}, m.LastKnown)
	})
}

func TestApplyDamageIgnoresNonPositiveAmounts(t *testing.T) {
	f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 7}, 30)
	assert.False(t, ApplyDamage(f.w, f.e, 0, cp.Vector{}))
	assert.False(t, ApplyDamage(f.w, f.e, -3, cp.Vector{}))
	assert.Equal(t, 30, f.health().Current)
}

// hazardSystem damages charging agents once the clock reaches at. It runs
// between the decision and action systems, like a contact-damage
// collaborator would.
type hazardSystem struct {
	at   float64
	hits int
}

func (s *hazardSystem) Update(w *ecs.World) {
	if w.Now() < s.at {
		return
	}
	ecs.ForEach2(w, component.AITagComponent.Kind(), component.AIStateComponent.Kind(), func(e ecs.Entity, _ *component.AITag, state *component.AIState) {
		if state.Current == component.StateCharge && ApplyDamage(w, e, 1, cp.Vector{X: 10}) {
			s.hits++
		}
	})
}

func hazardScheduler(f *agentFixture, hazard *hazardSystem) *ecs.Scheduler {
	return ecs.NewScheduler(
		NewPerceptionSystem(nil),
		NewMemorySystem(),
		NewDecisionSystem(),
		hazard,
		NewActionSystem(),
		NewPhysicsSystem(),
		NewTTLSystem(),
		NewCueSystem(CueSinkFunc(func(_ ecs.Entity, name string) {
			f.cues = append(f.cues, name)
		})),
	)
}

func TestHitBetweenDecisionAndActionDoesNotRestartCharge(t *testing.T) {
	f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 2}, 30)
	hazard := &hazardSystem{at: 0.1}
	f.sched = hazardScheduler(f, hazard)

	f.run(frame, nil)
	require.Equal(t, component.StateCharge, f.state())
	require.True(t, f.slot().Running())
	chargeReadyAt := f.timers().NextChargeAt
	assert.InDelta(t, frame+4, chargeReadyAt, 1e-9)

	f.run(0.5, nil)
	assert.Equal(t, 1, hazard.hits)
	assert.Equal(t, 1, countCue(f.cues, CueChargeStarted), "the interrupted charge is not restarted")
	assert.Equal(t, chargeReadyAt, f.timers().NextChargeAt, "the cooldown is not re-armed")
	running, ok := f.slot().RunningState()
	assert.False(t, ok && running == component.StateCharge)
}

func TestHitBeforeChargeStartsDropsIt(t *testing.T) {
	f := newAgent(t, testTuning(), cp.Vector{}, cp.Vector{X: 2}, 30)
	hazard := &hazardSystem{}
	f.sched = hazardScheduler(f, hazard)

	f.run(frame, nil)
	require.Equal(t, 1, hazard.hits)
	assert.False(t, f.slot().Running(), "a charge selected this frame does not start after the hit")
	assert.Zero(t, countCue(f.cues, CueChargeStarted))
	assert.Zero(t, f.timers().NextChargeAt, "a charge that never began leaves the cooldown alone")
}

func countCueQueued(w *ecs.World, name string) int {
	n := 0
	for _, evt := range w.Events().Drain() {
		if cue, ok := evt.Data.(ecs.CueEvent); ok && cue.Name == name {
			n++
		}
	}
	return n
}
