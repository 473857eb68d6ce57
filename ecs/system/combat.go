package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/logger"
	"github.com/sirupsen/logrus"
)

// knockbackUp is used when the damage source sits exactly on the agent.
// Screen space grows downward.
var knockbackUp = cp.Vector{X: 0, Y: -1}

var combatLog = logger.For("combat")

// ApplyDamage resolves one attack against an agent at the current world
// time. It reports whether the damage was applied; damage against a dead or
// invulnerable agent, or a non-positive amount, is ignored.
func ApplyDamage(w *ecs.World, e ecs.Entity, amount int, source cp.Vector) bool {
	if w == nil || amount <= 0 {
		return false
	}
	health, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok || health.Dead {
		return false
	}
	now := w.Now()
	if inv, ok := ecs.Get(w, e, component.InvulnerableComponent.Kind()); ok && inv.Active(now) {
		return false
	}
	tuning, ok := ecs.Get(w, e, component.HostileComponent.Kind())
	if !ok {
		tuning = &component.Hostile{}
	}

	health.Current -= amount

	if timers, ok := ecs.Get(w, e, component.AITimersComponent.Kind()); ok {
		timers.RecordHit(now)
	}
	if memory, ok := ecs.Get(w, e, component.MemoryComponent.Kind()); ok {
		target, _ := ecs.Get(w, e, component.TargetComponent.Kind())
		focus, found := targetPosition(target)
		if !found {
			focus = source
		}
		memory.RegisterHit(now, focus)
	}

	pos, hasPos := entityPosition(w, e)
	if hasPos && tuning.KnockbackDuration > 0 && ecs.Has(w, e, component.KnockbackableComponent.Kind()) {
		dir, ok := direction(source, pos)
		if !ok {
			dir = knockbackUp
		}
		_ = ecs.Add(w, e, component.KnockbackComponent.Kind(), &component.Knockback{
			Velocity: dir.Mult(tuning.KnockbackSpeed),
			Until:    now + tuning.KnockbackDuration,
		})
	}

	if slot, ok := ecs.Get(w, e, component.ActionSlotComponent.Kind()); ok {
		slot.CancelCommitted()
	}
	// a Shoot or Charge selected this frame but not yet started is dropped too
	if state, ok := ecs.Get(w, e, component.AIStateComponent.Kind()); ok {
		switch state.Current {
		case component.StateShoot, component.StateCharge:
			state.Pending = false
		}
	}
	w.Events().PushCue(e, CueHit)

	if health.Current <= 0 {
		kill(w, e, health, tuning, now)
		return true
	}

	if tuning.HitInvulnerableTime > 0 {
		_ = ecs.Add(w, e, component.InvulnerableComponent.Kind(), &component.Invulnerable{Until: now + tuning.HitInvulnerableTime})
	}
	return true
}

// kill moves the agent into the terminal Dead state: no further collisions,
// no motion and removal after the despawn delay.
func kill(w *ecs.World, e ecs.Entity, health *component.Health, tuning *component.Hostile, now float64) {
	health.Dead = true

	if state, ok := ecs.Get(w, e, component.AIStateComponent.Kind()); ok && state.Current != component.StateDead {
		state.Previous = state.Current
		state.Current = component.StateDead
		state.EnteredAt = now
		state.Idle = false
		state.Pending = false
	}
	if slot, ok := ecs.Get(w, e, component.ActionSlotComponent.Kind()); ok {
		slot.CancelAll()
	}
	if steering, ok := ecs.Get(w, e, component.SteeringComponent.Kind()); ok {
		steering.Velocity = cp.Vector{}
	}
	_ = ecs.Remove(w, e, component.KnockbackComponent.Kind())
	_ = ecs.Remove(w, e, component.InvulnerableComponent.Kind())

	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetVelocityVector(cp.Vector{})
	}
	if pw := w.PhysicsWorld(); pw != nil {
		pw.DisableCollision(e)
	}
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{ExpiresAt: now + tuning.DespawnDelay})

	w.Events().PushCue(e, CueDied)
	combatLog.WithFields(logrus.Fields{
		"entity": e.String(),
		"health": health.Current,
	}).Info("agent died")
}
