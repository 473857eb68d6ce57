package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/ecs/system"
	"github.com/milk9111/hostile/prefabs"
)

// Hostile is the handle of a spawned agent. It is what combat
// collaborators hold: it accepts damage and answers read-only queries.
type Hostile struct {
	World  *ecs.World
	Entity ecs.Entity
}

var _ component.Damageable = (*Hostile)(nil)

// HostileOptions are the collaborators an agent is bound to at spawn.
type HostileOptions struct {
	Position cp.Vector
	Target   component.HostileTarget
	// Spawner fires the agent's projectiles. Leave nil and set NoSpawner
	// to build an agent without one.
	Spawner   component.ProjectileSpawner
	NoSpawner bool
}

// NewHostile builds an agent from a prefab spec.
func NewHostile(w *ecs.World, spec *prefabs.HostileSpec, opts HostileOptions) (*Hostile, error) {
	if w == nil {
		return nil, fmt.Errorf("hostile: nil world")
	}
	if spec == nil {
		def := prefabs.DefaultHostileSpec()
		spec = &def
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("hostile: %w", err)
	}

	entity := ecs.CreateEntity(w)
	now := w.Now()

	if err := ecs.Add(w, entity, component.AITagComponent.Kind(), &component.AITag{}); err != nil {
		return nil, fmt.Errorf("hostile: add ai tag: %w", err)
	}
	tuning := TuningFromSpec(spec)
	if err := ecs.Add(w, entity, component.HostileComponent.Kind(), &tuning); err != nil {
		return nil, fmt.Errorf("hostile: add tuning: %w", err)
	}

	initial := component.StatePatrol
	if !spec.Patrol.Enabled {
		initial = component.StateInvestigate
	}
	if err := ecs.Add(w, entity, component.AIStateComponent.Kind(), &component.AIState{Current: initial, Previous: initial, EnteredAt: now}); err != nil {
		return nil, fmt.Errorf("hostile: add ai state: %w", err)
	}
	if err := ecs.Add(w, entity, component.PerceptionComponent.Kind(), &component.Perception{Distance: inf}); err != nil {
		return nil, fmt.Errorf("hostile: add perception: %w", err)
	}
	if err := ecs.Add(w, entity, component.MemoryComponent.Kind(), &component.Memory{}); err != nil {
		return nil, fmt.Errorf("hostile: add memory: %w", err)
	}
	if err := ecs.Add(w, entity, component.AITimersComponent.Kind(), &component.AITimers{NextShootAt: now, NextChargeAt: now}); err != nil {
		return nil, fmt.Errorf("hostile: add timers: %w", err)
	}
	if err := ecs.Add(w, entity, component.ActionSlotComponent.Kind(), &component.ActionSlot{}); err != nil {
		return nil, fmt.Errorf("hostile: add action slot: %w", err)
	}
	if err := ecs.Add(w, entity, component.SteeringComponent.Kind(), &component.Steering{}); err != nil {
		return nil, fmt.Errorf("hostile: add steering: %w", err)
	}
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), component.NewHealth(spec.Health)); err != nil {
		return nil, fmt.Errorf("hostile: add health: %w", err)
	}
	if err := ecs.Add(w, entity, component.KnockbackableComponent.Kind(), &component.Knockbackable{}); err != nil {
		return nil, fmt.Errorf("hostile: add knockbackable: %w", err)
	}

	if spec.Patrol.Enabled {
		if err := ecs.Add(w, entity, component.PatrolPathComponent.Kind(), &component.PatrolPath{
			Origin: opts.Position,
			Waypoints: [2]cp.Vector{
				{X: spec.Patrol.Waypoints[0].X, Y: spec.Patrol.Waypoints[0].Y},
				{X: spec.Patrol.Waypoints[1].X, Y: spec.Patrol.Waypoints[1].Y},
			},
		}); err != nil {
			return nil, fmt.Errorf("hostile: add patrol path: %w", err)
		}
	}

	if err := ecs.Add(w, entity, component.TargetComponent.Kind(), &component.Target{Locator: opts.Target}); err != nil {
		return nil, fmt.Errorf("hostile: add target: %w", err)
	}

	spawner := opts.Spawner
	if spawner == nil && !opts.NoSpawner {
		def := system.NewProjectileSpawner(w)
		if spec.Shoot.ProjectileLifetime > 0 {
			def.Lifetime = spec.Shoot.ProjectileLifetime
		}
		spawner = def
	}
	if err := ecs.Add(w, entity, component.ArmamentComponent.Kind(), &component.Armament{Spawner: spawner}); err != nil {
		return nil, fmt.Errorf("hostile: add armament: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{X: opts.Position.X, Y: opts.Position.Y}); err != nil {
		return nil, fmt.Errorf("hostile: add transform: %w", err)
	}
	var body *cp.Body
	if pw := w.PhysicsWorld(); pw != nil {
		body = pw.EnsureBody(entity, opts.Position, spec.Radius, ecs.CategoryAgent, false)
	}
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:     body,
		Radius:   spec.Radius,
		Category: ecs.CategoryAgent,
	}); err != nil {
		return nil, fmt.Errorf("hostile: add physics body: %w", err)
	}

	return &Hostile{World: w, Entity: entity}, nil
}

// TuningFromSpec converts a prefab to the tuning component.
func TuningFromSpec(spec *prefabs.HostileSpec) component.Hostile {
	return component.Hostile{
		DetectionRange: spec.DetectionRange,
		ObstacleMask:   ecs.CategoryObstacle,

		ForgetAfter:   spec.ForgetAfter,
		HitMemoryTime: spec.HitMemoryTime,

		RetreatTriggerDistance: spec.Retreat.TriggerDistance,
		ChargeRange:            spec.Charge.Range,
		ChargeMemoryWindow:     spec.Charge.MemoryWindow,
		ShootRange:             spec.ShootRange,
		AlertedShootRange:      spec.AlertedShootRange,

		PatrolEnabled:           spec.Patrol.Enabled,
		PatrolSpeed:             spec.Patrol.Speed,
		PatrolWaitTime:          spec.Patrol.WaitTime,
		PatrolArriveDistance:    spec.Patrol.ArriveDistance,
		ChaseSpeed:              spec.ChaseSpeed,
		InvestigateStopDistance: spec.InvestigateStopDistance,

		ShootCooldown:   spec.Shoot.Cooldown,
		BurstCount:      spec.Shoot.BurstCount,
		BurstDelay:      spec.Shoot.BurstDelay,
		BurstLeadTime:   spec.Shoot.BurstLeadTime,
		ProjectileSpeed: spec.Shoot.ProjectileSpeed,

		ChargeSpeed:    spec.Charge.Speed,
		ChargeDuration: spec.Charge.Duration,
		ChargeCooldown: spec.Charge.Cooldown,

		RetreatSpeed:    spec.Retreat.Speed,
		RetreatDuration: spec.Retreat.Duration,

		KnockbackSpeed:      spec.Combat.KnockbackSpeed,
		KnockbackDuration:   spec.Combat.KnockbackDuration,
		HitInvulnerableTime: spec.Combat.HitInvulnerableTime,
		DespawnDelay:        spec.Combat.DespawnDelay,
	}
}

// ApplyTuning replaces the agent's tuning in place, keeping its state,
// memory and timers. Used by prefab hot reload.
func (h *Hostile) ApplyTuning(spec *prefabs.HostileSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("hostile: %w", err)
	}
	tuning, ok := ecs.Get(h.World, h.Entity, component.HostileComponent.Kind())
	if !ok {
		return fmt.Errorf("hostile: apply tuning: %w", component.ErrEntityNotAlive)
	}
	*tuning = TuningFromSpec(spec)
	return nil
}

// TakeDamage delivers an attack from source at the current world time.
func (h *Hostile) TakeDamage(amount int, source cp.Vector) {
	if h == nil {
		return
	}
	system.ApplyDamage(h.World, h.Entity, amount, source)
}

// Health returns current and max health. A despawned agent reports zero.
func (h *Hostile) Health() (current, max int) {
	if h == nil {
		return 0, 0
	}
	hp, ok := ecs.Get(h.World, h.Entity, component.HealthComponent.Kind())
	if !ok {
		return 0, 0
	}
	return hp.Current, hp.Max
}

// State returns the current behavior. A despawned agent reports Dead.
func (h *Hostile) State() component.BehaviorState {
	if h == nil {
		return component.StateDead
	}
	state, ok := ecs.Get(h.World, h.Entity, component.AIStateComponent.Kind())
	if !ok {
		return component.StateDead
	}
	return state.Current
}

// Alive reports whether the agent exists and has not died.
func (h *Hostile) Alive() bool {
	if h == nil {
		return false
	}
	hp, ok := ecs.Get(h.World, h.Entity, component.HealthComponent.Kind())
	return ok && hp.IsAlive()
}

// Position returns the agent's world position.
func (h *Hostile) Position() (cp.Vector, bool) {
	if h == nil {
		return cp.Vector{}, false
	}
	return system.EntityLocator{World: h.World, Entity: h.Entity}.TargetPosition()
}
