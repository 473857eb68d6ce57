package entity

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/ecs/system"
	"github.com/milk9111/hostile/prefabs"
)

var inf = math.Inf(1)

// Player is the target the agents hunt. Its movement is driven from
// outside the core, so its body is kinematic.
type Player struct {
	World  *ecs.World
	Entity ecs.Entity
}

func NewPlayer(w *ecs.World, spec prefabs.TargetSpec) (*Player, error) {
	if w == nil {
		return nil, fmt.Errorf("player: nil world")
	}
	entity := ecs.CreateEntity(w)
	pos := cp.Vector{X: spec.X, Y: spec.Y}

	if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return nil, fmt.Errorf("player: add player tag: %w", err)
	}
	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}); err != nil {
		return nil, fmt.Errorf("player: add transform: %w", err)
	}
	hp := spec.Health
	if hp <= 0 {
		hp = 100
	}
	if err := ecs.Add(w, entity, component.HealthComponent.Kind(), component.NewHealth(hp)); err != nil {
		return nil, fmt.Errorf("player: add health: %w", err)
	}
	var body *cp.Body
	if pw := w.PhysicsWorld(); pw != nil {
		body = pw.EnsureKinematicBody(entity, pos, spec.Radius, ecs.CategoryTarget, false)
	}
	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:      body,
		Radius:    spec.Radius,
		Category:  ecs.CategoryTarget,
		Kinematic: true,
	}); err != nil {
		return nil, fmt.Errorf("player: add physics body: %w", err)
	}

	return &Player{World: w, Entity: entity}, nil
}

// Locator returns the stable handle agents bind to at spawn.
func (p *Player) Locator() component.HostileTarget {
	return system.EntityLocator{World: p.World, Entity: p.Entity}
}

// MoveTo teleports the player.
func (p *Player) MoveTo(pos cp.Vector) {
	if p == nil {
		return
	}
	if pb, ok := ecs.Get(p.World, p.Entity, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetPosition(pos)
	}
	if t, ok := ecs.Get(p.World, p.Entity, component.TransformComponent.Kind()); ok {
		t.X, t.Y = pos.X, pos.Y
	}
}

func (p *Player) Position() (cp.Vector, bool) {
	return p.Locator().TargetPosition()
}
