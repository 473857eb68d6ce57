package system

import (
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
)

// TTLSystem destroys entities whose time to live has run out, removing
// their physics bodies first.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if now < ttl.ExpiresAt {
			return
		}
		if pw := w.PhysicsWorld(); pw != nil {
			pw.RemoveEntity(e)
		}
		ecs.DestroyEntity(w, e)
	})
}
