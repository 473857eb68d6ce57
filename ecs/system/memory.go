package system

import (
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
)

// MemorySystem folds the perception snapshot into each agent's memory.
type MemorySystem struct{}

func NewMemorySystem() *MemorySystem {
	return &MemorySystem{}
}

func (s *MemorySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()
	ecs.ForEach2(w, component.MemoryComponent.Kind(), component.PerceptionComponent.Kind(), func(e ecs.Entity, m *component.Memory, p *component.Perception) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.IsAlive() {
			return
		}
		tuning, ok := ecs.Get(w, e, component.HostileComponent.Kind())
		if !ok {
			return
		}
		m.Update(now, *p, tuning.ForgetAfter)
	})
}
