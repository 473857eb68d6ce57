package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/logger"
	"github.com/sirupsen/logrus"
)

// ActionSystem executes the decided behavior of every agent: it starts,
// steps and cancels cooperative actions and writes the steering velocity
// for continuous behaviors.
type ActionSystem struct {
	log *logrus.Entry
}

func NewActionSystem() *ActionSystem {
	return &ActionSystem{log: logger.For("action")}
}

func (s *ActionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()

	ecs.ForEach2(w, component.AITagComponent.Kind(), component.AIStateComponent.Kind(), func(e ecs.Entity, _ *component.AITag, state *component.AIState) {
		slot, ok := ecs.Get(w, e, component.ActionSlotComponent.Kind())
		if !ok {
			return
		}
		steering, ok := ecs.Get(w, e, component.SteeringComponent.Kind())
		if !ok {
			return
		}
		if state.Current == component.StateDead {
			state.Pending = false
			slot.CancelAll()
			steering.Velocity = cp.Vector{}
			return
		}
		tuning, ok := ecs.Get(w, e, component.HostileComponent.Kind())
		if !ok {
			return
		}
		pos, ok := entityPosition(w, e)
		if !ok {
			return
		}

		c := &actionContext{w: w, e: e, now: now, pos: pos, tuning: tuning, log: s.log}
		c.timers, _ = ecs.Get(w, e, component.AITimersComponent.Kind())
		c.perception, _ = ecs.Get(w, e, component.PerceptionComponent.Kind())
		c.memory, _ = ecs.Get(w, e, component.MemoryComponent.Kind())
		c.target, _ = ecs.Get(w, e, component.TargetComponent.Kind())
		c.armament, _ = ecs.Get(w, e, component.ArmamentComponent.Kind())
		if c.timers == nil {
			c.timers = &component.AITimers{}
			_ = ecs.Add(w, e, component.AITimersComponent.Kind(), c.timers)
		}

		if !state.Current.IsAction() {
			state.Pending = false
			if slot.Current != nil || slot.Nested != nil {
				slot.CancelAll()
			}
			steering.Velocity = s.steer(c, state)
			return
		}

		// A task starts only when the decision selected it this frame; an
		// action cancelled since then stays down until the next decision.
		if state.Pending {
			state.Pending = false
			slot.Start(newTask(c, state.Current))
		}
		steering.Velocity = stepTask(c, slot.Current)

		if state.Current == component.StateRetreat {
			s.stepNested(c, slot)
		}
	})
}

func (s *ActionSystem) steer(c *actionContext, state *component.AIState) cp.Vector {
	switch state.Current {
	case component.StatePatrol:
		path, _ := ecs.Get(c.w, c.e, component.PatrolPathComponent.Kind())
		return patrolVelocity(c.now, c.pos, path, c.tuning)
	case component.StateChase:
		return chaseVelocity(c.pos, c.target, c.tuning)
	case component.StateInvestigate:
		return investigateVelocity(c.pos, c.memory, c.tuning)
	}
	return cp.Vector{}
}

// stepNested runs the shoot nested in a retreat. It starts one when the
// target is visible and the shot is off cooldown, and ends with the retreat.
func (s *ActionSystem) stepNested(c *actionContext, slot *component.ActionSlot) {
	if !slot.Running() {
		if slot.Nested != nil {
			slot.Nested.Cancel()
			slot.Nested = nil
		}
		return
	}
	nestedRunning := slot.Nested != nil && slot.Nested.Running()
	if !nestedRunning && c.perception != nil && c.perception.HasLineOfSight && c.timers.CanShoot(c.now) {
		slot.StartNested(newShootTask(c))
	}
	stepTask(c, slot.Nested)
}

func newTask(c *actionContext, state component.BehaviorState) actionTask {
	switch state {
	case component.StateShoot:
		return newShootTask(c)
	case component.StateCharge:
		return newChargeTask(c)
	case component.StateRetreat:
		return newRetreatTask(c)
	}
	return nil
}

func stepTask(c *actionContext, task component.ActionTask) cp.Vector {
	t, ok := task.(actionTask)
	if !ok || t == nil || !t.Running() {
		return cp.Vector{}
	}
	return t.step(c)
}
