package system

import (
	"math"

	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/logger"
	"github.com/sirupsen/logrus"
)

// defaultChargeMemoryWindow is how recent a sighting must be for a charge
// without line of sight when the tuning leaves it unset.
const defaultChargeMemoryWindow = 1.0

// Decide selects the next behavior. Rules are checked in priority order and
// the first satisfied one wins. It has no side effects.
func Decide(now float64, p component.Perception, m component.Memory, t component.AITimers, h component.Health, current component.BehaviorState, tuning *component.Hostile) component.BehaviorState {
	if h.Dead || current == component.StateDead {
		return component.StateDead
	}
	if tuning == nil {
		return component.StateInvestigate
	}

	if t.SinceHit(now) <= tuning.HitMemoryTime &&
		p.Distance <= tuning.RetreatTriggerDistance &&
		current != component.StateCharge {
		return component.StateRetreat
	}

	window := tuning.ChargeMemoryWindow
	if window <= 0 {
		window = defaultChargeMemoryWindow
	}
	if p.Distance <= tuning.ChargeRange &&
		t.CanCharge(now) &&
		(p.HasLineOfSight || (m.Alerted && m.SinceSeen(now) < window)) &&
		current != component.StateRetreat {
		return component.StateCharge
	}

	if p.HasLineOfSight &&
		t.CanShoot(now) &&
		(p.Distance <= tuning.ShootRange || (m.Alerted && p.Distance <= tuning.AlertedShootRange)) &&
		current != component.StateCharge {
		return component.StateShoot
	}

	if p.HasLineOfSight {
		return component.StateChase
	}
	if m.Alerted {
		return component.StateInvestigate
	}
	if tuning.PatrolEnabled {
		return component.StatePatrol
	}
	return component.StateInvestigate
}

// priority ranks states for preemption; lower wins.
func priority(s component.BehaviorState) int {
	switch s {
	case component.StateDead:
		return -1
	case component.StateRetreat:
		return 0
	case component.StateCharge:
		return 1
	case component.StateShoot:
		return 2
	case component.StateChase:
		return 3
	case component.StateInvestigate:
		return 4
	default:
		return 5
	}
}

// DecisionSystem runs Decide for every agent and records transitions. A
// running action keeps its state until it ends or a strictly higher
// priority behavior is selected.
type DecisionSystem struct {
	log *logrus.Entry
}

func NewDecisionSystem() *DecisionSystem {
	return &DecisionSystem{log: logger.For("decision")}
}

func (s *DecisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()

	ecs.ForEach2(w, component.AITagComponent.Kind(), component.AIStateComponent.Kind(), func(e ecs.Entity, _ *component.AITag, state *component.AIState) {
		if state.Current == component.StateDead {
			return
		}
		tuning, ok := ecs.Get(w, e, component.HostileComponent.Kind())
		if !ok {
			return
		}
		var (
			p      = component.Perception{Distance: math.Inf(1)}
			m      component.Memory
			timers component.AITimers
			health component.Health
		)
		if v, ok := ecs.Get(w, e, component.PerceptionComponent.Kind()); ok {
			p = *v
		}
		if v, ok := ecs.Get(w, e, component.MemoryComponent.Kind()); ok {
			m = *v
		}
		if v, ok := ecs.Get(w, e, component.AITimersComponent.Kind()); ok {
			timers = *v
		}
		if v, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			health = *v
		}

		next := Decide(now, p, m, timers, health, state.Current, tuning)
		running, isRunning := component.BehaviorState(0), false
		if slot, ok := ecs.Get(w, e, component.ActionSlotComponent.Kind()); ok {
			running, isRunning = slot.RunningState()
		}
		if isRunning && priority(next) >= priority(running) {
			next = running
		}
		state.Pending = next.IsAction() && !(isRunning && running == next)
		state.Idle = next == component.StateInvestigate && !m.Alerted

		if next == state.Current && !state.Entered {
			state.Entered = true
			announce(w, e, next)
			return
		}
		if next == state.Current {
			return
		}

		s.log.WithFields(logrus.Fields{
			"entity": e.String(),
			"from":   state.Current.String(),
			"to":     next.String(),
		}).Debug("transition")

		state.Previous = state.Current
		state.Current = next
		state.EnteredAt = now
		state.Entered = true
		announce(w, e, next)
	})
}

// announce pushes the cue for entering a steering state. Action states cue
// from their task when it starts.
func announce(w *ecs.World, e ecs.Entity, state component.BehaviorState) {
	switch state {
	case component.StatePatrol:
		w.Events().PushCue(e, CuePatrolStarted)
	case component.StateChase:
		w.Events().PushCue(e, CueChaseStarted)
	case component.StateInvestigate:
		w.Events().PushCue(e, CueInvestigateStarted)
	}
}
