package system

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/sirupsen/logrus"
)

// actionContext is what a task may read and write during one step.
type actionContext struct {
	w          *ecs.World
	e          ecs.Entity
	now        float64
	pos        cp.Vector
	tuning     *component.Hostile
	timers     *component.AITimers
	perception *component.Perception
	memory     *component.Memory
	target     *component.Target
	armament   *component.Armament
	log        *logrus.Entry
}

func (c *actionContext) cue(name string) {
	c.w.Events().PushCue(c.e, name)
}

// focus returns where the agent believes the target is: the live position
// when available, otherwise the last known one.
func (c *actionContext) focus() (cp.Vector, bool) {
	if pos, ok := targetPosition(c.target); ok {
		return pos, true
	}
	if c.memory != nil && c.memory.HasSeen {
		return c.memory.LastKnown, true
	}
	return cp.Vector{}, false
}

// actionTask is a cooperative action stepped once per tick. step returns the
// velocity the task wants for the agent.
type actionTask interface {
	component.ActionTask
	step(c *actionContext) cp.Vector
}

// taskBase carries the lifecycle shared by every task.
type taskBase struct {
	startedAt float64
	running   bool
	onCancel  func()
}

func (t *taskBase) Running() bool {
	return t != nil && t.running
}

func (t *taskBase) Cancel() {
	if t == nil || !t.running {
		return
	}
	t.running = false
	if t.onCancel != nil {
		t.onCancel()
	}
}

func (t *taskBase) finish() {
	t.running = false
}

// shootTask fires a burst. Shot i is due at startedAt + lead + i*delay, so
// the schedule does not drift with frame length. The agent stands still
// while a top-level burst runs; a nested burst moves with its retreat.
type shootTask struct {
	taskBase
	count int
	fired int
	lead  float64
	delay float64
}

func newShootTask(c *actionContext) *shootTask {
	t := &shootTask{
		taskBase: taskBase{startedAt: c.now, running: true},
		count:    c.tuning.BurstCount,
		lead:     c.tuning.BurstLeadTime,
		delay:    c.tuning.BurstDelay,
	}
	c.timers.StartShootCooldown(c.now, c.tuning.ShootCooldown)
	c.cue(CueShootStarted)
	if t.count <= 0 {
		t.finish()
	}
	return t
}

func (t *shootTask) State() component.BehaviorState {
	return component.StateShoot
}

func (t *shootTask) due(i int) float64 {
	return t.startedAt + t.lead + float64(i)*t.delay
}

func (t *shootTask) step(c *actionContext) cp.Vector {
	for t.running && t.fired < t.count && c.now >= t.due(t.fired) {
		if err := fire(c); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"entity": c.e.String(),
				"shot":   t.fired,
			}).Error("shot skipped")
		}
		t.fired++
	}
	if t.fired >= t.count {
		t.finish()
	}
	return cp.Vector{}
}

// fire spawns one projectile aimed at the live target.
func fire(c *actionContext) error {
	spawner := c.armament
	if spawner == nil || spawner.Spawner == nil {
		c.cue(CueMissingDependency)
		return fmt.Errorf("fire: projectile spawner: %w", ErrMissingDependency)
	}
	targetPos, ok := targetPosition(c.target)
	if !ok {
		return nil
	}
	dir, ok := direction(c.pos, targetPos)
	if !ok {
		dir = cp.Vector{X: 1}
	}
	velocity := dir.Mult(c.tuning.ProjectileSpeed)
	rotation := math.Atan2(dir.Y, dir.X)
	if _, err := spawner.Spawner.Spawn(c.pos, velocity, rotation); err != nil {
		return fmt.Errorf("fire: spawn projectile: %w", err)
	}
	c.cue(CueProjectileFired)
	return nil
}

// chargeTask dashes along the direction captured at start.
type chargeTask struct {
	taskBase
	dir      cp.Vector
	speed    float64
	duration float64
}

func newChargeTask(c *actionContext) *chargeTask {
	dir := cp.Vector{}
	if focus, ok := c.focus(); ok {
		dir, _ = direction(c.pos, focus)
	}
	t := &chargeTask{
		taskBase: taskBase{startedAt: c.now, running: true},
		dir:      dir,
		speed:    c.tuning.ChargeSpeed,
		duration: c.tuning.ChargeDuration,
	}
	w, e := c.w, c.e
	t.onCancel = func() { w.Events().PushCue(e, CueChargeEnded) }
	c.timers.StartChargeCooldown(c.now, c.tuning.ChargeCooldown)
	c.cue(CueChargeStarted)
	return t
}

func (t *chargeTask) State() component.BehaviorState {
	return component.StateCharge
}

func (t *chargeTask) step(c *actionContext) cp.Vector {
	if !t.running {
		return cp.Vector{}
	}
	if c.now-t.startedAt >= t.duration {
		t.finish()
		c.cue(CueChargeEnded)
		return cp.Vector{}
	}
	return t.dir.Mult(t.speed)
}

// retreatTask backs away from the target. The executor may nest a shoot
// task inside it.
type retreatTask struct {
	taskBase
	speed    float64
	duration float64
	away     cp.Vector
}

func newRetreatTask(c *actionContext) *retreatTask {
	t := &retreatTask{
		taskBase: taskBase{startedAt: c.now, running: true},
		speed:    c.tuning.RetreatSpeed,
		duration: c.tuning.RetreatDuration,
	}
	c.cue(CueRetreatStarted)
	return t
}

func (t *retreatTask) State() component.BehaviorState {
	return component.StateRetreat
}

func (t *retreatTask) step(c *actionContext) cp.Vector {
	if !t.running {
		return cp.Vector{}
	}
	if c.now-t.startedAt >= t.duration {
		t.finish()
		return cp.Vector{}
	}
	// keep the last heading while the target sits on top of the agent
	if focus, ok := c.focus(); ok {
		if dir, ok := direction(focus, c.pos); ok {
			t.away = dir
		}
	}
	return t.away.Mult(t.speed)
}
