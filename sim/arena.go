// Package sim runs hostile agents in an arena without a window. It is the
// frame loop used by tests, the headless command and the debug viewer.
package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/ecs/entity"
	"github.com/milk9111/hostile/ecs/system"
	"github.com/milk9111/hostile/logger"
	"github.com/milk9111/hostile/prefabs"
	"github.com/sirupsen/logrus"
)

// Transition is a recorded behavior change of one hostile.
type Transition struct {
	At      float64
	Hostile int
	From    component.BehaviorState
	To      component.BehaviorState
}

func (t Transition) String() string {
	return fmt.Sprintf("%7.3fs hostile#%d %s -> %s", t.At, t.Hostile, t.From, t.To)
}

// Arena is a world built from an arena prefab.
type Arena struct {
	Spec      *prefabs.ArenaSpec
	World     *ecs.World
	Scheduler *ecs.Scheduler
	Player    *entity.Player
	Hostiles  []*entity.Hostile
	Obstacles []cp.BB

	prefabOf    []string
	pending     []prefabs.ArenaEventSpec
	last        []component.BehaviorState
	transitions []Transition
	cues        *system.CueSystem
	script      *system.CueScript
	scriptName  string
	log         *logrus.Entry
}

type options struct {
	sinks     []system.CueSink
	cueScript bool
}

type Option func(*options)

// WithCueSink adds a sink receiving every cue.
func WithCueSink(sink system.CueSink) Option {
	return func(o *options) { o.sinks = append(o.sinks, sink) }
}

// WithoutCueScript skips loading the hostiles' cue script.
func WithoutCueScript() Option {
	return func(o *options) { o.cueScript = false }
}

// LoadArena builds an arena from a prefab file.
func LoadArena(name string, opts ...Option) (*Arena, error) {
	spec, err := prefabs.LoadArenaSpec(name)
	if err != nil {
		return nil, err
	}
	return NewArena(spec, opts...)
}

func NewArena(spec *prefabs.ArenaSpec, opts ...Option) (*Arena, error) {
	if spec == nil {
		return nil, errors.New("sim: nil arena spec")
	}
	o := options{cueScript: true}
	for _, opt := range opts {
		opt(&o)
	}

	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld(cp.Vector{}, spec.Step)
	w.SetPhysicsWorld(pw)
	pw.AddBounds(spec.Width, spec.Height)

	a := &Arena{
		Spec:  spec,
		World: w,
		log:   logger.For("arena").WithField("arena", spec.Name),
	}

	for _, ob := range spec.Obstacles {
		bb := cp.BB{L: ob.X, B: ob.Y, R: ob.X + ob.W, T: ob.Y + ob.H}
		pw.AddObstacle(bb)
		a.Obstacles = append(a.Obstacles, bb)
	}

	player, err := entity.NewPlayer(w, spec.Target)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	a.Player = player

	var script string
	for i, spawn := range spec.Hostiles {
		hs, err := prefabs.LoadHostileSpec(spawn.Prefab)
		if err != nil {
			return nil, fmt.Errorf("sim: hostile #%d: %w", i, err)
		}
		h, err := entity.NewHostile(w, hs, entity.HostileOptions{
			Position: cp.Vector{X: spawn.X, Y: spawn.Y},
			Target:   player.Locator(),
		})
		if err != nil {
			return nil, fmt.Errorf("sim: hostile #%d: %w", i, err)
		}
		a.Hostiles = append(a.Hostiles, h)
		a.prefabOf = append(a.prefabOf, spawn.Prefab)
		a.last = append(a.last, h.State())
		if script == "" {
			script = hs.CueScript
		}
	}

	a.cues = system.NewCueSystem(system.NewLogCueSink())
	for _, sink := range o.sinks {
		a.cues.AddSink(sink)
	}
	if o.cueScript && script != "" {
		cs, err := system.LoadCueScript(script, nil)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		a.cues.AddSink(cs)
		a.script, a.scriptName = cs, script
	}

	a.Scheduler = ecs.NewScheduler(
		system.NewPerceptionSystem(nil),
		system.NewMemorySystem(),
		system.NewDecisionSystem(),
		system.NewActionSystem(),
		system.NewPhysicsSystem(),
		system.NewTTLSystem(),
		a.cues,
	)

	a.pending = append(a.pending, spec.Events...)
	sort.SliceStable(a.pending, func(i, j int) bool { return a.pending[i].At < a.pending[j].At })
	return a, nil
}

// Now returns the arena time in seconds.
func (a *Arena) Now() float64 {
	return a.World.Now()
}

// Step applies scripted events that are due and runs one frame.
func (a *Arena) Step(dt float64) {
	for len(a.pending) > 0 && a.pending[0].At <= a.Now() {
		a.apply(a.pending[0])
		a.pending = a.pending[1:]
	}
	a.Scheduler.Step(a.World, dt)
	a.record()
}

// Run steps the arena at its configured rate until duration has elapsed.
func (a *Arena) Run(duration float64) {
	end := a.Now() + duration
	for a.Now() < end {
		a.Step(a.Spec.Step)
	}
}

// Transitions returns every behavior change recorded so far.
func (a *Arena) Transitions() []Transition {
	return append([]Transition(nil), a.transitions...)
}

// Damage hits hostile i with damage sourced at the player.
func (a *Arena) Damage(i, amount int) error {
	if i < 0 || i >= len(a.Hostiles) {
		return fmt.Errorf("sim: no hostile #%d", i)
	}
	source, ok := a.Player.Position()
	if !ok {
		source, _ = a.Hostiles[i].Position()
	}
	a.Hostiles[i].TakeDamage(amount, source)
	return nil
}

// ReloadPrefab re-applies a changed hostile prefab to the agents built from
// it.
func (a *Arena) ReloadPrefab(name string) error {
	var spec *prefabs.HostileSpec
	for i, prefab := range a.prefabOf {
		if prefab != name || !a.Hostiles[i].Alive() {
			continue
		}
		if spec == nil {
			s, err := prefabs.LoadHostileSpec(name)
			if err != nil {
				return fmt.Errorf("sim: reload: %w", err)
			}
			spec = s
		}
		if err := a.Hostiles[i].ApplyTuning(spec); err != nil {
			return fmt.Errorf("sim: reload hostile #%d: %w", i, err)
		}
	}
	if spec != nil {
		a.log.WithField("prefab", name).Info("tuning reloaded")
	}
	return nil
}

// ReloadScript recompiles the cue script if name is the one in use. A
// script that fails to compile leaves the running one in place.
func (a *Arena) ReloadScript(name string) error {
	if a.script == nil || name != a.scriptName {
		return nil
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return fmt.Errorf("sim: reload script: %w", err)
	}
	if err := a.script.Reload(src); err != nil {
		return fmt.Errorf("sim: reload script: %w", err)
	}
	a.log.WithField("script", name).Info("cue script reloaded")
	return nil
}

func (a *Arena) apply(evt prefabs.ArenaEventSpec) {
	switch evt.Kind {
	case "move_target":
		a.Player.MoveTo(cp.Vector{X: evt.X, Y: evt.Y})
	case "damage":
		if err := a.Damage(evt.Hostile, evt.Amount); err != nil {
			a.log.WithError(err).Warn("scripted damage skipped")
		}
	default:
		a.log.WithField("kind", evt.Kind).Warn("unknown arena event")
	}
}

func (a *Arena) record() {
	for i, h := range a.Hostiles {
		state := h.State()
		if state == a.last[i] {
			continue
		}
		a.transitions = append(a.transitions, Transition{At: a.Now(), Hostile: i, From: a.last[i], To: state})
		a.last[i] = state
	}
}
