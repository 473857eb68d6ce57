package system

import (
	"math"
	"os"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs"
	"github.com/milk9111/hostile/ecs/component"
	"github.com/milk9111/hostile/logger"
	"github.com/stretchr/testify/require"
)

// frame is a step length that is exact in binary so accumulated time has no
// rounding error.
const frame = 1.0 / 64.0

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func testTuning() *component.Hostile {
	return &component.Hostile{
		DetectionRange: 8,
		ObstacleMask:   ecs.CategoryObstacle,

		ForgetAfter:   6,
		HitMemoryTime: 2,

		RetreatTriggerDistance: 3.2,
		ChargeRange:            3,
		ChargeMemoryWindow:     1,
		ShootRange:             6,
		AlertedShootRange:      8,

		PatrolEnabled:           true,
		PatrolSpeed:             1,
		PatrolWaitTime:          0.5,
		PatrolArriveDistance:    0.1,
		ChaseSpeed:              2,
		InvestigateStopDistance: 0.5,

		ShootCooldown:   2,
		BurstCount:      2,
		BurstDelay:      0.3,
		BurstLeadTime:   0.1,
		ProjectileSpeed: 10,

		ChargeSpeed:    6,
		ChargeDuration: 0.5,
		ChargeCooldown: 4,

		RetreatSpeed:    3,
		RetreatDuration: 1,

		KnockbackSpeed:      5,
		KnockbackDuration:   0.2,
		HitInvulnerableTime: 0.4,
		DespawnDelay:        1,
	}
}

// fixedTarget is a target whose position the test sets directly.
type fixedTarget struct {
	pos     cp.Vector
	present bool
}

func (f *fixedTarget) TargetPosition() (cp.Vector, bool) {
	return f.pos, f.present
}

type spawnCall struct {
	at       float64
	position cp.Vector
	velocity cp.Vector
	rotation float64
}

type recordingSpawner struct {
	w     *ecs.World
	calls []spawnCall
}

func (s *recordingSpawner) Spawn(position, velocity cp.Vector, rotation float64) (uint64, error) {
	s.calls = append(s.calls, spawnCall{at: s.w.Now(), position: position, velocity: velocity, rotation: rotation})
	return uint64(len(s.calls)), nil
}

type agentFixture struct {
	w       *ecs.World
	e       ecs.Entity
	target  *fixedTarget
	spawner *recordingSpawner
	sched   *ecs.Scheduler
	cues    []string
}

// newAgent builds an agent at pos hunting a target at targetPos, on a world
// without a physics service.
func newAgent(t *testing.T, tuning *component.Hostile, pos, targetPos cp.Vector, hp int) *agentFixture {
	t.Helper()
	w := ecs.NewWorld()
	f := &agentFixture{
		w:       w,
		e:       ecs.CreateEntity(w),
		target:  &fixedTarget{pos: targetPos, present: true},
		spawner: &recordingSpawner{w: w},
	}
	initial := component.StatePatrol
	if !tuning.PatrolEnabled {
		initial = component.StateInvestigate
	}
	e := f.e
	require.NoError(t, ecs.Add(w, e, component.AITagComponent.Kind(), &component.AITag{}))
	require.NoError(t, ecs.Add(w, e, component.HostileComponent.Kind(), tuning))
	require.NoError(t, ecs.Add(w, e, component.AIStateComponent.Kind(), &component.AIState{Current: initial, Previous: initial}))
	require.NoError(t, ecs.Add(w, e, component.PerceptionComponent.Kind(), &component.Perception{Distance: math.Inf(1)}))
	require.NoError(t, ecs.Add(w, e, component.MemoryComponent.Kind(), &component.Memory{}))
	require.NoError(t, ecs.Add(w, e, component.AITimersComponent.Kind(), &component.AITimers{}))
	require.NoError(t, ecs.Add(w, e, component.ActionSlotComponent.Kind(), &component.ActionSlot{}))
	require.NoError(t, ecs.Add(w, e, component.SteeringComponent.Kind(), &component.Steering{}))
	require.NoError(t, ecs.Add(w, e, component.HealthComponent.Kind(), component.NewHealth(hp)))
	require.NoError(t, ecs.Add(w, e, component.KnockbackableComponent.Kind(), &component.Knockbackable{}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: pos.X, Y: pos.Y}))
	require.NoError(t, ecs.Add(w, e, component.TargetComponent.Kind(), &component.Target{Locator: f.target}))
	require.NoError(t, ecs.Add(w, e, component.ArmamentComponent.Kind(), &component.Armament{Spawner: f.spawner}))
	require.NoError(t, ecs.Add(w, e, component.PatrolPathComponent.Kind(), &component.PatrolPath{
		Origin:    pos,
		Waypoints: [2]cp.Vector{{X: -1}, {X: 1}},
	}))

	f.sched = ecs.NewScheduler(
		NewPerceptionSystem(nil),
		NewMemorySystem(),
		NewDecisionSystem(),
		NewActionSystem(),
		NewPhysicsSystem(),
		NewTTLSystem(),
		NewCueSystem(CueSinkFunc(func(_ ecs.Entity, name string) {
			f.cues = append(f.cues, name)
		})),
	)
	return f
}

// run steps the world until now reaches until, calling each after every
// frame.
func (f *agentFixture) run(until float64, each func()) {
	for f.w.Now() < until {
		f.sched.Step(f.w, frame)
		if each != nil {
			each()
		}
	}
}

func (f *agentFixture) state() component.BehaviorState {
	s, ok := ecs.Get(f.w, f.e, component.AIStateComponent.Kind())
	if !ok {
		return component.StateDead
	}
	return s.Current
}

func (f *agentFixture) health() *component.Health {
	h, _ := ecs.Get(f.w, f.e, component.HealthComponent.Kind())
	return h
}

func (f *agentFixture) timers() *component.AITimers {
	v, _ := ecs.Get(f.w, f.e, component.AITimersComponent.Kind())
	return v
}

func (f *agentFixture) slot() *component.ActionSlot {
	v, _ := ecs.Get(f.w, f.e, component.ActionSlotComponent.Kind())
	return v
}

func (f *agentFixture) steering() *component.Steering {
	v, _ := ecs.Get(f.w, f.e, component.SteeringComponent.Kind())
	return v
}

func (f *agentFixture) position() cp.Vector {
	pos, _ := entityPosition(f.w, f.e)
	return pos
}

func countCue(cues []string, name string) int {
	n := 0
	for _, c := range cues {
		if c == name {
			n++
		}
	}
	return n
}
