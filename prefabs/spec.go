package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every validation error.
var ErrInvalidTuning = errors.New("prefabs: invalid tuning")

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := loadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// loadInto unmarshals over the existing value so unset keys keep defaults.
func loadInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type VecSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PatrolSpec struct {
	Enabled        bool       `yaml:"enabled"`
	Speed          float64    `yaml:"speed"`
	WaitTime       float64    `yaml:"wait_time"`
	ArriveDistance float64    `yaml:"arrive_distance"`
	Waypoints      [2]VecSpec `yaml:"waypoints"`
}

type ShootSpec struct {
	Cooldown           float64 `yaml:"cooldown"`
	BurstCount         int     `yaml:"burst_count"`
	BurstDelay         float64 `yaml:"burst_delay"`
	BurstLeadTime      float64 `yaml:"burst_lead_time"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
}

type ChargeSpec struct {
	Speed        float64 `yaml:"speed"`
	Duration     float64 `yaml:"duration"`
	Cooldown     float64 `yaml:"cooldown"`
	Range        float64 `yaml:"range"`
	MemoryWindow float64 `yaml:"memory_window"`
}

type RetreatSpec struct {
	Speed           float64 `yaml:"speed"`
	Duration        float64 `yaml:"duration"`
	TriggerDistance float64 `yaml:"trigger_distance"`
}

type CombatSpec struct {
	KnockbackSpeed      float64 `yaml:"knockback_speed"`
	KnockbackDuration   float64 `yaml:"knockback_duration"`
	HitInvulnerableTime float64 `yaml:"hit_invulnerable_time"`
	DespawnDelay        float64 `yaml:"despawn_delay"`
}

// HostileSpec is the prefab of a hostile agent.
type HostileSpec struct {
	Name   string  `yaml:"name"`
	Health int     `yaml:"health"`
	Radius float64 `yaml:"radius"`

	DetectionRange          float64 `yaml:"detection_range"`
	ForgetAfter             float64 `yaml:"forget_after"`
	HitMemoryTime           float64 `yaml:"hit_memory_time"`
	ShootRange              float64 `yaml:"shoot_range"`
	AlertedShootRange       float64 `yaml:"alerted_shoot_range"`
	ChaseSpeed              float64 `yaml:"chase_speed"`
	InvestigateStopDistance float64 `yaml:"investigate_stop_distance"`

	Patrol  PatrolSpec  `yaml:"patrol"`
	Shoot   ShootSpec   `yaml:"shoot"`
	Charge  ChargeSpec  `yaml:"charge"`
	Retreat RetreatSpec `yaml:"retreat"`
	Combat  CombatSpec  `yaml:"combat"`

	CueScript string `yaml:"cue_script"`
}

// DefaultHostileSpec is the tuning used for keys a prefab leaves out.
func DefaultHostileSpec() HostileSpec {
	return HostileSpec{
		Name:                    "hostile",
		Health:                  30,
		Radius:                  10,
		DetectionRange:          320,
		ForgetAfter:             6,
		HitMemoryTime:           2,
		ShootRange:              220,
		AlertedShootRange:       280,
		ChaseSpeed:              90,
		InvestigateStopDistance: 12,
		Patrol: PatrolSpec{
			Enabled:        true,
			Speed:          50,
			WaitTime:       1.5,
			ArriveDistance: 4,
			Waypoints:      [2]VecSpec{{X: -60}, {X: 60}},
		},
		Shoot: ShootSpec{
			Cooldown:           2,
			BurstCount:         2,
			BurstDelay:         0.3,
			BurstLeadTime:      0.1,
			ProjectileSpeed:    260,
			ProjectileLifetime: 3,
		},
		Charge: ChargeSpec{
			Speed:        320,
			Duration:     0.45,
			Cooldown:     4,
			Range:        60,
			MemoryWindow: 1,
		},
		Retreat: RetreatSpec{
			Speed:           120,
			Duration:        0.8,
			TriggerDistance: 64,
		},
		Combat: CombatSpec{
			KnockbackSpeed:      220,
			KnockbackDuration:   0.15,
			HitInvulnerableTime: 0.4,
			DespawnDelay:        1.5,
		},
		CueScript: "hostile_cues.tengo",
	}
}

// LoadHostileSpec loads a hostile prefab over the defaults and validates it.
func LoadHostileSpec(name string) (*HostileSpec, error) {
	spec := DefaultHostileSpec()
	if err := loadInto(name, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// Validate reports every tuning value out of range.
func (s *HostileSpec) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
		}
	}
	check(s.Health > 0, "health must be positive, got %d", s.Health)
	check(s.Radius > 0, "radius must be positive, got %g", s.Radius)
	check(s.DetectionRange >= 0, "detection_range must not be negative")
	check(s.ForgetAfter > 0, "forget_after must be positive, got %g", s.ForgetAfter)
	check(s.HitMemoryTime >= 0, "hit_memory_time must not be negative")
	check(s.AlertedShootRange >= s.ShootRange, "alerted_shoot_range %g is below shoot_range %g", s.AlertedShootRange, s.ShootRange)
	check(s.Shoot.BurstCount >= 0, "shoot.burst_count must not be negative")
	check(s.Shoot.BurstDelay >= 0 && s.Shoot.BurstLeadTime >= 0, "shoot burst timing must not be negative")
	check(s.Shoot.Cooldown >= 0, "shoot.cooldown must not be negative")
	check(s.Charge.Duration >= 0 && s.Charge.Cooldown >= 0, "charge timing must not be negative")
	check(s.Retreat.Duration >= 0, "retreat.duration must not be negative")
	check(s.Combat.KnockbackDuration >= 0 && s.Combat.HitInvulnerableTime >= 0 && s.Combat.DespawnDelay >= 0, "combat timing must not be negative")
	return errors.Join(errs...)
}

type ObstacleSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type TargetSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Health int     `yaml:"health"`
}

type SpawnSpec struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// ArenaEventSpec is a scripted event of a headless run. Kind is
// "move_target" (to X, Y) or "damage" (Amount to hostile Hostile, sourced
// from the target).
type ArenaEventSpec struct {
	At      float64 `yaml:"at"`
	Kind    string  `yaml:"kind"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Hostile int     `yaml:"hostile"`
	Amount  int     `yaml:"amount"`
}

// ArenaSpec lays out a test arena.
type ArenaSpec struct {
	Name      string           `yaml:"name"`
	Width     float64          `yaml:"width"`
	Height    float64          `yaml:"height"`
	Step      float64          `yaml:"step"`
	Duration  float64          `yaml:"duration"`
	Obstacles []ObstacleSpec   `yaml:"obstacles"`
	Target    TargetSpec       `yaml:"target"`
	Hostiles  []SpawnSpec      `yaml:"hostiles"`
	Events    []ArenaEventSpec `yaml:"events"`
}

func LoadArenaSpec(name string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("prefabs: %s: %w: arena size %gx%g", name, ErrInvalidTuning, spec.Width, spec.Height)
	}
	if spec.Step <= 0 {
		spec.Step = 1.0 / 60.0
	}
	for i := range spec.Hostiles {
		if spec.Hostiles[i].Prefab == "" {
			spec.Hostiles[i].Prefab = "hostile.yaml"
		}
	}
	return &spec, nil
}
