package component

// Hostile is the tuning of a hostile agent. Distances are world units,
// speeds units per second and times seconds.
type Hostile struct {
	// Perception
	DetectionRange float64
	ObstacleMask   uint

	// Memory
	ForgetAfter   float64
	HitMemoryTime float64

	// Decision thresholds
	RetreatTriggerDistance float64
	ChargeRange            float64
	ChargeMemoryWindow     float64
	ShootRange             float64
	AlertedShootRange      float64

	// Steering
	PatrolEnabled           bool
	PatrolSpeed             float64
	PatrolWaitTime          float64
	PatrolArriveDistance    float64
	ChaseSpeed              float64
	InvestigateStopDistance float64

	// Shoot
	ShootCooldown   float64
	BurstCount      int
	BurstDelay      float64
	BurstLeadTime   float64
	ProjectileSpeed float64

	// Charge
	ChargeSpeed    float64
	ChargeDuration float64
	ChargeCooldown float64

	// Retreat
	RetreatSpeed    float64
	RetreatDuration float64

	// Combat
	KnockbackSpeed      float64
	KnockbackDuration   float64
	HitInvulnerableTime float64
	DespawnDelay        float64
}

var HostileComponent = NewComponent[Hostile]()
