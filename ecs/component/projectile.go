package component

import "github.com/jakecoffman/cp"

// Projectile is a spawned shot. Its own collision and damage logic belongs
// to collaborators; the core only creates it.
type Projectile struct {
	Owner    uint64
	Velocity cp.Vector
	Rotation float64
}

var ProjectileComponent = NewComponent[Projectile]()

// ProjectileSpawner creates projectile entities on request and returns an
// opaque handle the caller does not track.
type ProjectileSpawner interface {
	Spawn(position, velocity cp.Vector, rotation float64) (uint64, error)
}

// Armament binds an agent to the spawner its Shoot action fires through. A
// nil Spawner is a configuration error surfaced when the agent fires.
type Armament struct {
	Spawner ProjectileSpawner
}

var ArmamentComponent = NewComponent[Armament]()
