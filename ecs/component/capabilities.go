package component

import "github.com/jakecoffman/cp"

// Damageable is implemented by anything that accepts attacks: weapon
// hitboxes, hazards and explosions deliver damage through it.
type Damageable interface {
	TakeDamage(amount int, source cp.Vector)
}

// HostileTarget is implemented by anything an agent can hunt. ok is false
// when the target is absent.
type HostileTarget interface {
	TargetPosition() (pos cp.Vector, ok bool)
}

// Target binds an agent to the target it hunts. The binding is made once at
// construction and never re-resolved.
type Target struct {
	Locator HostileTarget
}

var TargetComponent = NewComponent[Target]()
