package component

import "github.com/jakecoffman/cp"

// Knockbackable marks entities that may receive knockback from damage.
type Knockbackable struct{}

var KnockbackableComponent = NewComponent[Knockbackable]()

// Knockback overrides the entity's steering velocity until Until. It is
// added by the combat resolver and removed by the physics system once
// expired.
type Knockback struct {
	Velocity cp.Vector
	Until    float64
}

// Active reports whether the override applies at now.
func (k *Knockback) Active(now float64) bool {
	return k != nil && now < k.Until
}

var KnockbackComponent = NewComponent[Knockback]()
