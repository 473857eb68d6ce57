package component

import "github.com/jakecoffman/cp"

// Steering is the velocity an entity's own controller wants this step. The
// physics system writes it to the body unless a knockback is active.
type Steering struct {
	Velocity cp.Vector
}

var SteeringComponent = NewComponent[Steering]()
