package component

import "github.com/jakecoffman/cp"

// Perception is the per-tick snapshot of what the agent senses. Distance is
// +Inf when no target exists.
type Perception struct {
	Distance       float64
	HasLineOfSight bool
	TargetFound    bool
	TargetPosition cp.Vector
}

var PerceptionComponent = NewComponent[Perception]()
