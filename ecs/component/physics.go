package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
type PhysicsBody struct {
	Body     *cp.Body
	Radius   float64
	Category uint
	Sensor   bool
	// Kinematic bodies are positioned externally and never receive
	// steering velocity.
	Kinematic bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
