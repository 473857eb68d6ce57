package component

// Transform mirrors the physics body position for entities that have one,
// and is the position of record for entities that do not.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
