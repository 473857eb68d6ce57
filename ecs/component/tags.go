package component

// PlayerTag marks the live target entity the hostiles hunt.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// AITag marks a hostile agent.
type AITag struct{}

var AITagComponent = NewComponent[AITag]()

// ObstacleTag marks an entity whose shape blocks line of sight.
type ObstacleTag struct{}

var ObstacleTagComponent = NewComponent[ObstacleTag]()
