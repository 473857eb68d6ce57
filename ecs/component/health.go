package component

// Health tracks hit points. Current may go below zero; Dead is the flag of
// record and never clears.
type Health struct {
	Max     int
	Current int
	Dead    bool
}

// NewHealth creates a Health with Current set to max.
func NewHealth(max int) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead
}

var HealthComponent = NewComponent[Health]()
