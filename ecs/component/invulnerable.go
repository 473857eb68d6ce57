package component

// Invulnerable marks an entity as immune to damage until the given time.
type Invulnerable struct {
	Until float64
}

// Active reports whether the window is open at now. The window is half-open:
// damage at exactly Until is accepted.
func (i *Invulnerable) Active(now float64) bool {
	return i != nil && now < i.Until
}

var InvulnerableComponent = NewComponent[Invulnerable]()
