package component

// TTL destroys the entity once the world clock reaches ExpiresAt.
type TTL struct {
	ExpiresAt float64
}

var TTLComponent = NewComponent[TTL]()
