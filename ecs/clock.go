package ecs

// Clock tracks game time in seconds. It only moves when Advance is called,
// so simulations and tests are deterministic.
type Clock struct {
	now   float64
	delta float64
	frame uint64
}

// Advance moves the clock forward by dt seconds. Negative steps are ignored.
func (c *Clock) Advance(dt float64) {
	if c == nil || dt < 0 {
		return
	}
	c.now += dt
	c.delta = dt
	c.frame++
}

// Now returns the current time in seconds.
func (c *Clock) Now() float64 {
	if c == nil {
		return 0
	}
	return c.now
}

// Delta returns the length of the last frame in seconds.
func (c *Clock) Delta() float64 {
	if c == nil {
		return 0
	}
	return c.delta
}

// Frame returns the number of frames advanced so far.
func (c *Clock) Frame() uint64 {
	if c == nil {
		return 0
	}
	return c.frame
}
