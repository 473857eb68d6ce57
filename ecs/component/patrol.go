package component

import "github.com/jakecoffman/cp"

// PatrolPath walks between two waypoints given relative to Origin.
type PatrolPath struct {
	Origin    cp.Vector
	Waypoints [2]cp.Vector
	Active    int
	Waiting   bool
	WaitUntil float64
}

// Target returns the world position of the active waypoint.
func (p *PatrolPath) Target() cp.Vector {
	if p == nil {
		return cp.Vector{}
	}
	return p.Origin.Add(p.Waypoints[p.Active&1])
}

// Swap makes the other waypoint active.
func (p *PatrolPath) Swap() {
	if p == nil {
		return
	}
	p.Active = 1 - (p.Active & 1)
}

var PatrolPathComponent = NewComponent[PatrolPath]()
