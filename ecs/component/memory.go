package component

import "github.com/jakecoffman/cp"

// Memory is what an agent remembers about its target.
type Memory struct {
	Alerted  bool
	LastSeen float64
	// HasSeen is false until the first sighting or hit; LastSeen and
	// LastKnown are meaningless before that.
	HasSeen   bool
	LastKnown cp.Vector
}

// Update folds one perception snapshot into memory.
func (m *Memory) Update(now float64, p Perception, forgetAfter float64) {
	if m == nil {
		return
	}
	if p.HasLineOfSight {
		m.remember(now, p.TargetPosition)
		return
	}
	if m.Alerted && now-m.LastSeen > forgetAfter {
		m.Alerted = false
	}
}

// RegisterHit alerts the agent regardless of vision.
func (m *Memory) RegisterHit(now float64, targetPos cp.Vector) {
	if m == nil {
		return
	}
	m.remember(now, targetPos)
}

// SinceSeen returns the time since the last sighting or hit, or +Inf if
// there was none.
func (m *Memory) SinceSeen(now float64) float64 {
	if m == nil || !m.HasSeen {
		return inf
	}
	return now - m.LastSeen
}

func (m *Memory) remember(now float64, pos cp.Vector) {
	m.Alerted = true
	m.HasSeen = true
	m.LastSeen = now
	m.LastKnown = pos
}

var MemoryComponent = NewComponent[Memory]()
