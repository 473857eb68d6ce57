package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/hostile/ecs/component"
)

func patrolVelocity(now float64, pos cp.Vector, path *component.PatrolPath, tuning *component.Hostile) cp.Vector {
	if path == nil {
		return cp.Vector{}
	}
	if path.Waiting {
		if now < path.WaitUntil {
			return cp.Vector{}
		}
		path.Waiting = false
		path.Swap()
	}
	target := path.Target()
	if pos.Distance(target) <= tuning.PatrolArriveDistance {
		path.Waiting = true
		path.WaitUntil = now + tuning.PatrolWaitTime
		return cp.Vector{}
	}
	dir, _ := direction(pos, target)
	return dir.Mult(tuning.PatrolSpeed)
}

func chaseVelocity(pos cp.Vector, target *component.Target, tuning *component.Hostile) cp.Vector {
	targetPos, ok := targetPosition(target)
	if !ok {
		return cp.Vector{}
	}
	dir, _ := direction(pos, targetPos)
	return dir.Mult(tuning.ChaseSpeed)
}

// investigateVelocity walks to the last known target position. An agent
// that was never alerted has nothing to investigate and idles.
func investigateVelocity(pos cp.Vector, m *component.Memory, tuning *component.Hostile) cp.Vector {
	if m == nil || !m.Alerted {
		return cp.Vector{}
	}
	if pos.Distance(m.LastKnown) <= tuning.InvestigateStopDistance {
		return cp.Vector{}
	}
	dir, _ := direction(pos, m.LastKnown)
	return dir.Mult(tuning.ChaseSpeed)
}
