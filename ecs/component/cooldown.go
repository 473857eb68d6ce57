package component

import "math"

var inf = math.Inf(1)

// AITimers holds the cooldown deadlines and the last hit time. The zero
// value means both attacks are eligible immediately and no hit happened.
type AITimers struct {
	NextShootAt  float64
	NextChargeAt float64
	LastHitAt    float64
	HasBeenHit   bool
}

// CanShoot reports whether the ranged attack is off cooldown.
func (t *AITimers) CanShoot(now float64) bool {
	return t != nil && now >= t.NextShootAt
}

// CanCharge reports whether the charge is off cooldown.
func (t *AITimers) CanCharge(now float64) bool {
	return t != nil && now >= t.NextChargeAt
}

// SinceHit returns the time since the last hit, or +Inf if never hit.
func (t *AITimers) SinceHit(now float64) float64 {
	if t == nil || !t.HasBeenHit {
		return inf
	}
	return now - t.LastHitAt
}

// StartShootCooldown pushes the shoot deadline forward; it never moves back.
func (t *AITimers) StartShootCooldown(now, cooldown float64) {
	if t == nil {
		return
	}
	t.NextShootAt = math.Max(t.NextShootAt, now+cooldown)
}

// StartChargeCooldown pushes the charge deadline forward; it never moves back.
func (t *AITimers) StartChargeCooldown(now, cooldown float64) {
	if t == nil {
		return
	}
	t.NextChargeAt = math.Max(t.NextChargeAt, now+cooldown)
}

// RecordHit overwrites the last hit time.
func (t *AITimers) RecordHit(now float64) {
	if t == nil {
		return
	}
	t.LastHitAt = now
	t.HasBeenHit = true
}

var AITimersComponent = NewComponent[AITimers]()
