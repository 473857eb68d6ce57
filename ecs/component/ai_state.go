package component

// BehaviorState is the behavior an agent is currently running.
type BehaviorState int

const (
	StatePatrol BehaviorState = iota
	StateChase
	StateInvestigate
	StateShoot
	StateCharge
	StateRetreat
	StateDead
)

func (s BehaviorState) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateInvestigate:
		return "investigate"
	case StateShoot:
		return "shoot"
	case StateCharge:
		return "charge"
	case StateRetreat:
		return "retreat"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// IsAction reports whether the state is backed by a cooperative action.
func (s BehaviorState) IsAction() bool {
	return s == StateShoot || s == StateCharge || s == StateRetreat
}

// AIState stores the current behavior and when it was entered.
type AIState struct {
	Current   BehaviorState
	Previous  BehaviorState
	EnteredAt float64
	// Entered is false until the first decision has announced Current.
	Entered bool
	// Idle is set while investigating with nothing to investigate.
	Idle bool
	// Pending is set when an action state was selected and its task has not
	// started. Only a pending action may start a task.
	Pending bool
}

var AIStateComponent = NewComponent[AIState]()
