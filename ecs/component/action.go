package component

// ActionTask is a cooperative multi-tick action owned by an agent. Concrete
// tasks are stepped by the action system; the slot only needs to know what a
// task is, whether it still runs and how to stop it.
type ActionTask interface {
	State() BehaviorState
	Running() bool
	// Cancel stops the task. Calling it on a stopped task does nothing.
	Cancel()
}

// ActionSlot holds the agent's single active action, plus a Shoot nested
// inside a running Retreat.
type ActionSlot struct {
	Current ActionTask
	Nested  ActionTask
}

// Running reports whether the current action is still in progress.
func (s *ActionSlot) Running() bool {
	return s != nil && s.Current != nil && s.Current.Running()
}

// RunningState returns the state of the running action, if any.
func (s *ActionSlot) RunningState() (BehaviorState, bool) {
	if !s.Running() {
		return 0, false
	}
	return s.Current.State(), true
}

// Start cancels whatever runs in the slot and installs task.
func (s *ActionSlot) Start(task ActionTask) {
	if s == nil {
		return
	}
	s.CancelAll()
	s.Current = task
}

// StartNested cancels the nested task and installs a new one.
func (s *ActionSlot) StartNested(task ActionTask) {
	if s == nil {
		return
	}
	if s.Nested != nil {
		s.Nested.Cancel()
	}
	s.Nested = task
}

// CancelAll stops and clears every task in the slot.
func (s *ActionSlot) CancelAll() {
	if s == nil {
		return
	}
	if s.Nested != nil {
		s.Nested.Cancel()
		s.Nested = nil
	}
	if s.Current != nil {
		s.Current.Cancel()
		s.Current = nil
	}
}

// CancelCommitted stops Shoot and Charge actions, including a Shoot nested in
// a Retreat, and leaves a running Retreat alone. It reports whether anything
// was cancelled.
func (s *ActionSlot) CancelCommitted() bool {
	if s == nil {
		return false
	}
	cancelled := false
	if s.Nested != nil {
		if s.Nested.Running() {
			cancelled = true
		}
		s.Nested.Cancel()
		s.Nested = nil
	}
	if s.Current != nil {
		switch s.Current.State() {
		case StateShoot, StateCharge:
			if s.Current.Running() {
				cancelled = true
			}
			s.Current.Cancel()
			s.Current = nil
		}
	}
	return cancelled
}

var ActionSlotComponent = NewComponent[ActionSlot]()
