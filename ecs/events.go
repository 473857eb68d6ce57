package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventCue is the Event.Type used for behavior cues.
const EventCue = "cue"

// CueEvent is a fire-and-forget notification raised by an entity, consumed by
// animation and audio collaborators.
type CueEvent struct {
	Entity Entity
	Name   string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// PushCue adds a cue event for the entity.
func (q *EventQueue) PushCue(e Entity, name string) {
	q.Push(Event{Type: EventCue, Data: CueEvent{Entity: e, Name: name}})
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
