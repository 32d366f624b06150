package ecs

// EventType names an event pushed by a system.
type EventType string

const (
	EventRopeBuilt        EventType = "rope_built"
	EventRopeSettled      EventType = "rope_settled"
	EventAdjustDone       EventType = "adjust_done"
	EventSequenceStarted  EventType = "sequence_started"
	EventSequenceComplete EventType = "sequence_complete"
	EventSpotReached      EventType = "spot_reached"
	EventCameraArrived    EventType = "camera_arrived"
)

// Event is a generic ECS event payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue. Events stay queued until drained.
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

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Has reports whether an event of type t is queued.
func (q *EventQueue) Has(t EventType) bool {
	if q == nil {
		return false
	}
	for _, e := range q.items {
		if e.Type == t {
			return true
		}
	}
	return false
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
