package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventBumped       CollisionEventKind = "bumped"
	CollisionEventDamaged      CollisionEventKind = "damaged"
	CollisionEventDeflected    CollisionEventKind = "deflected"
	CollisionEventMounted      CollisionEventKind = "mounted"
	CollisionEventDismounted   CollisionEventKind = "dismounted"
	CollisionEventPlatformOn   CollisionEventKind = "platform_on"
	CollisionEventPlatformOff  CollisionEventKind = "platform_off"
	CollisionEventTerminated   CollisionEventKind = "terminated"
	CollisionEventReaffirmed   CollisionEventKind = "reaffirmed"
	CollisionEventMoneyGrabbed CollisionEventKind = "money"
)

// EventTypeCollision is the Event.Type of every CollisionEvent.
const EventTypeCollision = "collision"

// CollisionEvent is emitted when collision state changes.
type CollisionEvent struct {
	Entity Entity
	Other  Entity
	Kind   CollisionEventKind
	Amount float32
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

// PushCollision adds a CollisionEvent.
func (q *EventQueue) PushCollision(evt CollisionEvent) {
	q.Push(Event{Type: EventTypeCollision, Data: evt})
}

// Len is the number of queued events.
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
