package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(StateCommittedEvent{...})
func (b *Bus) Publish(ev Event) {
	// Use type switch to call the generic Publish with the correct type
	switch e := ev.(type) {
	case CycleStartedEvent:
		event.Publish(b.dispatcher, e)
	case ActionResolvedEvent:
		event.Publish(b.dispatcher, e)
	case StateCommittedEvent:
		event.Publish(b.dispatcher, e)
	case WakeArmedEvent:
		event.Publish(b.dispatcher, e)
	case FaultEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function
// The handler type determines which events it receives
// Returns an unsubscribe function
// Usage: unsub := bus.Subscribe(func(e FaultEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(CycleStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ActionResolvedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StateCommittedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(WakeArmedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FaultEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Return a no-op function if handler type is not recognized
		return func() {}
	}
}
