package events

import (
	"github.com/kelindar/event"
)

// Bus wraps the kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(StreamingChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	// Type switch to call the generic Publish with the concrete type.
	switch e := ev.(type) {
	case StreamingChangedEvent:
		event.Publish(b.dispatcher, e)
	case ControlChangedEvent:
		event.Publish(b.dispatcher, e)
	case FormatChangedEvent:
		event.Publish(b.dispatcher, e)
	case TransportErrorEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes a handler function; its parameter type selects which
// events it receives. Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e StreamingChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(StreamingChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ControlChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FormatChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(TransportErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// SubscribeToChannel subscribes to events of type T and forwards them to ch
// without blocking the dispatcher; events are dropped if ch is full.
func SubscribeToChannel[T Event](b *Bus, ch chan<- any) func() {
	return b.Subscribe(func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
