package eventbus

import "context"

// Event is anything that can travel on a Bus. Type selects the handlers.
type Event interface {
	Type() string
}

// HandlerFunc reacts to an emitted event.
type HandlerFunc func(ctx context.Context, e Event) error

// Bus defines the contract for publishing domain events to registered handlers.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, event Event) error
}
