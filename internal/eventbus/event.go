package eventbus

import (
	"context"
	"time"
)

// Event is the envelope delivered to listeners for one emission.
type Event struct {
	// ID uniquely identifies the emission.
	ID string `json:"id"`
	// Name is the event name the emission was dispatched under.
	Name string `json:"name"`
	// Payload is passed through unmodified from the emitter.
	Payload any `json:"payload,omitempty"`
	// Depth is 0 for a top-level emission and grows by one for each
	// emission triggered from inside a listener.
	Depth     int       `json:"depth"`
	Timestamp time.Time `json:"timestamp"`
}

// Listener handles events it was subscribed to.
//
// Listeners that emit further events must pass the ctx they receive to
// Emit so nesting depth is tracked.
type Listener interface {
	Handle(ctx context.Context, e Event) error
}

// ListenerFunc adapts an ordinary function to the Listener interface.
type ListenerFunc func(ctx context.Context, e Event) error

// Handle calls f(ctx, e).
func (f ListenerFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}

type depthKey struct{}

// depthFrom returns the nesting depth carried by ctx.
func depthFrom(ctx context.Context) int {
	if d, ok := ctx.Value(depthKey{}).(int); ok {
		return d
	}
	return 0
}

func withDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}
