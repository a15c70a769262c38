package eventbus

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSubscription is returned by Subscribe for a blank event
	// name or a nil listener.
	ErrInvalidSubscription = errors.New("eventbus: invalid subscription")

	// ErrRecursionLimit is returned when nested emission exceeds the
	// configured maximum depth, which usually means two events trigger
	// each other in a cycle.
	ErrRecursionLimit = errors.New("eventbus: recursion limit exceeded")

	// ErrListenerPanic wraps a value recovered from a panicking listener.
	ErrListenerPanic = errors.New("eventbus: listener panicked")
)

// ListenerError reports the failure of a single listener.
type ListenerError struct {
	Event string
	// Index is the listener's position in the emission's snapshot.
	Index int
	Err   error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("eventbus: listener %d for %q: %v", e.Index, e.Event, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// RecursionError is returned by Emit when the nesting depth reaches the
// configured limit. No listener is invoked for the rejected emission.
type RecursionError struct {
	Event    string
	Depth    int
	MaxDepth int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("eventbus: emitting %q at depth %d (max %d): recursion limit exceeded",
		e.Event, e.Depth, e.MaxDepth)
}

func (e *RecursionError) Unwrap() error {
	return ErrRecursionLimit
}
