// Package eventbus provides an in-process, synchronous publish/subscribe bus.
//
// Listeners are registered per event name and invoked in subscription order
// on the emitting goroutine. A listener may emit further events; nested
// emissions run to completion (depth-first) before the outer emission moves
// on to its next listener. Each Emit snapshots the listener list when it
// starts, so listeners subscribed during an emission only see later ones.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultMaxDepth = 32

// FailurePolicy controls what Emit does when a listener fails.
type FailurePolicy int

const (
	// IsolateFailures runs every listener and returns all failures joined.
	IsolateFailures FailurePolicy = iota
	// FailFast stops at the first failing listener and returns its error.
	FailFast
)

func (p FailurePolicy) String() string {
	switch p {
	case IsolateFailures:
		return "isolate"
	case FailFast:
		return "fail-fast"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// Config configures a Bus.
type Config struct {
	// MaxDepth bounds nested emission. Zero selects the default (32);
	// a negative value disables the guard.
	MaxDepth int

	FailurePolicy FailurePolicy

	// Hooks observe every emission that has at least one listener.
	Hooks []Hook
}

// Bus is a synchronous event bus. The zero value is not usable; call New.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener

	maxDepth int
	policy   FailurePolicy
	hook     Hook
}

// New creates a Bus.
func New(cfg Config) *Bus {
	maxDepth := cfg.MaxDepth
	if maxDepth == 0 {
		maxDepth = defaultMaxDepth
	}

	var hook Hook = NopHook{}
	if len(cfg.Hooks) > 0 {
		hook = Hooks(slices.Clone(cfg.Hooks))
	}

	return &Bus{
		listeners: make(map[string][]Listener),
		maxDepth:  maxDepth,
		policy:    cfg.FailurePolicy,
		hook:      hook,
	}
}

// Subscribe appends l to the listeners of name. Subscribing the same
// listener twice makes it run twice per emission.
func (b *Bus) Subscribe(name string, l Listener) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: event name is empty", ErrInvalidSubscription)
	}
	if l == nil {
		return fmt.Errorf("%w: nil listener for %q", ErrInvalidSubscription, name)
	}
	if fn, ok := l.(ListenerFunc); ok && fn == nil {
		return fmt.Errorf("%w: nil listener for %q", ErrInvalidSubscription, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], l)
	return nil
}

// SubscribeFunc is Subscribe for a plain function.
func (b *Bus) SubscribeFunc(name string, fn func(ctx context.Context, e Event) error) error {
	if fn == nil {
		return fmt.Errorf("%w: nil listener for %q", ErrInvalidSubscription, name)
	}
	return b.Subscribe(name, ListenerFunc(fn))
}

// Emit dispatches payload to every listener of name and returns once all
// of them, and everything they emitted in turn, have returned.
//
// Emitting a name nobody listens to is a no-op and returns nil.
func (b *Bus) Emit(ctx context.Context, name string, payload any) error {
	b.mu.RLock()
	snapshot := slices.Clone(b.listeners[name])
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	depth := depthFrom(ctx)
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return &RecursionError{Event: name, Depth: depth, MaxDepth: b.maxDepth}
	}

	e := Event{
		ID:        uuid.NewString(),
		Name:      name,
		Payload:   payload,
		Depth:     depth,
		Timestamp: time.Now(),
	}

	ctx = b.hook.EmitStarted(withDepth(ctx, depth+1), e, len(snapshot))

	var errs []error
	for i, l := range snapshot {
		err := invoke(ctx, l, e)
		if err == nil {
			continue
		}

		b.hook.ListenerFailed(ctx, e, i, err)
		lerr := &ListenerError{Event: name, Index: i, Err: err}
		if b.policy == FailFast {
			b.hook.EmitFinished(ctx, e, lerr)
			return lerr
		}
		errs = append(errs, lerr)
	}

	err := errors.Join(errs...)
	b.hook.EmitFinished(ctx, e, err)
	return err
}

// ListenerCount returns the number of listeners subscribed to name.
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// EventNames returns every name with at least one listener, sorted.
func (b *Bus) EventNames() []string {
	b.mu.RLock()
	names := make([]string, 0, len(b.listeners))
	for name := range b.listeners {
		names = append(names, name)
	}
	b.mu.RUnlock()

	sort.Strings(names)
	return names
}

// invoke calls l and converts a panic into an error.
func invoke(ctx context.Context, l Listener, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	return l.Handle(ctx, e)
}
