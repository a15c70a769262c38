package eventbus

import "context"

// Hook observes emissions. Hooks run on the emitting goroutine, inline
// with dispatch, and are not called for emissions that have no listeners.
type Hook interface {
	// EmitStarted runs before the first listener. The returned context is
	// the one passed to listeners and to EmitFinished.
	EmitStarted(ctx context.Context, e Event, listeners int) context.Context

	// ListenerFailed runs once per failing listener.
	ListenerFailed(ctx context.Context, e Event, index int, err error)

	// EmitFinished runs after the emission ends with the error Emit returns.
	EmitFinished(ctx context.Context, e Event, err error)
}

// NopHook implements Hook with no-ops. Embed it to implement a subset.
type NopHook struct{}

func (NopHook) EmitStarted(ctx context.Context, _ Event, _ int) context.Context { return ctx }
func (NopHook) ListenerFailed(context.Context, Event, int, error)                {}
func (NopHook) EmitFinished(context.Context, Event, error)                       {}

// Hooks fans out to several hooks in order.
type Hooks []Hook

func (hs Hooks) EmitStarted(ctx context.Context, e Event, listeners int) context.Context {
	for _, h := range hs {
		ctx = h.EmitStarted(ctx, e, listeners)
	}
	return ctx
}

func (hs Hooks) ListenerFailed(ctx context.Context, e Event, index int, err error) {
	for _, h := range hs {
		h.ListenerFailed(ctx, e, index, err)
	}
}

// EmitFinished runs hooks in reverse so they unwind like deferred calls.
func (hs Hooks) EmitFinished(ctx context.Context, e Event, err error) {
	for i := len(hs) - 1; i >= 0; i-- {
		hs[i].EmitFinished(ctx, e, err)
	}
}
