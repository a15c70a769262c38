package inventory

import (
	"context"
	"sync"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
)

// DefaultActivitySize is the ring capacity used when NewActivityLog is
// given a non-positive size.
const DefaultActivitySize = 100

// ActivityLog keeps the most recent events in memory. It is a
// eventbus.Listener and never fails.
type ActivityLog struct {
	mu    sync.Mutex
	ring  []eventbus.Event
	next  int
	count int
}

// NewActivityLog returns an ActivityLog holding up to size events.
func NewActivityLog(size int) *ActivityLog {
	if size <= 0 {
		size = DefaultActivitySize
	}
	return &ActivityLog{ring: make([]eventbus.Event, size)}
}

// Handle records e, evicting the oldest event when full.
func (l *ActivityLog) Handle(_ context.Context, e eventbus.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ring[l.next] = e
	l.next = (l.next + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
	return nil
}

// Recent returns up to n events, newest first. n <= 0 returns everything
// held.
func (l *ActivityLog) Recent(n int) []eventbus.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > l.count {
		n = l.count
	}
	out := make([]eventbus.Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (l.next - i + len(l.ring)) % len(l.ring)
		out = append(out, l.ring[idx])
	}
	return out
}

// Len returns the number of events held.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

var _ eventbus.Listener = (*ActivityLog)(nil)
