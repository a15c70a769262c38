package storage

import (
	"context"
	"sync"
)

// MemoryNotificationStore keeps notification logs in process memory. It is
// used when the service runs without SQLite.
type MemoryNotificationStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []NotificationLogEntry
}

// NewMemoryNotificationStore returns an empty MemoryNotificationStore.
func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{}
}

func (s *MemoryNotificationStore) LogNotification(_ context.Context, entry NotificationLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	s.entries = append(s.entries, entry)
	return nil
}

// ListNotifications returns the newest entries first.
func (s *MemoryNotificationStore) ListNotifications(_ context.Context, limit int) ([]NotificationLogEntry, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]NotificationLogEntry, 0, min(limit, len(s.entries)))
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Compile-time interface checks.
var (
	_ NotificationStore = (*MemoryNotificationStore)(nil)
	_ NotificationStore = (*SQLiteNotificationStore)(nil)
)
