package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteNotificationStore implements NotificationStore backed by SQLite.
type SQLiteNotificationStore struct {
	db *sql.DB
}

// NewSQLiteNotificationStore returns a new SQLiteNotificationStore.
func NewSQLiteNotificationStore(db *sql.DB) *SQLiteNotificationStore {
	return &SQLiteNotificationStore{db: db}
}

func (s *SQLiteNotificationStore) LogNotification(ctx context.Context, entry NotificationLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_log
			(event_id, event_type, item_name, provider, subject, status, error_msg, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EventID, entry.EventType, entry.ItemName, entry.Provider,
		entry.Subject, entry.Status, entry.ErrorMsg, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting notification log for event %s: %w", entry.EventID, err)
	}
	return nil
}

// ListNotifications orders by created_at, then by id so entries logged in
// the same instant keep insertion order.
func (s *SQLiteNotificationStore) ListNotifications(ctx context.Context, limit int) (entries []NotificationLogEntry, err error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, event_type, item_name, provider, subject, status, error_msg, created_at
		FROM notification_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notification log: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	entries = []NotificationLogEntry{}
	for rows.Next() {
		var e NotificationLogEntry
		if err := rows.Scan(&e.ID, &e.EventID, &e.EventType, &e.ItemName, &e.Provider,
			&e.Subject, &e.Status, &e.ErrorMsg, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification log rows: %w", err)
	}
	return entries, nil
}
