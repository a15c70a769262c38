package storage

import (
	"context"
	"time"
)

// Delivery outcomes recorded in NotificationLogEntry.Status.
const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// NotificationLogEntry records one low-stock alert delivery attempt.
type NotificationLogEntry struct {
	ID int64 `json:"id"`
	// EventID is the bus event that triggered the alert.
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ItemName  string    `json:"item_name,omitempty"`
	Provider  string    `json:"provider"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	ErrorMsg  string    `json:"error_msg,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationStore keeps the alert delivery log.
type NotificationStore interface {
	LogNotification(ctx context.Context, entry NotificationLogEntry) error
	// ListNotifications returns up to limit entries, newest first. A
	// non-positive limit selects DefaultNotificationLimit.
	ListNotifications(ctx context.Context, limit int) ([]NotificationLogEntry, error)
}

// DefaultNotificationLimit caps ListNotifications when no limit is given.
const DefaultNotificationLimit = 50
