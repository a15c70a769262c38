package service

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/stockroom/internal/notification"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

// NotificationService exposes alert settings and the delivery log.
type NotificationService interface {
	// GetSettings returns the current notification settings. The SMTP password is masked.
	GetSettings() (*notification.NotificationSettings, error)
	// TestNotification sends a test notification using the current settings.
	TestNotification(ctx context.Context) error
	// ListLog returns the most recent notification log entries.
	ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error)
}

// notificationServiceImpl implements NotificationService.
type notificationServiceImpl struct {
	loader      notification.SettingsLoader
	store       storage.NotificationStore
	newProvider notification.ProviderFactory
}

// NewNotificationService creates a new NotificationService. A nil factory
// sends through SMTP.
func NewNotificationService(
	loader notification.SettingsLoader,
	store storage.NotificationStore,
	newProvider notification.ProviderFactory,
) NotificationService {
	if newProvider == nil {
		newProvider = func(cfg notification.SMTPConfig) notification.Provider {
			return notification.NewSMTPProvider(cfg)
		}
	}
	return &notificationServiceImpl{
		loader:      loader,
		store:       store,
		newProvider: newProvider,
	}
}

// GetSettings returns the current notification settings with the SMTP password masked.
func (s *notificationServiceImpl) GetSettings() (*notification.NotificationSettings, error) {
	ns, err := s.loader()
	if err != nil {
		return nil, err
	}
	masked := ns.Masked()
	return &masked, nil
}

// TestNotification sends a test email using the current SMTP config regardless
// of whether alerts are enabled. This lets operators verify credentials
// before turning alerts on.
func (s *notificationServiceImpl) TestNotification(ctx context.Context) error {
	ns, err := s.loader()
	if err != nil {
		return err
	}
	if ns.Provider.Host == "" {
		return &ValidationError{Field: "smtp_host", Message: "SMTP host is not configured"}
	}

	provider := s.newProvider(ns.Provider)
	if err := provider.Send(ctx, notification.Message{
		Subject: notification.SubjectPrefix + "Test Notification",
		Body:    "This is a test notification from Stockroom.\n\nYour SMTP configuration is working correctly.",
	}); err != nil {
		return fmt.Errorf("sending test notification: %w", err)
	}
	return nil
}

// ListLog returns the most recent notification log entries.
func (s *notificationServiceImpl) ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	return s.store.ListNotifications(ctx, limit)
}
