package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/stockroom/internal/notification"
	"github.com/shaharia-lab/stockroom/internal/service"
	"github.com/shaharia-lab/stockroom/internal/storage"
	"github.com/shaharia-lab/stockroom/internal/storage/mocks"
)

type captureProvider struct {
	sent []notification.Message
	err  error
}

func (p *captureProvider) Name() string { return "capture" }

func (p *captureProvider) Send(_ context.Context, msg notification.Message) error {
	p.sent = append(p.sent, msg)
	return p.err
}

func buildSMTPSettings() *notification.NotificationSettings {
	return &notification.NotificationSettings{
		Enabled: true,
		Provider: notification.SMTPConfig{
			Host:       "smtp.example.com",
			Port:       587,
			Username:   "user",
			Password:   "secret",
			FromAddr:   "stockroom@example.com",
			ToAddrs:    "ops@example.com",
			Encryption: "starttls",
		},
	}
}

func newTestNotificationService(
	settings *notification.NotificationSettings, store storage.NotificationStore, p *captureProvider,
) service.NotificationService {
	loader := func() (*notification.NotificationSettings, error) {
		copied := *settings
		return &copied, nil
	}
	return service.NewNotificationService(loader, store, func(notification.SMTPConfig) notification.Provider {
		return p
	})
}

func TestNotificationService_GetSettings_MasksPassword(t *testing.T) {
	settings := buildSMTPSettings()
	svc := newTestNotificationService(settings, storage.NewMemoryNotificationStore(), &captureProvider{})

	got, err := svc.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, notification.MaskedPassword, got.Provider.Password)
	assert.Equal(t, "smtp.example.com", got.Provider.Host)
	assert.Equal(t, "secret", settings.Provider.Password)
}

func TestNotificationService_GetSettings_LoaderError(t *testing.T) {
	loader := func() (*notification.NotificationSettings, error) { return nil, errors.New("boom") }
	svc := service.NewNotificationService(loader, storage.NewMemoryNotificationStore(), nil)

	_, err := svc.GetSettings()
	require.Error(t, err)
}

func TestNotificationService_TestNotification(t *testing.T) {
	p := &captureProvider{}
	svc := newTestNotificationService(buildSMTPSettings(), storage.NewMemoryNotificationStore(), p)

	require.NoError(t, svc.TestNotification(context.Background()))
	require.Len(t, p.sent, 1)
	assert.Equal(t, notification.SubjectPrefix+"Test Notification", p.sent[0].Subject)
}

func TestNotificationService_TestNotification_SendError(t *testing.T) {
	p := &captureProvider{err: errors.New("auth failed")}
	svc := newTestNotificationService(buildSMTPSettings(), storage.NewMemoryNotificationStore(), p)

	err := svc.TestNotification(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth failed")
}

func TestNotificationService_TestNotification_NoHost(t *testing.T) {
	settings := buildSMTPSettings()
	settings.Provider.Host = ""
	p := &captureProvider{}
	svc := newTestNotificationService(settings, storage.NewMemoryNotificationStore(), p)

	err := svc.TestNotification(context.Background())
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, p.sent)
}

func TestNotificationService_ListLog(t *testing.T) {
	store := new(mocks.MockNotificationStore)
	entries := []storage.NotificationLogEntry{{ID: 1, EventType: "stock_insufficient", Status: "sent"}}
	store.On("ListNotifications", mock.Anything, 25).Return(entries, nil)

	svc := newTestNotificationService(buildSMTPSettings(), store, &captureProvider{})

	got, err := svc.ListLog(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	store.AssertExpectations(t)
}
