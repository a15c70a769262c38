package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

const sendTimeout = 30 * time.Second

// SettingsLoader is a function that loads the current notification settings.
// It is called on every event so that configuration changes take effect
// without requiring a restart.
type SettingsLoader func() (*NotificationSettings, error)

// NotificationHandler listens for stock events and delivers alerts
// according to the current notification settings. Delivery runs in the
// background so a slow mail server never stalls an emission.
// The name is intentional: it provides clarity when referenced as notification.NotificationHandler.
//
//nolint:revive
type NotificationHandler struct {
	settingsLoader SettingsLoader
	store          storage.NotificationStore
	logger         *slog.Logger
	newProvider    ProviderFactory
	wg             sync.WaitGroup
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(loader SettingsLoader, store storage.NotificationStore, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		settingsLoader: loader,
		store:          store,
		logger:         logger,
		newProvider:    defaultProviderFactory,
	}
}

// alertMessage renders the email for an event.
func alertMessage(e eventbus.Event) Message {
	var subject string
	var fields []Field
	switch p := e.Payload.(type) {
	case inventory.InsufficientStockPayload:
		subject = fmt.Sprintf("Not enough %s in stock (requested %d)", p.ItemName, p.Requested)
		fields = []Field{
			{Label: "Item", Value: p.ItemName},
			{Label: "Requested", Value: strconv.Itoa(p.Requested)},
		}
	default:
		subject = e.Name
		fields = []Field{{Label: "Payload", Value: fmt.Sprintf("%+v", e.Payload)}}
	}
	fields = append(fields,
		Field{Label: "Event", Value: e.Name},
		Field{Label: "Event ID", Value: e.ID},
		Field{Label: "Time", Value: e.Timestamp.UTC().Format(time.RFC3339)},
	)

	var body strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&body, "%s: %s\n", strings.ToLower(f.Label), f.Value)
	}
	return Message{Subject: buildSubject(subject), Body: body.String(), Fields: fields}
}

// Handle implements eventbus.Listener. It never fails the emission;
// delivery problems are logged and recorded in the notification store.
func (h *NotificationHandler) Handle(ctx context.Context, e eventbus.Event) error {
	settings, err := h.settingsLoader()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load notification settings", "error", err)
		return nil
	}
	if settings == nil || !settings.Enabled {
		return nil
	}

	msg := alertMessage(e)
	provider := h.newProvider(settings.Provider)

	bg := context.WithoutCancel(ctx)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.deliver(bg, provider, e, msg)
	}()
	return nil
}

// Wait blocks until every in-flight delivery has finished.
func (h *NotificationHandler) Wait() {
	h.wg.Wait()
}

func (h *NotificationHandler) deliver(ctx context.Context, provider Provider, e eventbus.Event, msg Message) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	sendErr := provider.Send(ctx, msg)

	entry := storage.NotificationLogEntry{
		EventID:   e.ID,
		EventType: e.Name,
		ItemName:  itemName(e),
		Provider:  provider.Name(),
		Subject:   msg.Subject,
		Status:    storage.NotificationSent,
		CreatedAt: time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = storage.NotificationFailed
		entry.ErrorMsg = sendErr.Error()
		h.logger.WarnContext(ctx, "failed to send notification", "event", e.Name, "item", entry.ItemName, "error", sendErr)
	} else {
		h.logger.InfoContext(ctx, "notification sent", "event", e.Name, "item", entry.ItemName, "provider", provider.Name())
	}

	if logErr := h.store.LogNotification(ctx, entry); logErr != nil {
		h.logger.ErrorContext(ctx, "failed to log notification delivery", "event_id", e.ID, "error", logErr)
	}
}

func itemName(e eventbus.Event) string {
	switch p := e.Payload.(type) {
	case inventory.InsufficientStockPayload:
		return p.ItemName
	case *inventory.InsufficientStockPayload:
		if p != nil {
			return p.ItemName
		}
	}
	return ""
}

var _ eventbus.Listener = (*NotificationHandler)(nil)
