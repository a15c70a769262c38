// Package notification sends stock alerts (currently email via SMTP) and
// records every delivery attempt.
package notification

import "context"

// Message is the content to be delivered by a Provider. Body is the plain
// text form; Fields, when present, are also rendered as a table in HTML mail.
type Message struct {
	Subject string
	Body    string
	Fields  []Field
	To      []string
}

// Field is one labelled value in an alert, such as the item name.
type Field struct {
	Label string
	Value string
}

// Provider is the interface for notification delivery backends.
type Provider interface {
	// Name returns the provider identifier (e.g. "smtp").
	Name() string
	// Send delivers the message using the provider's transport.
	Send(ctx context.Context, msg Message) error
}

// ProviderFactory builds a Provider from SMTP settings.
type ProviderFactory func(SMTPConfig) Provider

func defaultProviderFactory(cfg SMTPConfig) Provider {
	return NewSMTPProvider(cfg)
}
