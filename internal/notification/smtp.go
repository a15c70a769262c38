package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// Values accepted in SMTPConfig.Encryption.
const (
	EncryptionNone     = "none"
	EncryptionStartTLS = "starttls"
	EncryptionSSLTLS   = "ssl_tls"
)

// SMTPProvider delivers alerts by email using go-mail.
type SMTPProvider struct {
	config SMTPConfig
}

// NewSMTPProvider creates a new SMTPProvider with the given configuration.
func NewSMTPProvider(config SMTPConfig) *SMTPProvider {
	return &SMTPProvider{config: config}
}

func (p *SMTPProvider) Name() string { return "smtp" }

// Send delivers msg to msg.To, or to the configured recipients when msg.To
// is empty.
func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	m, err := p.buildMsg(msg)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(p.config.Host, clientOptions(p.config)...)
	if err != nil {
		return fmt.Errorf("creating mail client for %s: %w", p.config.Host, err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending via %s:%d: %w", p.config.Host, p.config.Port, err)
	}
	return nil
}

func (p *SMTPProvider) buildMsg(msg Message) (*mail.Msg, error) {
	recipients := msg.To
	if len(recipients) == 0 {
		recipients = splitAddrs(p.config.ToAddrs)
	}
	if len(recipients) == 0 {
		return nil, errors.New("no recipients configured")
	}

	m := mail.NewMsg()
	if err := m.From(p.config.FromAddr); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipient list %v: %w", recipients, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	html, err := renderHTML(msg)
	if err != nil {
		return nil, fmt.Errorf("rendering alert: %w", err)
	}
	m.AddAlternativeString(mail.TypeTextHTML, html)
	return m, nil
}

func clientOptions(cfg SMTPConfig) []mail.Option {
	opts := []mail.Option{mail.WithPort(cfg.Port)}

	switch cfg.Encryption {
	case EncryptionSSLTLS:
		opts = append(opts, mail.WithSSL())
	case EncryptionStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts
}

func splitAddrs(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
