package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/notification"
)

// Storage backends accepted by STOCKROOM_STORAGE.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8990.
	Port int `envconfig:"PORT" default:"8990"`

	// DataDir is the root data directory. Defaults to ~/.stockroom.
	DataDir string `envconfig:"STOCKROOM_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage selects the stock backend: "memory" (default) or "sqlite".
	Storage string `envconfig:"STOCKROOM_STORAGE" default:"memory"`

	// SeedFile is an optional YAML catalog loaded into an empty store at startup.
	SeedFile string `envconfig:"STOCKROOM_SEED_FILE"`

	// MaxEmitDepth bounds nested event emission. Zero uses the bus default;
	// a negative value disables the guard.
	MaxEmitDepth int `envconfig:"STOCKROOM_MAX_EMIT_DEPTH" default:"32"`

	// FailFast stops an emission at the first failing listener instead of
	// running the rest and reporting every failure.
	FailFast bool `envconfig:"STOCKROOM_FAIL_FAST" default:"false"`

	// ActivitySize is how many recent events the activity log keeps.
	ActivitySize int `envconfig:"STOCKROOM_ACTIVITY_SIZE" default:"100"`

	// ReportInterval schedules a periodic inventory report. Zero disables it.
	ReportInterval time.Duration `envconfig:"STOCKROOM_REPORT_INTERVAL"`

	// ReportCron schedules the inventory report with a cron expression.
	// Mutually exclusive with ReportInterval.
	ReportCron string `envconfig:"STOCKROOM_REPORT_CRON"`

	// CORSOrigin is the allowed origin for the JSON API.
	CORSOrigin string `envconfig:"STOCKROOM_CORS_ORIGIN" default:"*"`

	// OTLPEndpoint enables OTLP/gRPC export of traces, metrics and logs when set.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// ServiceName is reported as the OpenTelemetry service.name.
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"stockroom"`

	// SMTP configures low-stock email alerts (SMTP_HOST, SMTP_PORT, ...).
	SMTP SMTPConfig `envconfig:"SMTP"`

	// AlertEmailTo is a comma-separated recipient list. Alerts are only
	// sent when both this and SMTP_HOST are set.
	AlertEmailTo string `envconfig:"ALERT_EMAIL_TO"`
}

// SMTPConfig is the environment form of the SMTP provider settings.
type SMTPConfig struct {
	Host       string `envconfig:"HOST"`
	Port       int    `envconfig:"PORT" default:"587"`
	Username   string `envconfig:"USERNAME"`
	Password   string `envconfig:"PASSWORD"`
	From       string `envconfig:"FROM" default:"stockroom@localhost"`
	Encryption string `envconfig:"ENCRYPTION" default:"starttls"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.stockroom if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".stockroom")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Storage != StorageMemory && c.Storage != StorageSQLite {
		errs = append(errs, fmt.Errorf("STOCKROOM_STORAGE must be %q or %q, got %q", StorageMemory, StorageSQLite, c.Storage))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.ReportInterval < 0 {
		errs = append(errs, errors.New("STOCKROOM_REPORT_INTERVAL must not be negative"))
	}
	if c.ReportInterval > 0 && c.ReportCron != "" {
		errs = append(errs, errors.New("set only one of STOCKROOM_REPORT_INTERVAL and STOCKROOM_REPORT_CRON"))
	}
	if c.ActivitySize < 0 {
		errs = append(errs, errors.New("STOCKROOM_ACTIVITY_SIZE must not be negative"))
	}
	return errors.Join(errs...)
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory (~/.stockroom/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database file.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "stockroom.db")
}

// BusConfig returns the event bus settings.
func (c *AppConfig) BusConfig() eventbus.Config {
	policy := eventbus.IsolateFailures
	if c.FailFast {
		policy = eventbus.FailFast
	}
	return eventbus.Config{MaxDepth: c.MaxEmitDepth, FailurePolicy: policy}
}

// NotificationSettings converts the SMTP environment into alert settings.
func (c *AppConfig) NotificationSettings() *notification.NotificationSettings {
	return &notification.NotificationSettings{
		Enabled: c.SMTP.Host != "" && c.AlertEmailTo != "",
		Provider: notification.SMTPConfig{
			Host:       c.SMTP.Host,
			Port:       c.SMTP.Port,
			Username:   c.SMTP.Username,
			Password:   c.SMTP.Password,
			FromAddr:   c.SMTP.From,
			ToAddrs:    c.AlertEmailTo,
			Encryption: c.SMTP.Encryption,
		},
	}
}
