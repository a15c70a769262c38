// Package logger provides structured slog loggers. The system log is JSON,
// written to a size-rotated file and optionally mirrored to other handlers
// such as an OpenTelemetry log bridge.
//
// Log files are organized as:
//
//	<logDir>/system.log          application-level events
//	<logDir>/system-<ts>.log.gz  rotated backups
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	otellog "go.opentelemetry.io/otel/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for system.log.
const (
	maxSizeMB  = 20
	maxBackups = 5
	maxAgeDays = 28
)

// NewSystemLogger creates a JSON slog.Logger that writes to <logDir>/system.log.
// The directory is created if it does not exist. Records are also passed to
// every handler in extra. The returned Closer closes the log file.
func NewSystemLogger(logDir string, level slog.Level, extra ...slog.Handler) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "system.log"),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	if len(extra) > 0 {
		handler = newFanout(append([]slog.Handler{handler}, extra...)...)
	}
	return slog.New(handler), w, nil
}

// NewConsoleLogger creates a human-readable logger for interactive commands.
func NewConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewOTelHandler returns a handler that forwards records to provider as
// OpenTelemetry log records.
func NewOTelHandler(name string, provider otellog.LoggerProvider) slog.Handler {
	return otelslog.NewHandler(name, otelslog.WithLoggerProvider(provider))
}
