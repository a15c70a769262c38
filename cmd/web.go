package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/shaharia-lab/stockroom/internal/api"
	"github.com/shaharia-lab/stockroom/internal/build"
	"github.com/shaharia-lab/stockroom/internal/config"
	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/logger"
	"github.com/shaharia-lab/stockroom/internal/notification"
	"github.com/shaharia-lab/stockroom/internal/scheduler"
	"github.com/shaharia-lab/stockroom/internal/server"
	"github.com/shaharia-lab/stockroom/internal/service"
	"github.com/shaharia-lab/stockroom/internal/storage"
	"github.com/shaharia-lab/stockroom/internal/telemetry"
)

// NewWebCmd returns the "web" subcommand that starts the HTTP server.
func NewWebCmd(cfg *config.AppConfig) *cobra.Command {
	var port int
	var storageKind string
	var noBrowser bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the stockroom web forms and API server",
		Long: `Start the stockroom HTTP server which serves the HTML forms, the JSON
API under /api and Prometheus metrics on /metrics. Open
http://localhost:<port> in your browser.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("storage") {
				cfg.Storage = storageKind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
			logFile := filepath.Join(cfg.LogDir(), "system.log")
			printBanner(cmd, newPalette(cmd.OutOrStdout(), noColor), serverURL, logFile, cfg.Storage)

			if err := runWeb(cfg, TemplatesFS, noBrowser); err != nil {
				fmt.Fprintf(os.Stderr, "An error occurred. Please check the logs at: %s\n", logFile)
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	cmd.Flags().StringVar(&storageKind, "storage", cfg.Storage, "Stock backend: memory or sqlite (overrides STOCKROOM_STORAGE)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not automatically open the browser on startup")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runWeb(cfg *config.AppConfig, templates fs.FS, noBrowser bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := os.MkdirAll(cfg.LogDir(), 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.LogDir(), err)
	}

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: build.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	var extra []slog.Handler
	if providers.LoggerProvider != nil {
		extra = append(extra, logger.NewOTelHandler(telemetry.InstrumentationName, providers.LoggerProvider))
	}
	sysLogger, logCloser, err := logger.NewSystemLogger(cfg.LogDir(), cfg.SlogLevel(), extra...)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logCloser.Close() //nolint:errcheck

	sysLogger.Info("stockroom starting",
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.String("storage", cfg.Storage),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer stores.Close() //nolint:errcheck

	hooks, err := busHooks(sysLogger)
	if err != nil {
		return fmt.Errorf("creating bus hooks: %w", err)
	}
	busCfg := cfg.BusConfig()
	busCfg.Hooks = hooks
	bus := eventbus.New(busCfg)

	activity := inventory.NewActivityLog(cfg.ActivitySize)
	agents := inventory.NewAgents(inventory.NewItemStock(stores.stock, bus), bus, activity)
	if err := inventory.Wire(bus, agents, sysLogger); err != nil {
		return fmt.Errorf("wiring agents: %w", err)
	}

	settings := func() (*notification.NotificationSettings, error) { return cfg.NotificationSettings(), nil }
	notifier := notification.NewNotificationHandler(settings, stores.notifications, sysLogger)
	if err := bus.Subscribe(inventory.EventStockInsufficient, notifier); err != nil {
		return fmt.Errorf("subscribing notifier: %w", err)
	}
	defer notifier.Wait()

	if stores.fresh && cfg.SeedFile != "" {
		if err := seedCatalog(ctx, cfg.SeedFile, agents.Stock); err != nil {
			sysLogger.Warn("could not seed catalog", "file", cfg.SeedFile, "error", err)
		}
	}

	inventorySvc := service.NewInventoryService(agents, sysLogger)
	notificationSvc := service.NewNotificationService(settings, stores.notifications, nil)

	if cfg.ReportInterval > 0 || cfg.ReportCron != "" {
		sched, err := scheduler.New(scheduler.Config{
			Reporter: inventorySvc,
			Interval: cfg.ReportInterval,
			Cron:     cfg.ReportCron,
			Logger:   sysLogger,
		})
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop() //nolint:errcheck
	}

	apiSrv := api.New(inventorySvc, notificationSvc, sysLogger)
	srv, err := server.New(apiSrv, inventorySvc, server.Options{
		Port:        cfg.Port,
		Templates:   templates,
		CORSOrigins: splitOrigins(cfg.CORSOrigin),
		Metrics:     providers.MetricsHandler(),
		ServiceName: cfg.ServiceName,
		Logger:      sysLogger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	sysLogger.Info("server ready", "url", url)

	if !noBrowser {
		go openBrowser(url)
	}

	return srv.Run(ctx)
}

// busHooks returns the tracing, metrics and log hooks in that order, so the
// span is open while the others run.
func busHooks(log *slog.Logger) ([]eventbus.Hook, error) {
	metricsHook, err := telemetry.NewMetricsHook(otel.Meter(telemetry.InstrumentationName))
	if err != nil {
		return nil, err
	}
	return []eventbus.Hook{
		telemetry.NewTracingHook(otel.Tracer(telemetry.InstrumentationName)),
		metricsHook,
		telemetry.NewLogHook(log),
	}, nil
}

type storeSet struct {
	stock         storage.StockStore
	notifications storage.NotificationStore
	// fresh is true when the stock store started out empty.
	fresh bool
	db    *sql.DB
}

func (s *storeSet) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func openStores(cfg *config.AppConfig) (*storeSet, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, fresh, err := storage.NewSQLiteDB(cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return &storeSet{
			stock:         storage.NewSQLiteStockStore(db),
			notifications: storage.NewSQLiteNotificationStore(db),
			fresh:         fresh,
			db:            db,
		}, nil
	case config.StorageMemory:
		return &storeSet{
			stock:         storage.NewMemoryStockStore(),
			notifications: storage.NewMemoryNotificationStore(),
			fresh:         true,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// seedCatalog adds every catalog item through the stock agent so the
// additions show up on the bus like any other.
func seedCatalog(ctx context.Context, path string, stock *inventory.ItemStock) error {
	catalog, err := config.LoadCatalog(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, item := range catalog.Items {
		if _, err := stock.AddItem(ctx, item.Name, item.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("seeding %q: %w", item.Name, err))
		}
	}
	return errors.Join(errs...)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// printBanner writes the startup banner. It is the only output visible in
// the terminal during normal operation; all structured logs go to the log
// file instead.
func printBanner(cmd *cobra.Command, p palette, serverURL, logFile, storageKind string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, p.title.Render("Stockroom "+build.Version))
	fmt.Fprintf(out, "%s %s\n", p.muted.Render("Visit:  "), p.ok.Render(serverURL))
	fmt.Fprintf(out, "%s %s\n", p.muted.Render("Storage:"), storageKind)
	fmt.Fprintf(out, "%s %s\n\n", p.muted.Render("Logs:   "), logFile)
}

func openBrowser(url string) {
	time.Sleep(600 * time.Millisecond)
	ctx := context.Background()
	var c *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		c = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		c = exec.CommandContext(ctx, "open", url)
	default:
		c = exec.CommandContext(ctx, "xdg-open", url)
	}
	_ = c.Start()
}
