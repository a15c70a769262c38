// Package server hosts the stockroom HTTP front end: the HTML forms, the
// JSON API and the operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaharia-lab/stockroom/internal/api"
	"github.com/shaharia-lab/stockroom/internal/service"
)

// Options configures a Server.
type Options struct {
	Port int
	// Templates holds index.html and result.html.
	Templates fs.FS
	// CORSOrigins applies to /api routes. Empty allows any origin.
	CORSOrigins []string
	// Metrics is served on /metrics when non-nil.
	Metrics     http.Handler
	ServiceName string
	Logger      *slog.Logger
}

// Server is the HTTP server for stockroom.
type Server struct {
	inventorySvc service.InventoryService
	pages        *template.Template
	logger       *slog.Logger
	handler      http.Handler
	httpServer   *http.Server
}

// New creates a new Server.
func New(apiSrv *api.Server, inventorySvc service.InventoryService, opts Options) (*Server, error) {
	if opts.Templates == nil {
		return nil, errors.New("server: templates are required")
	}
	pages, err := parseTemplates(opts.Templates)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		inventorySvc: inventorySvc,
		pages:        pages,
		logger:       logger,
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
		apiSrv.Mount(r)
	})

	// HTML forms
	r.Get("/", s.handleIndex)
	r.Post("/add_item", s.handleAddItem)
	r.Post("/sell_item", s.handleSellItem)
	r.Post("/request_item", s.handleRequestItem)
	r.Post("/check_inventory", s.handleCheckInventory)

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "stockroom"
	}
	s.handler = instrument(serviceName)(r)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the root handler, including instrumentation.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// requestLogger is a chi middleware that logs each incoming request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		}
		if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
			attrs = append(attrs, slog.String("trace_id", sc.TraceID().String()))
		}
		s.logger.InfoContext(r.Context(), "http request", attrs...)
	})
}
