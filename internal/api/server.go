// Package api implements the stockroom JSON API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/service"
)

const errInvalidJSONBody = "invalid JSON body"

// Server holds all dependencies for the REST API handlers.
type Server struct {
	inventorySvc    service.InventoryService
	notificationSvc service.NotificationService
	logger          *slog.Logger
}

// New creates a new API Server backed by the provided services.
func New(inventorySvc service.InventoryService, notificationSvc service.NotificationService, logger *slog.Logger) *Server {
	return &Server{
		inventorySvc:    inventorySvc,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	// Stock
	r.Get("/stock", s.handleListStock)
	r.Post("/stock", s.handleAddStock)
	r.Get("/stock/{item}", s.handleGetStock)

	// Agent actions
	r.Post("/sales", s.handleSell)
	r.Post("/requests", s.handleRequest)
	r.Post("/reports", s.handleReport)

	// Event activity
	r.Get("/activity", s.handleListActivity)

	// Notifications
	r.Get("/notifications/settings", s.handleGetNotificationSettings)
	r.Post("/notifications/test", s.handleTestNotification)
	r.Get("/notifications/log", s.handleListNotificationLog)

	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service and bus errors to HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *service.ValidationError
	var nfe *service.NotFoundError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, nfe.Error())
	case errors.Is(err, eventbus.ErrRecursionLimit):
		s.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "event recursion limit exceeded")
	default:
		var le *eventbus.ListenerError
		if errors.As(err, &le) {
			s.logger.ErrorContext(r.Context(), op+" failed", "event", le.Event, "listener", le.Index, "error", err)
			writeError(w, http.StatusInternalServerError, "event listener failed")
			return
		}
		s.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
