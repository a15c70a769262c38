package api

import (
	"errors"
	"net/http"

	"github.com/shaharia-lab/stockroom/internal/service"
)

// handleGetNotificationSettings returns the current alert settings.
// The SMTP password is masked before returning.
func (s *Server) handleGetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.notificationSvc.GetSettings()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "load notification settings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load notification settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleTestNotification sends a test email using the current settings.
func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.notificationSvc.TestNotification(r.Context()); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListNotificationLog returns recent notification delivery log entries.
// Accepts an optional ?limit=N query parameter (default 50).
func (s *Server) handleListNotificationLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.notificationSvc.ListLog(r.Context(), queryLimit(r, 50))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list notification log failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notification log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
