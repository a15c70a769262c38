package api

import (
	"net/http"
	"strconv"
)

// handleListActivity returns recent bus events, newest first.
// Accepts an optional ?limit=N query parameter (default 50).
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	events, err := s.inventorySvc.RecentActivity(r.Context(), queryLimit(r, 50))
	if err != nil {
		s.writeServiceError(w, r, "list activity", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func queryLimit(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return n
		}
	}
	return def
}
