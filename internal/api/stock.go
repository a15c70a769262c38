package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type itemRequest struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type requestAccepted struct {
	Status   string `json:"status"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

func decodeItem(w http.ResponseWriter, r *http.Request) (itemRequest, bool) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidJSONBody)
		return req, false
	}
	return req, true
}

func (s *Server) handleListStock(w http.ResponseWriter, r *http.Request) {
	levels, err := s.inventorySvc.ListStock(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "list stock", err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (s *Server) handleGetStock(w http.ResponseWriter, r *http.Request) {
	level, err := s.inventorySvc.CheckStock(r.Context(), chi.URLParam(r, "item"))
	if err != nil {
		s.writeServiceError(w, r, "check stock", err)
		return
	}
	writeJSON(w, http.StatusOK, level)
}

func (s *Server) handleAddStock(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}

	level, err := s.inventorySvc.AddItem(r.Context(), req.ItemName, req.Quantity)
	if err != nil {
		s.writeServiceError(w, r, "add stock", err)
		return
	}
	writeJSON(w, http.StatusCreated, level)
}

// handleSell processes a sale. An unfulfilled sale is still a 200; the
// receipt's fulfilled flag tells the caller whether stock moved.
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}

	receipt, err := s.inventorySvc.SellItem(r.Context(), req.ItemName, req.Quantity)
	if err != nil {
		s.writeServiceError(w, r, "sell item", err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}

	if err := s.inventorySvc.RequestItem(r.Context(), req.ItemName, req.Quantity); err != nil {
		s.writeServiceError(w, r, "record request", err)
		return
	}
	writeJSON(w, http.StatusAccepted, requestAccepted{
		Status:   "accepted",
		ItemName: req.ItemName,
		Quantity: req.Quantity,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.inventorySvc.GenerateReport(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "generate report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
