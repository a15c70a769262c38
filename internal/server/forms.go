package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/service"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

const recentActivityLimit = 20

type indexPage struct {
	Levels   []storage.StockLevel
	Activity []eventbus.Event
}

type resultPage struct {
	Title   string
	Message string
	Report  string
	Failed  bool
}

func parseTemplates(fsys fs.FS) (*template.Template, error) {
	funcs := template.FuncMap{
		"payload": func(v any) string { return fmt.Sprintf("%+v", v) },
		"clock":   func(t time.Time) string { return t.Local().Format(time.TimeOnly) },
	}
	pages, err := template.New("pages").Funcs(funcs).ParseFS(fsys, "index.html", "result.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering template failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderResult(w http.ResponseWriter, r *http.Request, status int, page resultPage) {
	s.render(w, r, status, "result.html", page)
}

// renderFailure maps a service error to a result page.
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *service.ValidationError
	var nfe *service.NotFoundError
	switch {
	case errors.As(err, &ve):
		s.renderResult(w, r, http.StatusBadRequest, resultPage{Title: "Invalid input", Message: ve.Error(), Failed: true})
	case errors.As(err, &nfe):
		s.renderResult(w, r, http.StatusNotFound, resultPage{Title: "Not found", Message: nfe.Error(), Failed: true})
	default:
		s.logger.ErrorContext(r.Context(), op+" failed", "error", err)
		s.renderResult(w, r, http.StatusInternalServerError, resultPage{
			Title:   "Something went wrong",
			Message: "Failed to " + op + ".",
			Failed:  true,
		})
	}
}

// itemForm reads item_name and quantity from a submitted form.
func itemForm(r *http.Request) (string, int, error) {
	name := r.PostFormValue("item_name")
	raw := strings.TrimSpace(r.PostFormValue("quantity"))
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return name, 0, &service.ValidationError{Field: "quantity", Message: fmt.Sprintf("%q is not a whole number", raw)}
	}
	return name, qty, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	levels, err := s.inventorySvc.ListStock(r.Context())
	if err != nil {
		s.renderFailure(w, r, "load stock", err)
		return
	}
	activity, err := s.inventorySvc.RecentActivity(r.Context(), recentActivityLimit)
	if err != nil {
		s.renderFailure(w, r, "load activity", err)
		return
	}
	s.render(w, r, http.StatusOK, "index.html", indexPage{Levels: levels, Activity: activity})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	name, qty, err := itemForm(r)
	if err == nil {
		_, err = s.inventorySvc.AddItem(r.Context(), name, qty)
	}
	if err != nil {
		s.renderFailure(w, r, "add item", err)
		return
	}
	s.renderResult(w, r, http.StatusOK, resultPage{Title: "Stock updated", Message: "Item added successfully!"})
}

func (s *Server) handleSellItem(w http.ResponseWriter, r *http.Request) {
	name, qty, err := itemForm(r)
	if err != nil {
		s.renderFailure(w, r, "sell item", err)
		return
	}
	receipt, err := s.inventorySvc.SellItem(r.Context(), name, qty)
	if err != nil {
		s.renderFailure(w, r, "sell item", err)
		return
	}
	if !receipt.Fulfilled {
		s.renderResult(w, r, http.StatusOK, resultPage{
			Title:   "Sale not fulfilled",
			Message: fmt.Sprintf("Not enough %s in stock (%d on hand).", receipt.ItemName, receipt.Remaining),
			Failed:  true,
		})
		return
	}
	s.renderResult(w, r, http.StatusOK, resultPage{Title: "Sale recorded", Message: "Item sold successfully!"})
}

func (s *Server) handleRequestItem(w http.ResponseWriter, r *http.Request) {
	name, qty, err := itemForm(r)
	if err == nil {
		err = s.inventorySvc.RequestItem(r.Context(), name, qty)
	}
	if err != nil {
		s.renderFailure(w, r, "request item", err)
		return
	}
	s.renderResult(w, r, http.StatusOK, resultPage{Title: "Request received", Message: "Customer request recorded!"})
}

func (s *Server) handleCheckInventory(w http.ResponseWriter, r *http.Request) {
	report, err := s.inventorySvc.GenerateReport(r.Context())
	if err != nil {
		s.renderFailure(w, r, "generate report", err)
		return
	}
	s.renderResult(w, r, http.StatusOK, resultPage{
		Title:   "Inventory report",
		Message: "Inventory report generated!",
		Report:  report.Text,
	})
}
