package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/stockroom/internal/api"
	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/notification"
	"github.com/shaharia-lab/stockroom/internal/server"
	"github.com/shaharia-lab/stockroom/internal/service"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

func newTestServer(t *testing.T, opts server.Options) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	bus := eventbus.New(eventbus.Config{})
	activity := inventory.NewActivityLog(50)
	agents := inventory.NewAgents(inventory.NewItemStock(storage.NewMemoryStockStore(), bus), bus, activity)
	require.NoError(t, inventory.Wire(bus, agents, logger))

	inventorySvc := service.NewInventoryService(agents, logger)
	notificationSvc := service.NewNotificationService(
		func() (*notification.NotificationSettings, error) { return &notification.NotificationSettings{}, nil },
		storage.NewMemoryNotificationStore(),
		nil,
	)

	opts.Templates = os.DirFS("../../web/templates")
	opts.Logger = logger
	srv, err := server.New(api.New(inventorySvc, notificationSvc, logger), inventorySvc, opts)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func item(name, qty string) url.Values {
	return url.Values{"item_name": {name}, "quantity": {qty}}
}

func TestNew_RequiresTemplates(t *testing.T) {
	_, err := server.New(nil, nil, server.Options{})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	resp, body := get(t, ts, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestMetrics_OnlyWhenConfigured(t *testing.T) {
	ts := newTestServer(t, server.Options{})
	resp, _ := get(t, ts, "/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("stockroom_up 1\n"))
	})
	ts = newTestServer(t, server.Options{Metrics: metrics})
	resp, body := get(t, ts, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "stockroom_up 1")
}

func TestForms_AddSellAndReport(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	status, body := postForm(t, ts, "/add_item", item("Apples", "50"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Item added successfully!")
	assert.Contains(t, body, `<a href="/">Go back</a>`)

	status, body = postForm(t, ts, "/sell_item", item("Apples", "10"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Item sold successfully!")

	status, body = postForm(t, ts, "/sell_item", item("Apples", "60"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Not enough Apples in stock (40 on hand).")

	status, body = postForm(t, ts, "/check_inventory", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Inventory report generated!")
	assert.Contains(t, body, "Apples: 40")

	resp, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<td>Apples</td>")
	assert.Contains(t, body, inventory.EventStockInsufficient)
	assert.Contains(t, body, inventory.EventReportGenerated)
}

func TestForms_RequestItem(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	status, body := postForm(t, ts, "/request_item", item("Pears", "3"))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Customer request recorded!")

	_, body = get(t, ts, "/")
	assert.Contains(t, body, inventory.EventCustomerRequest)
	assert.Contains(t, body, inventory.EventInventoryChecked)
	assert.Contains(t, body, "No items in stock.")
}

func TestForms_InvalidInput(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	tests := []struct {
		name string
		path string
		form url.Values
		want string
	}{
		{name: "non-numeric quantity", path: "/add_item", form: item("Apples", "lots"), want: "not a whole number"},
		{name: "zero quantity", path: "/sell_item", form: item("Apples", "0"), want: "quantity"},
		{name: "blank name", path: "/request_item", form: item("   ", "2"), want: "item_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postForm(t, ts, tt.path, tt.form)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, "Invalid input")
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestForms_EscapeItemNames(t *testing.T) {
	ts := newTestServer(t, server.Options{})

	status, _ := postForm(t, ts, "/add_item", item("<script>x</script>", "1"))
	require.Equal(t, http.StatusOK, status)

	_, body := get(t, ts, "/")
	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestAPI_MountedWithCORS(t *testing.T) {
	ts := newTestServer(t, server.Options{CORSOrigins: []string{"https://shop.example.com"}})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/stock",
		strings.NewReader(`{"item_name":"Apples","quantity":5}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://shop.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://shop.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	var level storage.StockLevel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&level))
	assert.Equal(t, 5, level.Quantity)

	resp2, _ := get(t, ts, "/api/stock/Apples")
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}
