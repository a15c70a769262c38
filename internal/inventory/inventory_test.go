package inventory_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

type harness struct {
	bus      *eventbus.Bus
	store    *storage.MemoryStockStore
	agents   inventory.Agents
	activity *inventory.ActivityLog
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bus := eventbus.New(eventbus.Config{})
	store := storage.NewMemoryStockStore()
	activity := inventory.NewActivityLog(50)
	agents := inventory.NewAgents(inventory.NewItemStock(store, bus), bus, activity)
	require.NoError(t, inventory.Wire(bus, agents, slog.New(slog.DiscardHandler)))
	return &harness{bus: bus, store: store, agents: agents, activity: activity}
}

// chronological returns recorded event names oldest first.
func (h *harness) chronological() []eventbus.Event {
	recent := h.activity.Recent(0)
	out := make([]eventbus.Event, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		out = append(out, recent[i])
	}
	return out
}

func names(events []eventbus.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Name)
	}
	return out
}

func TestStockroomScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	level, err := h.agents.Stock.AddItem(ctx, "Apples", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, level.Quantity)

	receipt, err := h.agents.Sales.SellItem(ctx, "Apples", 10)
	require.NoError(t, err)
	assert.True(t, receipt.Handled)
	assert.True(t, receipt.Fulfilled)
	assert.Equal(t, 40, receipt.Remaining)

	receipt, err = h.agents.Sales.SellItem(ctx, "Apples", 60)
	require.NoError(t, err)
	assert.True(t, receipt.Handled)
	assert.False(t, receipt.Fulfilled)
	assert.Equal(t, 40, receipt.Remaining)

	level, found, err := h.agents.Stock.Level(ctx, "Apples")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 40, level.Quantity)

	events := h.chronological()
	assert.Equal(t, []string{
		inventory.EventItemAdded,
		inventory.EventItemSold,
		inventory.EventItemRemoved,
		inventory.EventItemSold,
		inventory.EventStockInsufficient,
	}, names(events))

	short := events[4]
	assert.Equal(t, 1, short.Depth)
	assert.Equal(t, inventory.InsufficientStockPayload{ItemName: "Apples", Requested: 60}, short.Payload)
	assert.Equal(t, inventory.ItemPayload{ItemName: "Apples", Quantity: 10}, events[2].Payload)
}

func TestCustomerRequest_TriggersCheck(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.agents.Requests.RequestItem(context.Background(), "Apples", 10))

	events := h.chronological()
	require.Len(t, events, 2)
	assert.Equal(t, inventory.EventCustomerRequest, events[0].Name)
	assert.Equal(t, 0, events[0].Depth)
	assert.Equal(t, inventory.EventInventoryChecked, events[1].Name)
	assert.Equal(t, 1, events[1].Depth)
	assert.Equal(t, inventory.CheckPayload{ItemName: "Apples"}, events[1].Payload)
}

func TestRemoveItem_UnknownItem(t *testing.T) {
	h := newHarness(t)

	removed, err := h.agents.Stock.RemoveItem(context.Background(), "Kiwis", 1)
	require.NoError(t, err)
	assert.False(t, removed)

	events := h.chronological()
	require.Len(t, events, 1)
	assert.Equal(t, inventory.InsufficientStockPayload{ItemName: "Kiwis", Requested: 1}, events[0].Payload)
}

func TestSellItem_NoStockListener(t *testing.T) {
	bus := eventbus.New(eventbus.Config{})
	sales := inventory.NewSales(bus)

	receipt, err := sales.SellItem(context.Background(), "Apples", 1)
	require.NoError(t, err)
	assert.False(t, receipt.Handled)
	assert.False(t, receipt.Fulfilled)
	assert.Equal(t, "Apples", receipt.ItemName)
	assert.Equal(t, 1, receipt.Quantity)
}

func TestSellItem_ListenerFailure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.bus.SubscribeFunc(inventory.EventItemRemoved, func(context.Context, eventbus.Event) error {
		return errors.New("ledger offline")
	}))
	_, err := h.agents.Stock.AddItem(context.Background(), "Apples", 5)
	require.NoError(t, err)

	receipt, err := h.agents.Sales.SellItem(context.Background(), "Apples", 2)
	require.Error(t, err)
	assert.True(t, receipt.Fulfilled)

	var outer *eventbus.ListenerError
	require.ErrorAs(t, err, &outer)
	assert.Equal(t, inventory.EventItemSold, outer.Event)

	var inner *eventbus.ListenerError
	require.ErrorAs(t, outer.Err, &inner)
	assert.Equal(t, inventory.EventItemRemoved, inner.Event)
}

func TestItemSold_WrongPayloadType(t *testing.T) {
	h := newHarness(t)

	err := h.bus.Emit(context.Background(), inventory.EventItemSold, "ten apples")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload is string")
}

func TestItemSold_PointerPayload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.agents.Stock.AddItem(ctx, "Apples", 5)
	require.NoError(t, err)

	require.NoError(t, h.bus.Emit(ctx, inventory.EventItemSold, &inventory.ItemPayload{ItemName: "Apples", Quantity: 5}))

	level, _, err := h.agents.Stock.Level(ctx, "Apples")
	require.NoError(t, err)
	assert.Equal(t, 0, level.Quantity)
}

func TestGenerateReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for name, qty := range map[string]int{"Pears": 3, "Apples": 40} {
		_, err := h.agents.Stock.AddItem(ctx, name, qty)
		require.NoError(t, err)
	}

	levels, err := h.agents.Stock.Levels(ctx)
	require.NoError(t, err)

	report, err := h.agents.Check.GenerateReport(ctx, levels)
	require.NoError(t, err)
	assert.Equal(t, "Inventory Report:\nApples: 40\nPears: 3", report.Text)

	recent := h.activity.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, inventory.EventReportGenerated, recent[0].Name)
	payload, ok := recent[0].Payload.(inventory.ReportPayload)
	require.True(t, ok)
	assert.Equal(t, report.Text, payload.Text)
}

func TestFormatReport_Empty(t *testing.T) {
	assert.Equal(t, "Inventory Report:\n", inventory.FormatReport(nil))
}

type failingStore struct {
	storage.StockStore
}

func (failingStore) Add(context.Context, string, int) (storage.StockLevel, error) {
	return storage.StockLevel{}, errors.New("disk full")
}

func (failingStore) Remove(context.Context, string, int) (storage.StockLevel, bool, error) {
	return storage.StockLevel{}, false, errors.New("disk full")
}

func TestItemStock_StoreErrors(t *testing.T) {
	bus := eventbus.New(eventbus.Config{})
	activity := inventory.NewActivityLog(10)
	stock := inventory.NewItemStock(failingStore{}, bus)
	require.NoError(t, inventory.Wire(bus, inventory.NewAgents(stock, bus, activity), nil))

	_, err := stock.AddItem(context.Background(), "Apples", 1)
	require.ErrorContains(t, err, "disk full")

	_, err = stock.RemoveItem(context.Background(), "Apples", 1)
	require.ErrorContains(t, err, "disk full")

	assert.Equal(t, 0, activity.Len())
}
