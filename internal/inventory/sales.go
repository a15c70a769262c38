package inventory

import (
	"context"
	"fmt"
	"sync"
)

// Receipt describes the outcome of a sale.
type Receipt struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	// Handled is true when a stock listener processed the sale.
	Handled bool `json:"handled"`
	// Fulfilled is true when stock was actually removed.
	Fulfilled bool `json:"fulfilled"`
	// Remaining is the stock left after the sale was processed.
	Remaining int `json:"remaining"`
}

// Sales turns sales into item_sold events.
type Sales struct {
	bus Emitter
}

// NewSales returns a Sales agent emitting on bus.
func NewSales(bus Emitter) *Sales {
	return &Sales{bus: bus}
}

// SellItem emits item_sold and reports what the synchronous listeners did
// with it.
func (s *Sales) SellItem(ctx context.Context, name string, qty int) (Receipt, error) {
	t := &saleTracker{item: name}
	ctx = context.WithValue(ctx, saleKey{}, t)

	err := s.bus.Emit(ctx, EventItemSold, ItemPayload{ItemName: name, Quantity: qty})
	receipt := t.receipt(qty)
	if err != nil {
		return receipt, fmt.Errorf("emitting %s: %w", EventItemSold, err)
	}
	return receipt, nil
}

type saleKey struct{}

// saleTracker captures the first stock removal attempted for the sold item
// while the sale's emission is in flight.
type saleTracker struct {
	mu        sync.Mutex
	item      string
	handled   bool
	fulfilled bool
	remaining int
}

func saleFrom(ctx context.Context) *saleTracker {
	t, _ := ctx.Value(saleKey{}).(*saleTracker)
	return t
}

func (t *saleTracker) record(item string, removed bool, remaining int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handled || item != t.item {
		return
	}
	t.handled = true
	t.fulfilled = removed
	t.remaining = remaining
}

func (t *saleTracker) receipt(qty int) Receipt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Receipt{
		ItemName:  t.item,
		Quantity:  qty,
		Handled:   t.handled,
		Fulfilled: t.fulfilled,
		Remaining: t.remaining,
	}
}
