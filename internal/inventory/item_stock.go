package inventory

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/stockroom/internal/storage"
)

// ItemStock owns the stock levels. It is the only agent that changes them.
type ItemStock struct {
	store storage.StockStore
	bus   Emitter
}

// NewItemStock returns an ItemStock that keeps levels in store and
// announces changes on bus.
func NewItemStock(store storage.StockStore, bus Emitter) *ItemStock {
	return &ItemStock{store: store, bus: bus}
}

// AddItem increases the stock of name by qty and emits item_added.
func (s *ItemStock) AddItem(ctx context.Context, name string, qty int) (storage.StockLevel, error) {
	level, err := s.store.Add(ctx, name, qty)
	if err != nil {
		return level, fmt.Errorf("adding %d of %q: %w", qty, name, err)
	}

	if err := s.bus.Emit(ctx, EventItemAdded, ItemPayload{ItemName: name, Quantity: qty}); err != nil {
		return level, fmt.Errorf("emitting %s: %w", EventItemAdded, err)
	}
	return level, nil
}

// RemoveItem takes qty of name out of stock when enough is on hand and
// emits item_removed. Otherwise stock is left unchanged and
// stock_insufficient is emitted. The boolean reports whether stock was
// removed.
func (s *ItemStock) RemoveItem(ctx context.Context, name string, qty int) (bool, error) {
	level, removed, err := s.store.Remove(ctx, name, qty)
	if err != nil {
		return false, fmt.Errorf("removing %d of %q: %w", qty, name, err)
	}

	if t := saleFrom(ctx); t != nil {
		t.record(name, removed, level.Quantity)
	}

	if removed {
		if err := s.bus.Emit(ctx, EventItemRemoved, ItemPayload{ItemName: name, Quantity: qty}); err != nil {
			return true, fmt.Errorf("emitting %s: %w", EventItemRemoved, err)
		}
		return true, nil
	}

	payload := InsufficientStockPayload{ItemName: name, Requested: qty}
	if err := s.bus.Emit(ctx, EventStockInsufficient, payload); err != nil {
		return false, fmt.Errorf("emitting %s: %w", EventStockInsufficient, err)
	}
	return false, nil
}

// Level returns the current level of name. The boolean is false when the
// item has never been stocked.
func (s *ItemStock) Level(ctx context.Context, name string) (storage.StockLevel, bool, error) {
	level, found, err := s.store.Get(ctx, name)
	if err != nil {
		return storage.StockLevel{}, false, fmt.Errorf("reading level of %q: %w", name, err)
	}
	return level, found, nil
}

// Levels returns every stocked item sorted by name.
func (s *ItemStock) Levels(ctx context.Context) ([]storage.StockLevel, error) {
	levels, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stock levels: %w", err)
	}
	return levels, nil
}
