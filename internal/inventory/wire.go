package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
)

// Agents groups the agents that Wire connects.
type Agents struct {
	Stock    *ItemStock
	Sales    *Sales
	Check    *InventoryCheck
	Requests *CustomerRequests
	// Activity is optional. When set it is subscribed to every event
	// before any other listener.
	Activity *ActivityLog
}

// NewAgents builds the full agent set over one bus.
func NewAgents(stock *ItemStock, bus Emitter, activity *ActivityLog) Agents {
	return Agents{
		Stock:    stock,
		Sales:    NewSales(bus),
		Check:    NewInventoryCheck(bus),
		Requests: NewCustomerRequests(bus),
		Activity: activity,
	}
}

// Wire subscribes the default listeners:
//
//   - item_sold removes the sold quantity from stock
//   - customer_request triggers a stock check
//   - every event is written to logger
func Wire(bus Subscriber, a Agents, logger *slog.Logger) error {
	if a.Activity != nil {
		for _, name := range EventNames {
			if err := bus.Subscribe(name, a.Activity); err != nil {
				return fmt.Errorf("subscribing activity log to %s: %w", name, err)
			}
		}
	}

	if logger != nil {
		for _, name := range EventNames {
			if err := bus.SubscribeFunc(name, logListener(logger)); err != nil {
				return fmt.Errorf("subscribing logger to %s: %w", name, err)
			}
		}
	}

	if err := bus.SubscribeFunc(EventItemSold, func(ctx context.Context, e eventbus.Event) error {
		p, err := payloadAs[ItemPayload](e)
		if err != nil {
			return err
		}
		_, err = a.Stock.RemoveItem(ctx, p.ItemName, p.Quantity)
		return err
	}); err != nil {
		return fmt.Errorf("subscribing stock removal: %w", err)
	}

	if err := bus.SubscribeFunc(EventCustomerRequest, func(ctx context.Context, e eventbus.Event) error {
		p, err := payloadAs[ItemPayload](e)
		if err != nil {
			return err
		}
		return a.Check.CheckStock(ctx, p.ItemName)
	}); err != nil {
		return fmt.Errorf("subscribing stock check: %w", err)
	}

	return nil
}

func logListener(logger *slog.Logger) func(ctx context.Context, e eventbus.Event) error {
	return func(ctx context.Context, e eventbus.Event) error {
		level := slog.LevelInfo
		if e.Name == EventStockInsufficient {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "event received",
			"event", e.Name,
			"event_id", e.ID,
			"depth", e.Depth,
			"payload", e.Payload,
		)
		return nil
	}
}
