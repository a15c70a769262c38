// Package inventory implements the stockroom agents. Each agent owns one
// concern of the stock workflow and talks to the others only by emitting
// events on a shared bus.
package inventory

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

// Event names emitted by the agents.
const (
	EventItemAdded         = "item_added"
	EventItemRemoved       = "item_removed"
	EventItemSold          = "item_sold"
	EventStockInsufficient = "stock_insufficient"
	EventInventoryChecked  = "inventory_checked"
	EventReportGenerated   = "inventory_report_generated"
	EventCustomerRequest   = "customer_request"
)

// EventNames lists every event an agent may emit.
var EventNames = []string{
	EventItemAdded,
	EventItemRemoved,
	EventItemSold,
	EventStockInsufficient,
	EventInventoryChecked,
	EventReportGenerated,
	EventCustomerRequest,
}

// Emitter publishes a named event. *eventbus.Bus satisfies it.
type Emitter interface {
	Emit(ctx context.Context, name string, payload any) error
}

// Subscriber registers listeners. *eventbus.Bus satisfies it.
type Subscriber interface {
	Subscribe(name string, l eventbus.Listener) error
	SubscribeFunc(name string, fn func(ctx context.Context, e eventbus.Event) error) error
}

// ItemPayload is carried by item_added, item_removed, item_sold and
// customer_request.
type ItemPayload struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// InsufficientStockPayload is carried by stock_insufficient.
type InsufficientStockPayload struct {
	ItemName  string `json:"item_name"`
	Requested int    `json:"requested"`
}

// CheckPayload is carried by inventory_checked.
type CheckPayload struct {
	ItemName string `json:"item_name"`
}

// ReportPayload is carried by inventory_report_generated.
type ReportPayload struct {
	Text   string               `json:"text"`
	Levels []storage.StockLevel `json:"levels"`
}

// payloadAs extracts a typed payload from e, accepting both values and
// pointers.
func payloadAs[T any](e eventbus.Event) (T, error) {
	switch p := e.Payload.(type) {
	case T:
		return p, nil
	case *T:
		if p != nil {
			return *p, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("inventory: %s payload is %T, want %T", e.Name, e.Payload, zero)
}
