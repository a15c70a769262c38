package inventory

import (
	"context"
	"fmt"
)

// CustomerRequests records what customers ask for.
type CustomerRequests struct {
	bus Emitter
}

// NewCustomerRequests returns a CustomerRequests agent emitting on bus.
func NewCustomerRequests(bus Emitter) *CustomerRequests {
	return &CustomerRequests{bus: bus}
}

// RequestItem emits customer_request.
func (r *CustomerRequests) RequestItem(ctx context.Context, name string, qty int) error {
	if err := r.bus.Emit(ctx, EventCustomerRequest, ItemPayload{ItemName: name, Quantity: qty}); err != nil {
		return fmt.Errorf("emitting %s: %w", EventCustomerRequest, err)
	}
	return nil
}
