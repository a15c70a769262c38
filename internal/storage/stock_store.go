package storage

import (
	"context"
	"errors"
	"time"
)

// ErrQuantityOverflow is returned by Add when the new quantity would not
// fit in an int.
var ErrQuantityOverflow = errors.New("stock quantity overflow")

// StockLevel is the on-hand quantity of one item.
type StockLevel struct {
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockStore defines the interface for keeping stock quantities.
// Implementations must make Add and Remove atomic per item.
type StockStore interface {
	// Add increases the quantity of item by qty, creating the item if needed.
	// It returns ErrQuantityOverflow, leaving the level unchanged, when the
	// total would exceed math.MaxInt.
	Add(ctx context.Context, item string, qty int) (StockLevel, error)

	// Remove decreases the quantity of item by qty only when at least qty
	// is on hand. The boolean reports whether stock was removed; the level
	// is the item's quantity after the call.
	Remove(ctx context.Context, item string, qty int) (StockLevel, bool, error)

	// Get returns the level of item. The boolean is false for unknown items.
	Get(ctx context.Context, item string) (StockLevel, bool, error)

	// List returns all known items sorted by name.
	List(ctx context.Context) ([]StockLevel, error)
}
