package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

const (
	// MaxItemNameLength bounds item names accepted from callers.
	MaxItemNameLength = 128

	// MaxQuantity bounds the quantity of a single add, sale or request.
	MaxQuantity = 1_000_000_000
)

// InventoryService defines the business logic interface for the stockroom.
type InventoryService interface {
	AddItem(ctx context.Context, name string, qty int) (storage.StockLevel, error)
	SellItem(ctx context.Context, name string, qty int) (inventory.Receipt, error)
	RequestItem(ctx context.Context, name string, qty int) error
	CheckStock(ctx context.Context, name string) (storage.StockLevel, error)
	GenerateReport(ctx context.Context) (inventory.Report, error)
	ListStock(ctx context.Context) ([]storage.StockLevel, error)
	RecentActivity(ctx context.Context, limit int) ([]eventbus.Event, error)
}

type inventoryService struct {
	agents inventory.Agents
	logger *slog.Logger
}

// NewInventoryService returns an InventoryService driving the given agents.
// agents.Activity may be nil, in which case RecentActivity returns nothing.
func NewInventoryService(agents inventory.Agents, logger *slog.Logger) InventoryService {
	return &inventoryService{agents: agents, logger: logger}
}

func (s *inventoryService) AddItem(ctx context.Context, name string, qty int) (storage.StockLevel, error) {
	name, err := validateItem(name, qty)
	if err != nil {
		return storage.StockLevel{}, err
	}

	level, err := s.agents.Stock.AddItem(ctx, name, qty)
	if errors.Is(err, storage.ErrQuantityOverflow) {
		return level, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("adding %d would overflow the stock of %s (%d on hand)", qty, name, level.Quantity),
		}
	}
	if err != nil {
		return level, err
	}

	s.logger.Info("stock added", "item", name, "quantity", qty, "on_hand", level.Quantity)
	return level, nil
}

func (s *inventoryService) SellItem(ctx context.Context, name string, qty int) (inventory.Receipt, error) {
	name, err := validateItem(name, qty)
	if err != nil {
		return inventory.Receipt{}, err
	}

	receipt, err := s.agents.Sales.SellItem(ctx, name, qty)
	if err != nil {
		return receipt, err
	}

	s.logger.Info("sale processed", "item", name, "quantity", qty,
		"fulfilled", receipt.Fulfilled, "remaining", receipt.Remaining)
	return receipt, nil
}

func (s *inventoryService) RequestItem(ctx context.Context, name string, qty int) error {
	name, err := validateItem(name, qty)
	if err != nil {
		return err
	}
	return s.agents.Requests.RequestItem(ctx, name, qty)
}

// CheckStock announces the check and returns the item's level. Unknown
// items yield a *NotFoundError after the check has been emitted.
func (s *inventoryService) CheckStock(ctx context.Context, name string) (storage.StockLevel, error) {
	name, err := validateName(name)
	if err != nil {
		return storage.StockLevel{}, err
	}

	if err := s.agents.Check.CheckStock(ctx, name); err != nil {
		return storage.StockLevel{}, err
	}

	level, found, err := s.agents.Stock.Level(ctx, name)
	if err != nil {
		return storage.StockLevel{}, err
	}
	if !found {
		return storage.StockLevel{}, &NotFoundError{Resource: "item", ID: name}
	}
	return level, nil
}

func (s *inventoryService) GenerateReport(ctx context.Context) (inventory.Report, error) {
	levels, err := s.agents.Stock.Levels(ctx)
	if err != nil {
		return inventory.Report{}, err
	}
	return s.agents.Check.GenerateReport(ctx, levels)
}

func (s *inventoryService) ListStock(ctx context.Context) ([]storage.StockLevel, error) {
	return s.agents.Stock.Levels(ctx)
}

func (s *inventoryService) RecentActivity(_ context.Context, limit int) ([]eventbus.Event, error) {
	if s.agents.Activity == nil {
		return []eventbus.Event{}, nil
	}
	return s.agents.Activity.Recent(limit), nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "item_name", Message: "item_name is required"}
	}
	if len(name) > MaxItemNameLength {
		return "", &ValidationError{
			Field:   "item_name",
			Message: fmt.Sprintf("item_name must be at most %d characters", MaxItemNameLength),
		}
	}
	return name, nil
}

func validateItem(name string, qty int) (string, error) {
	name, err := validateName(name)
	if err != nil {
		return "", err
	}
	if qty <= 0 {
		return "", &ValidationError{Field: "quantity", Message: "quantity must be a positive integer"}
	}
	if qty > MaxQuantity {
		return "", &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("quantity must be at most %d", MaxQuantity),
		}
	}
	return name, nil
}
