package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/stockroom/internal/eventbus"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

// MockInventoryService is a mock implementation of service.InventoryService.
type MockInventoryService struct {
	mock.Mock
}

//nolint:revive
func (m *MockInventoryService) AddItem(ctx context.Context, name string, qty int) (storage.StockLevel, error) {
	args := m.Called(ctx, name, qty)
	return args.Get(0).(storage.StockLevel), args.Error(1)
}

//nolint:revive
func (m *MockInventoryService) SellItem(ctx context.Context, name string, qty int) (inventory.Receipt, error) {
	args := m.Called(ctx, name, qty)
	return args.Get(0).(inventory.Receipt), args.Error(1)
}

//nolint:revive
func (m *MockInventoryService) RequestItem(ctx context.Context, name string, qty int) error {
	args := m.Called(ctx, name, qty)
	return args.Error(0)
}

//nolint:revive
func (m *MockInventoryService) CheckStock(ctx context.Context, name string) (storage.StockLevel, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(storage.StockLevel), args.Error(1)
}

//nolint:revive
func (m *MockInventoryService) GenerateReport(ctx context.Context) (inventory.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(inventory.Report), args.Error(1)
}

//nolint:revive
func (m *MockInventoryService) ListStock(ctx context.Context) ([]storage.StockLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.StockLevel), args.Error(1)
}

//nolint:revive
func (m *MockInventoryService) RecentActivity(ctx context.Context, limit int) ([]eventbus.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]eventbus.Event), args.Error(1)
}
