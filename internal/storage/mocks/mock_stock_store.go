package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/stockroom/internal/storage"
)

// MockStockStore is a mock implementation of storage.StockStore.
type MockStockStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockStockStore) Add(ctx context.Context, item string, qty int) (storage.StockLevel, error) {
	args := m.Called(ctx, item, qty)
	return args.Get(0).(storage.StockLevel), args.Error(1)
}

//nolint:revive
func (m *MockStockStore) Remove(ctx context.Context, item string, qty int) (storage.StockLevel, bool, error) {
	args := m.Called(ctx, item, qty)
	return args.Get(0).(storage.StockLevel), args.Bool(1), args.Error(2)
}

//nolint:revive
func (m *MockStockStore) Get(ctx context.Context, item string) (storage.StockLevel, bool, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(storage.StockLevel), args.Bool(1), args.Error(2)
}

//nolint:revive
func (m *MockStockStore) List(ctx context.Context) ([]storage.StockLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.StockLevel), args.Error(1)
}
