package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// MemoryStockStore keeps stock in process memory. Contents are lost on
// restart.
type MemoryStockStore struct {
	mu     sync.Mutex
	levels map[string]StockLevel
	now    func() time.Time
}

// NewMemoryStockStore returns an empty MemoryStockStore.
func NewMemoryStockStore() *MemoryStockStore {
	return &MemoryStockStore{
		levels: make(map[string]StockLevel),
		now:    time.Now,
	}
}

func (s *MemoryStockStore) Add(_ context.Context, item string, qty int) (StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.levels[item]
	if level.Quantity > math.MaxInt-qty {
		return level, fmt.Errorf("adding %d to %q: %w", qty, item, ErrQuantityOverflow)
	}
	level.ItemName = item
	level.Quantity += qty
	level.UpdatedAt = s.now()
	s.levels[item] = level
	return level, nil
}

func (s *MemoryStockStore) Remove(_ context.Context, item string, qty int) (StockLevel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, ok := s.levels[item]
	if !ok {
		return StockLevel{ItemName: item}, false, nil
	}
	if level.Quantity < qty {
		return level, false, nil
	}
	level.Quantity -= qty
	level.UpdatedAt = s.now()
	s.levels[item] = level
	return level, true, nil
}

func (s *MemoryStockStore) Get(_ context.Context, item string) (StockLevel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, ok := s.levels[item]
	if !ok {
		return StockLevel{ItemName: item}, false, nil
	}
	return level, true, nil
}

func (s *MemoryStockStore) List(_ context.Context) ([]StockLevel, error) {
	s.mu.Lock()
	levels := make([]StockLevel, 0, len(s.levels))
	for _, l := range s.levels {
		levels = append(levels, l)
	}
	s.mu.Unlock()

	sort.Slice(levels, func(i, j int) bool { return levels[i].ItemName < levels[j].ItemName })
	return levels, nil
}

// Compile-time interface check.
var _ StockStore = (*MemoryStockStore)(nil)
