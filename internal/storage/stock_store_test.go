package storage_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/stockroom/internal/storage"
)

func TestMemoryStockStore(t *testing.T) {
	runStockStoreSuite(t, func(t *testing.T) storage.StockStore {
		return storage.NewMemoryStockStore()
	})
}

func TestSQLiteStockStore(t *testing.T) {
	runStockStoreSuite(t, func(t *testing.T) storage.StockStore {
		db, _, err := storage.NewSQLiteDB(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return storage.NewSQLiteStockStore(db)
	})
}

func runStockStoreSuite(t *testing.T, newStore func(t *testing.T) storage.StockStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("add accumulates", func(t *testing.T) {
		store := newStore(t)

		level, err := store.Add(ctx, "Apples", 50)
		require.NoError(t, err)
		assert.Equal(t, 50, level.Quantity)

		level, err = store.Add(ctx, "Apples", 5)
		require.NoError(t, err)
		assert.Equal(t, "Apples", level.ItemName)
		assert.Equal(t, 55, level.Quantity)
		assert.False(t, level.UpdatedAt.IsZero())
	})

	t.Run("remove with enough stock", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Apples", 50)
		require.NoError(t, err)

		level, ok, err := store.Remove(ctx, "Apples", 10)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 40, level.Quantity)
	})

	t.Run("add rejects overflow", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Apples", math.MaxInt)
		require.NoError(t, err)

		level, err := store.Add(ctx, "Apples", 1)
		require.ErrorIs(t, err, storage.ErrQuantityOverflow)
		assert.Equal(t, math.MaxInt, level.Quantity)

		level, found, err := store.Get(ctx, "Apples")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, math.MaxInt, level.Quantity)
	})

	t.Run("remove exact quantity", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Pears", 3)
		require.NoError(t, err)

		level, ok, err := store.Remove(ctx, "Pears", 3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, level.Quantity)
	})

	t.Run("remove more than on hand", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Apples", 40)
		require.NoError(t, err)

		level, ok, err := store.Remove(ctx, "Apples", 60)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 40, level.Quantity)
	})

	t.Run("remove unknown item", func(t *testing.T) {
		store := newStore(t)

		level, ok, err := store.Remove(ctx, "Kiwis", 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "Kiwis", level.ItemName)
		assert.Equal(t, 0, level.Quantity)
	})

	t.Run("get", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Apples", 7)
		require.NoError(t, err)

		level, found, err := store.Get(ctx, "Apples")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 7, level.Quantity)

		_, found, err = store.Get(ctx, "Kiwis")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("list sorted by name", func(t *testing.T) {
		store := newStore(t)
		for _, name := range []string{"Pears", "Apples", "Bananas"} {
			_, err := store.Add(ctx, name, 1)
			require.NoError(t, err)
		}

		levels, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, levels, 3)
		assert.Equal(t, "Apples", levels[0].ItemName)
		assert.Equal(t, "Bananas", levels[1].ItemName)
		assert.Equal(t, "Pears", levels[2].ItemName)
	})

	t.Run("list empty", func(t *testing.T) {
		levels, err := newStore(t).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, levels)
	})

	t.Run("concurrent removes never oversell", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Apples", 10)
		require.NoError(t, err)

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			sold int
		)
		for range 25 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := store.Remove(ctx, "Apples", 1)
				if err == nil && ok {
					mu.Lock()
					sold++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, sold)
		level, _, err := store.Get(ctx, "Apples")
		require.NoError(t, err)
		assert.Equal(t, 0, level.Quantity)
	})
}
