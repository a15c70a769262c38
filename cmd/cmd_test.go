package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/stockroom/internal/config"
	"github.com/shaharia-lab/stockroom/internal/inventory"
	"github.com/shaharia-lab/stockroom/internal/storage"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	err := runDemo(context.Background(), &out, demoOptions{item: "Apples", stock: 50, noColor: true})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "1. Add 50 Apples to stock")
	assert.Contains(t, text, "sold 10 Apples, 40 left")
	assert.Contains(t, text, "not enough Apples in stock, 40 left")
	assert.Contains(t, text, "Apples: 40")

	order := []string{
		inventory.EventItemAdded,
		inventory.EventCustomerRequest,
		inventory.EventInventoryChecked,
		inventory.EventItemSold,
		inventory.EventItemRemoved,
		inventory.EventStockInsufficient,
		inventory.EventReportGenerated,
	}
	last := -1
	for _, name := range order {
		idx := strings.Index(text[last+1:], name)
		require.GreaterOrEqual(t, idx, 0, "missing %s after offset %d", name, last)
		last += idx + 1
	}
}

func TestRunDemo_RejectsNonPositiveStock(t *testing.T) {
	err := runDemo(context.Background(), &bytes.Buffer{}, demoOptions{item: "Apples", stock: 0})
	require.Error(t, err)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitOrigins(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitOrigins(""))
}

func TestOpenStores(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageMemory, DataDir: t.TempDir()}
	s, err := openStores(cfg)
	require.NoError(t, err)
	assert.True(t, s.fresh)
	assert.IsType(t, &storage.MemoryStockStore{}, s.stock)
	require.NoError(t, s.Close())

	cfg.Storage = config.StorageSQLite
	s, err = openStores(cfg)
	require.NoError(t, err)
	assert.True(t, s.fresh)
	require.NoError(t, s.Close())

	s, err = openStores(cfg)
	require.NoError(t, err)
	assert.False(t, s.fresh)
	require.NoError(t, s.Close())

	cfg.Storage = "redis"
	_, err = openStores(cfg)
	require.Error(t, err)
}

func TestSeedCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - name: Apples\n    quantity: 50\n  - name: Pears\n    quantity: 3\n"), 0o600))

	store := storage.NewMemoryStockStore()
	stock := inventory.NewItemStock(store, noopEmitter{})
	require.NoError(t, seedCatalog(context.Background(), path, stock))

	levels, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "Apples", levels[0].ItemName)
	assert.Equal(t, 50, levels[0].Quantity)
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, string, any) error { return nil }

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "stockroom dev"))
}
