package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

// SQLiteStockStore implements StockStore backed by SQLite.
type SQLiteStockStore struct {
	db *sql.DB
}

// NewSQLiteStockStore returns a new SQLiteStockStore.
func NewSQLiteStockStore(db *sql.DB) *SQLiteStockStore {
	return &SQLiteStockStore{db: db}
}

// Add upserts the item row, adding qty to any existing quantity. The
// update is skipped when the sum would pass math.MaxInt.
func (s *SQLiteStockStore) Add(ctx context.Context, item string, qty int) (StockLevel, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_levels (item_name, quantity, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(item_name) DO UPDATE SET
			quantity   = quantity + excluded.quantity,
			updated_at = excluded.updated_at
		WHERE stock_levels.quantity <= ? - excluded.quantity`,
		item, qty, now, math.MaxInt,
	)
	if err != nil {
		return StockLevel{}, fmt.Errorf("adding stock for %q: %w", item, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return StockLevel{}, fmt.Errorf("checking rows affected: %w", err)
	}

	level, _, err := s.Get(ctx, item)
	if err != nil {
		return StockLevel{}, err
	}
	if n == 0 {
		return level, fmt.Errorf("adding %d to %q: %w", qty, item, ErrQuantityOverflow)
	}
	return level, nil
}

// Remove decrements the quantity in a single conditional UPDATE so two
// concurrent sales cannot both take the last units.
func (s *SQLiteStockStore) Remove(ctx context.Context, item string, qty int) (StockLevel, bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stock_levels
		SET quantity = quantity - ?, updated_at = ?
		WHERE item_name = ? AND quantity >= ?`,
		qty, time.Now().UTC(), item, qty,
	)
	if err != nil {
		return StockLevel{}, false, fmt.Errorf("removing stock for %q: %w", item, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return StockLevel{}, false, fmt.Errorf("checking rows affected: %w", err)
	}

	level, _, err := s.Get(ctx, item)
	if err != nil {
		return StockLevel{}, false, err
	}
	return level, n == 1, nil
}

func (s *SQLiteStockStore) Get(ctx context.Context, item string) (StockLevel, bool, error) {
	var level StockLevel
	err := s.db.QueryRowContext(ctx, `
		SELECT item_name, quantity, updated_at
		FROM stock_levels
		WHERE item_name = ?`, item,
	).Scan(&level.ItemName, &level.Quantity, &level.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StockLevel{ItemName: item}, false, nil
	}
	if err != nil {
		return StockLevel{}, false, fmt.Errorf("querying stock for %q: %w", item, err)
	}
	return level, true, nil
}

func (s *SQLiteStockStore) List(ctx context.Context) (levels []StockLevel, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_name, quantity, updated_at
		FROM stock_levels
		ORDER BY item_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying stock levels: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	levels = []StockLevel{}
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.ItemName, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning stock level row: %w", err)
		}
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock level rows: %w", err)
	}
	return levels, nil
}

// Compile-time interface check.
var _ StockStore = (*SQLiteStockStore)(nil)
