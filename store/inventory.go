package store

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a product id has no row.
	ErrNotFound = errors.New("product not found")
	// ErrNegativeStock is returned by stock writes below zero.
	ErrNegativeStock = errors.New("stock cannot be negative")
)

// UpdateStock sets the absolute stock for a product (admin operation).
func (s *SQLStore) UpdateStock(ctx context.Context, productID int64, stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE products SET stock=$1 WHERE id=$2`, stock, productID)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStock returns current stock for a product.
func (s *SQLStore) GetStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := s.DB.QueryRowContext(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return stock, nil
}
