package store

import (
	"context"

	"storefront/model"
)

// CatalogStore loads the catalog at session start and persists it after
// checkout or on exit.
type CatalogStore interface {
	Load(ctx context.Context) ([]model.Product, error)
	Save(ctx context.Context, products []model.Product) error
	UpdateStock(ctx context.Context, productID int64, stock int) error
	GetStock(ctx context.Context, productID int64) (int, error)
	// Skipped reports how many records of unknown type the last Load dropped.
	Skipped() int

	Close() error
}
