package service

import (
	"context"

	"storefront/model"
	"storefront/query"
)

type ServiceInterface interface {
	Products() []model.Product
	Product(productID int64) (model.Product, error)
	Search(c query.Criteria) []model.Product
	CatalogStats() CatalogStats

	Reserve(ctx context.Context, productID int64, qty int) (model.CartItem, error)
	Release(ctx context.Context, productID int64) (model.CartItem, error)
	CartItems() []model.CartItem
	CartStats() query.Stats

	Checkout(ctx context.Context, payment model.Payment) (model.Order, error)
	SetStock(ctx context.Context, productID int64, stock int) error
	Save(ctx context.Context) error

	Customer() *model.Customer
}
