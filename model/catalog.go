package model

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrNilProduct       = errors.New("nil product")
)

// Catalog owns the products of a session. Cart entries point into it, so a
// stock change made through any reference is seen everywhere.
type Catalog struct {
	products []Product
}

// NewCatalog takes ownership of the loaded products, keeping their order.
func NewCatalog(products []Product) (*Catalog, error) {
	seen := make(map[int64]struct{}, len(products))
	out := make([]Product, 0, len(products))
	for i, p := range products {
		if p == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilProduct, i)
		}
		if _, ok := seen[p.ID()]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID())
		}
		seen[p.ID()] = struct{}{}
		out = append(out, p)
	}
	return &Catalog{products: out}, nil
}

// Products returns the catalog in load order. The slice is a copy; the
// products are shared.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int { return len(c.products) }
