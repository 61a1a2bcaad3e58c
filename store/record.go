package store

import (
	"errors"
	"fmt"
	"math"

	"storefront/model"
)

// ProductRecord is the persisted shape of a product. Variant fields are empty
// for the other variant.
type ProductRecord struct {
	ID             int64   `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Price          float64 `json:"price" yaml:"price"`
	Stock          int     `json:"stock" yaml:"stock"`
	Type           string  `json:"type" yaml:"type"`
	Author         string  `json:"author,omitempty" yaml:"author,omitempty"`
	Publisher      string  `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Brand          string  `json:"brand,omitempty" yaml:"brand,omitempty"`
	WarrantyMonths int     `json:"warranty_months,omitempty" yaml:"warranty_months,omitempty"`
}

// catalogDocument is the top-level file layout.
type catalogDocument struct {
	Products []ProductRecord `json:"products" yaml:"products"`
}

// ToRecord flattens a product for persistence.
func ToRecord(p model.Product) ProductRecord {
	r := ProductRecord{
		ID:    p.ID(),
		Name:  p.Name(),
		Price: p.Price(),
		Stock: p.Stock(),
		Type:  p.Kind().String(),
	}
	switch v := p.(type) {
	case *model.Book:
		r.Author = v.Author()
		r.Publisher = v.Publisher()
	case *model.Electronic:
		r.Brand = v.Brand()
		r.WarrantyMonths = v.WarrantyMonths()
	}
	return r
}

// Product rebuilds the variant named by Type.
func (r ProductRecord) Product() (model.Product, error) {
	kind, err := model.ParseKind(r.Type)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(r.Price) || math.IsInf(r.Price, 0) || r.Price < 0 {
		return nil, fmt.Errorf("product %d: invalid price %v", r.ID, r.Price)
	}
	switch kind {
	case model.KindBook:
		return model.NewBook(r.ID, r.Name, r.Price, r.Stock, r.Author, r.Publisher), nil
	case model.KindElectronic:
		return model.NewElectronic(r.ID, r.Name, r.Price, r.Stock, r.Brand, r.WarrantyMonths), nil
	}
	return nil, fmt.Errorf("%w: %v", model.ErrUnknownKind, kind)
}

// fromRecords converts records in order. Unknown variants are skipped and
// counted.
func fromRecords(records []ProductRecord) ([]model.Product, int, error) {
	out := make([]model.Product, 0, len(records))
	skipped := 0
	for _, r := range records {
		p, err := r.Product()
		if errors.Is(err, model.ErrUnknownKind) {
			skipped++
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, skipped, nil
}

func toRecords(products []model.Product) []ProductRecord {
	out := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		out = append(out, ToRecord(p))
	}
	return out
}
