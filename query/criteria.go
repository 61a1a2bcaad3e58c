package query

import "storefront/model"

// SortOrder names a product ordering accepted by Criteria.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price"
	SortPriceDesc SortOrder = "-price"
	SortName      SortOrder = "name"
)

// Criteria is a declarative product search. Zero fields do not filter.
type Criteria struct {
	Kind          model.Kind
	MinPrice      *float64
	MaxPrice      *float64
	AvailableOnly bool
	MinStock      int
	Name          string
	Sort          SortOrder
}

// Predicate builds the conjunction of the set filters.
func (c Criteria) Predicate() Predicate {
	var preds []Predicate
	if c.Kind != 0 {
		preds = append(preds, ByKind(c.Kind))
	}
	if c.MinPrice != nil {
		preds = append(preds, MinPrice(*c.MinPrice))
	}
	if c.MaxPrice != nil {
		preds = append(preds, MaxPrice(*c.MaxPrice))
	}
	if c.AvailableOnly {
		preds = append(preds, Available())
	}
	if c.MinStock > 0 {
		preds = append(preds, MinStock(c.MinStock))
	}
	if c.Name != "" {
		preds = append(preds, NameContains(c.Name))
	}
	return All(preds...)
}

// Apply filters and then sorts ps.
func (c Criteria) Apply(ps []model.Product) []model.Product {
	steps := []func([]model.Product) []model.Product{
		func(in []model.Product) []model.Product { return Where(in, c.Predicate()) },
	}
	switch c.Sort {
	case SortPriceAsc:
		steps = append(steps, Sorter(model.Product.FinalPrice, false))
	case SortPriceDesc:
		steps = append(steps, Sorter(model.Product.FinalPrice, true))
	case SortName:
		steps = append(steps, Sorter(model.Product.Name, false))
	}
	return Compose(steps...)(ps)
}

// ValidSort reports whether s is a known ordering.
func ValidSort(s SortOrder) bool {
	switch s {
	case SortNone, SortPriceAsc, SortPriceDesc, SortName:
		return true
	}
	return false
}
