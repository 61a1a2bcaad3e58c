package query

import (
	"strings"

	"golang.org/x/text/cases"

	"storefront/model"
)

// Predicate selects products.
type Predicate func(model.Product) bool

func ByKind(kind model.Kind) Predicate {
	return func(p model.Product) bool { return p.Kind() == kind }
}

// MinPrice keeps products whose final price is at least floor.
func MinPrice(floor float64) Predicate {
	return func(p model.Product) bool { return p.FinalPrice() >= floor }
}

// MaxPrice keeps products whose final price is at most ceiling.
func MaxPrice(ceiling float64) Predicate {
	return func(p model.Product) bool { return p.FinalPrice() <= ceiling }
}

func Available() Predicate {
	return func(p model.Product) bool { return p.Stock() > 0 }
}

func MinStock(floor int) Predicate {
	return func(p model.Product) bool { return p.Stock() >= floor }
}

// NameContains matches a substring of the name, ignoring case.
func NameContains(sub string) Predicate {
	fold := cases.Fold()
	needle := fold.String(sub)
	return func(p model.Product) bool {
		return strings.Contains(fold.String(p.Name()), needle)
	}
}

// All combines predicates with logical and. No predicates matches everything.
func All(preds ...Predicate) Predicate {
	return func(p model.Product) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Where applies a predicate to a product slice.
func Where(ps []model.Product, pred Predicate) []model.Product {
	return Filter(ps, pred)
}

func FilterByKind(ps []model.Product, kind model.Kind) []model.Product {
	return Where(ps, ByKind(kind))
}

func FilterMinPrice(ps []model.Product, floor float64) []model.Product {
	return Where(ps, MinPrice(floor))
}

func FilterMaxPrice(ps []model.Product, ceiling float64) []model.Product {
	return Where(ps, MaxPrice(ceiling))
}

func FilterAvailable(ps []model.Product) []model.Product {
	return Where(ps, Available())
}

func FilterMinStock(ps []model.Product, floor int) []model.Product {
	return Where(ps, MinStock(floor))
}

func SearchByName(ps []model.Product, sub string) []model.Product {
	return Where(ps, NameContains(sub))
}

// MinPriceFilter returns a filter bound to floor, for use with Compose.
func MinPriceFilter(floor float64) func([]model.Product) []model.Product {
	return func(ps []model.Product) []model.Product { return FilterMinPrice(ps, floor) }
}

// MinStockFilter returns a filter bound to floor, for use with Compose.
func MinStockFilter(floor int) func([]model.Product) []model.Product {
	return func(ps []model.Product) []model.Product { return FilterMinStock(ps, floor) }
}

func Names(ps []model.Product) []string {
	return Map(ps, model.Product.Name)
}

func FinalPrices(ps []model.Product) []float64 {
	return Map(ps, model.Product.FinalPrice)
}

// SortByPrice orders by final price.
func SortByPrice(ps []model.Product, ascending bool) []model.Product {
	return SortBy(ps, model.Product.FinalPrice, !ascending)
}

func SortByName(ps []model.Product) []model.Product {
	return SortBy(ps, model.Product.Name, false)
}

// FindByID scans ps in order and stops at the first match.
func FindByID(ps []model.Product, id int64) (model.Product, bool) {
	for i := 0; i < len(ps); i++ {
		if ps[i].ID() == id {
			return ps[i], true
		}
	}
	return nil, false
}

// AveragePrice is the mean final price, 0 for an empty slice.
func AveragePrice(ps []model.Product) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := Reduce(ps, 0.0, func(acc float64, p model.Product) float64 { return acc + p.FinalPrice() })
	return sum / float64(len(ps))
}

// MostExpensive returns the product with the highest final price. On ties
// the earliest product wins.
func MostExpensive(ps []model.Product) (model.Product, bool) {
	return extremum(ps, func(candidate, best float64) bool { return candidate > best })
}

// Cheapest returns the product with the lowest final price. On ties the
// earliest product wins.
func Cheapest(ps []model.Product) (model.Product, bool) {
	return extremum(ps, func(candidate, best float64) bool { return candidate < best })
}

func extremum(ps []model.Product, better func(candidate, best float64) bool) (model.Product, bool) {
	if len(ps) == 0 {
		return nil, false
	}
	best := Reduce(ps[1:], ps[0], func(acc, p model.Product) model.Product {
		if better(p.FinalPrice(), acc.FinalPrice()) {
			return p
		}
		return acc
	})
	return best, true
}

// PositiveQuantity reports whether q can be reserved at all.
func PositiveQuantity(q int) bool { return q > 0 }

// HasStock reports whether p can cover q units.
func HasStock(p model.Product, q int) bool { return p.Stock() >= q }
