package query

import "storefront/model"

// CartTotal sums final price times quantity. Empty input yields 0.
func CartTotal(items []model.CartItem) float64 {
	return Reduce(Map(items, model.CartItem.Subtotal), 0.0, func(acc, v float64) float64 { return acc + v })
}

// ItemCount sums the quantities.
func ItemCount(items []model.CartItem) int {
	return Reduce(items, 0, func(acc int, it model.CartItem) int { return acc + it.Quantity })
}

// TotalTax sums tax times quantity.
func TotalTax(items []model.CartItem) float64 {
	return Reduce(items, 0.0, func(acc float64, it model.CartItem) float64 {
		return acc + it.Product.Tax()*float64(it.Quantity)
	})
}

// Stats summarizes a cart.
type Stats struct {
	Lines int     `json:"lines"`
	Units int     `json:"units"`
	Tax   float64 `json:"tax"`
	Total float64 `json:"total"`
}

func CartStats(items []model.CartItem) Stats {
	return Stats{
		Lines: len(items),
		Units: ItemCount(items),
		Tax:   TotalTax(items),
		Total: CartTotal(items),
	}
}

// ApplyDiscount takes percent off value. Percentages outside [0, 100] leave
// value unchanged.
func ApplyDiscount(value, percent float64) float64 {
	if percent < 0 || percent > 100 {
		return value
	}
	return value - value*(percent/100)
}

// Installment splits total evenly into n parts. n <= 0 returns total.
func Installment(total float64, n int) float64 {
	if n <= 0 {
		return total
	}
	return total / float64(n)
}
