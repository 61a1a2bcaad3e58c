package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/model"
)

func cartItems() []model.CartItem {
	return []model.CartItem{
		{Product: model.NewBook(1, "Book", 50, 10, "", ""), Quantity: 3},
		{Product: model.NewElectronic(2, "Laptop", 200, 5, "Acme", 12), Quantity: 2},
	}
}

func TestCartTotal(t *testing.T) {
	assert.Equal(t, 0.0, CartTotal(nil))
	assert.Equal(t, 0.0, CartTotal([]model.CartItem{}))

	items := cartItems()
	assert.InDelta(t, 3*52.5+2*230.0, CartTotal(items), 1e-9)

	reversed := []model.CartItem{items[1], items[0]}
	assert.InDelta(t, CartTotal(items), CartTotal(reversed), 1e-9)
}

func TestItemCountAndTax(t *testing.T) {
	items := cartItems()
	assert.Equal(t, 0, ItemCount(nil))
	assert.Equal(t, 5, ItemCount(items))
	assert.InDelta(t, 3*2.5+2*30.0, TotalTax(items), 1e-9)
	assert.Equal(t, 0.0, TotalTax(nil))
}

func TestCartStats(t *testing.T) {
	assert.Equal(t, Stats{}, CartStats(nil))

	st := CartStats(cartItems())
	assert.Equal(t, 2, st.Lines)
	assert.Equal(t, 5, st.Units)
	assert.InDelta(t, 617.5, st.Total, 1e-9)
}

func TestApplyDiscount(t *testing.T) {
	assert.InDelta(t, 285.0, ApplyDiscount(300, 5), 1e-9)
	assert.InDelta(t, 300.0, ApplyDiscount(300, 0), 1e-9)
	assert.InDelta(t, 0.0, ApplyDiscount(300, 100), 1e-9)
	assert.Equal(t, 300.0, ApplyDiscount(300, -1))
	assert.Equal(t, 300.0, ApplyDiscount(300, 101))
}

func TestInstallment(t *testing.T) {
	assert.InDelta(t, 100.0, Installment(300, 3), 1e-9)
	assert.InDelta(t, 33.333333333, Installment(100, 3), 1e-6)
	assert.Equal(t, 300.0, Installment(300, 0))
	assert.Equal(t, 300.0, Installment(300, -2))
}
