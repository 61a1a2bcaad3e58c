package model

// CartItem pairs a catalog product with a reserved quantity.
type CartItem struct {
	Product  Product
	Quantity int
}

// Subtotal is the final price times the quantity.
func (it CartItem) Subtotal() float64 {
	return it.Product.FinalPrice() * float64(it.Quantity)
}

// Cart keeps at most one entry per product id, in insertion order. It never
// looks at stock.
type Cart struct {
	items []CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem increments the entry for p, or appends a new one.
func (c *Cart) AddItem(p Product, quantity int) {
	for i := range c.items {
		if c.items[i].Product.ID() == p.ID() {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, CartItem{Product: p, Quantity: quantity})
}

// RemoveItem drops the entry for productID. Absent ids are ignored.
func (c *Cart) RemoveItem(productID int64) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.Product.ID() != productID {
			kept = append(kept, it)
		}
	}
	clear(c.items[len(kept):])
	c.items = kept
}

// Item returns the entry for productID.
func (c *Cart) Item(productID int64) (CartItem, bool) {
	for _, it := range c.items {
		if it.Product.ID() == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

// Items returns a snapshot of the entries.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Clear()        { c.items = nil }
func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }
func (c *Cart) Len() int      { return len(c.items) }
