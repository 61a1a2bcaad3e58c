package model

// Customer owns exactly one cart for the whole session.
type Customer struct {
	name  string
	taxID string
	cart  *Cart
}

func NewCustomer(name, taxID string) *Customer {
	return &Customer{name: name, taxID: taxID, cart: NewCart()}
}

func (c *Customer) Name() string  { return c.name }
func (c *Customer) TaxID() string { return c.taxID }
func (c *Customer) Cart() *Cart   { return c.cart }
