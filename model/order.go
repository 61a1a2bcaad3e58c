package model

import "time"

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

// OrderLine is a cart entry frozen at checkout time.
type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Tax       float64 `json:"tax"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is the outcome of a checkout.
type Order struct {
	ID                string        `json:"id"`
	Customer          string        `json:"customer"`
	Status            OrderStatus   `json:"status"`
	Method            PaymentMethod `json:"method"`
	Lines             []OrderLine   `json:"lines"`
	Total             float64       `json:"total"`
	Discount          float64       `json:"discount"`
	FinalAmount       float64       `json:"final_amount"`
	Installments      int           `json:"installments,omitempty"`
	InstallmentAmount float64       `json:"installment_amount,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}
