package service

import "errors"

// Outcomes reported by the engine. Callers match them with errors.Is.
var (
	ErrInvalidQuantity         = errors.New("quantity must be > 0")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrProductNotFound         = errors.New("product not found")
	ErrEmptyCart               = errors.New("cart empty")
	ErrInvalidInstallmentCount = errors.New("installment count must be between 2 and 12")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrInvalidStockValue       = errors.New("stock cannot be negative")
	ErrPersistence             = errors.New("catalog could not be saved")
)
