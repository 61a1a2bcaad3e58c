package model

import (
	"fmt"
	"strings"
)

// PaymentMethod selects how a checkout is settled.
type PaymentMethod int

const (
	PayCancel PaymentMethod = iota
	PayCash
	PayInstallments
)

// Payment policy constants.
const (
	CashDiscountPercent = 5.0
	MinInstallments     = 2
	MaxInstallments     = 12
)

func (m PaymentMethod) String() string {
	switch m {
	case PayCancel:
		return "cancel"
	case PayCash:
		return "cash"
	case PayInstallments:
		return "installments"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParsePaymentMethod accepts the names produced by String.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cancel":
		return PayCancel, true
	case "cash":
		return PayCash, true
	case "installments":
		return PayInstallments, true
	}
	return 0, false
}

func (m PaymentMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *PaymentMethod) UnmarshalText(b []byte) error {
	v, ok := ParsePaymentMethod(string(b))
	if !ok {
		return fmt.Errorf("unknown payment method %q", b)
	}
	*m = v
	return nil
}

// Payment is the policy chosen at checkout. Installments is only read for
// PayInstallments.
type Payment struct {
	Method       PaymentMethod
	Installments int
}

func Cash() Payment              { return Payment{Method: PayCash} }
func Cancel() Payment            { return Payment{Method: PayCancel} }
func Installments(n int) Payment { return Payment{Method: PayInstallments, Installments: n} }
