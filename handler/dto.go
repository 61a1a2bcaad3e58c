package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/model"
	"storefront/query"
	"storefront/service"
)

// amount renders as a JSON number with exactly two decimals.
type amount float64

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.NewFromFloat(float64(a)).StringFixed(2)), nil
}

// --- request / response shapes ---
type productResp struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Price          amount `json:"price"`
	Tax            amount `json:"tax"`
	FinalPrice     amount `json:"final_price"`
	Stock          int    `json:"stock"`
	Author         string `json:"author,omitempty"`
	Publisher      string `json:"publisher,omitempty"`
	Brand          string `json:"brand,omitempty"`
	WarrantyMonths int    `json:"warranty_months,omitempty"`
}

type cartItemResp struct {
	Product  productResp `json:"product"`
	Quantity int         `json:"quantity"`
	Subtotal amount      `json:"subtotal"`
}

type cartResp struct {
	Customer string         `json:"customer"`
	Items    []cartItemResp `json:"items"`
	Lines    int            `json:"lines"`
	Units    int            `json:"units"`
	Tax      amount         `json:"tax"`
	Total    amount         `json:"total"`
}

type statsResp struct {
	Count         int          `json:"count"`
	Available     int          `json:"available"`
	AveragePrice  amount       `json:"average_price"`
	Cheapest      *productResp `json:"cheapest,omitempty"`
	MostExpensive *productResp `json:"most_expensive,omitempty"`
}

type orderLineResp struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice amount `json:"unit_price"`
	Tax       amount `json:"tax"`
	Subtotal  amount `json:"subtotal"`
}

type orderResp struct {
	ID                string              `json:"id,omitempty"`
	Customer          string              `json:"customer"`
	Status            model.OrderStatus   `json:"status"`
	Method            model.PaymentMethod `json:"method"`
	Lines             []orderLineResp     `json:"lines"`
	Total             amount              `json:"total"`
	Discount          amount              `json:"discount"`
	FinalAmount       amount              `json:"final_amount"`
	Installments      int                 `json:"installments,omitempty"`
	InstallmentAmount amount              `json:"installment_amount,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

type cartReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity,omitempty"` // ignored by remove
}

type checkoutReq struct {
	Method       string `json:"method"`
	Installments int    `json:"installments,omitempty"`
}

type stockReq struct {
	Stock *int `json:"stock"`
}

func toProductResp(p model.Product) productResp {
	out := productResp{
		ID:         p.ID(),
		Kind:       p.Kind().String(),
		Name:       p.Name(),
		Price:      amount(p.Price()),
		Tax:        amount(p.Tax()),
		FinalPrice: amount(p.FinalPrice()),
		Stock:      p.Stock(),
	}
	switch v := p.(type) {
	case *model.Book:
		out.Author = v.Author()
		out.Publisher = v.Publisher()
	case *model.Electronic:
		out.Brand = v.Brand()
		out.WarrantyMonths = v.WarrantyMonths()
	}
	return out
}

func toProductList(ps []model.Product) []productResp {
	return query.Map(ps, toProductResp)
}

func toCartItemResp(it model.CartItem) cartItemResp {
	return cartItemResp{Product: toProductResp(it.Product), Quantity: it.Quantity, Subtotal: amount(it.Subtotal())}
}

func toCartResp(customer string, items []model.CartItem, st query.Stats) cartResp {
	return cartResp{
		Customer: customer,
		Items:    query.Map(items, toCartItemResp),
		Lines:    st.Lines,
		Units:    st.Units,
		Tax:      amount(st.Tax),
		Total:    amount(st.Total),
	}
}

func toStatsResp(st service.CatalogStats) statsResp {
	out := statsResp{Count: st.Count, Available: st.Available, AveragePrice: amount(st.AveragePrice)}
	if st.Cheapest != nil {
		p := toProductResp(st.Cheapest)
		out.Cheapest = &p
	}
	if st.MostExpensive != nil {
		p := toProductResp(st.MostExpensive)
		out.MostExpensive = &p
	}
	return out
}

func toOrderResp(o model.Order) orderResp {
	return orderResp{
		ID:       o.ID,
		Customer: o.Customer,
		Status:   o.Status,
		Method:   o.Method,
		Lines: query.Map(o.Lines, func(l model.OrderLine) orderLineResp {
			return orderLineResp{
				ProductID: l.ProductID,
				Name:      l.Name,
				Quantity:  l.Quantity,
				UnitPrice: amount(l.UnitPrice),
				Tax:       amount(l.Tax),
				Subtotal:  amount(l.Subtotal),
			}
		}),
		Total:             amount(o.Total),
		Discount:          amount(o.Discount),
		FinalAmount:       amount(o.FinalAmount),
		Installments:      o.Installments,
		InstallmentAmount: amount(o.InstallmentAmount),
		CreatedAt:         o.CreatedAt,
	}
}
