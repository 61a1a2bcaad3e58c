package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the variant tag of a catalog product.
type Kind int

const (
	KindBook Kind = iota + 1
	KindElectronic
)

// Tax rates per variant.
const (
	BookTaxRate       = 0.05
	ElectronicTaxRate = 0.15
)

// ErrUnknownKind is returned by ParseKind for tags that name no variant.
var ErrUnknownKind = errors.New("unknown product kind")

// String returns the persisted tag of the kind.
func (k Kind) String() string {
	switch k {
	case KindBook:
		return "book"
	case KindElectronic:
		return "electronic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a persisted tag back to its Kind. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "book":
		return KindBook, nil
	case "electronic":
		return KindElectronic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Product is a catalog entry. The set of implementations is closed to this
// package: *Book and *Electronic.
type Product interface {
	ID() int64
	Name() string
	Price() float64
	Stock() int
	SetStock(n int)
	Available() bool

	Kind() Kind
	TaxRate() float64
	Tax() float64
	FinalPrice() float64
	Describe() string

	product()
}

// base holds the attributes shared by every variant.
type base struct {
	id    int64
	name  string
	price float64
	stock int
}

func (b *base) ID() int64       { return b.id }
func (b *base) Name() string    { return b.name }
func (b *base) Price() float64  { return b.price }
func (b *base) Stock() int      { return b.stock }
func (b *base) Available() bool { return b.stock > 0 }
func (b *base) product()        {}

// SetStock replaces the stock count. Negative values are ignored.
func (b *base) SetStock(n int) {
	if n >= 0 {
		b.stock = n
	}
}

// Book is taxed at 5%.
type Book struct {
	base
	author    string
	publisher string
}

// NewBook builds a Book. Negative stock is clamped to zero.
func NewBook(id int64, name string, price float64, stock int, author, publisher string) *Book {
	b := &Book{base: base{id: id, name: name, price: price}, author: author, publisher: publisher}
	b.SetStock(stock)
	return b
}

func (b *Book) Author() string    { return b.author }
func (b *Book) Publisher() string { return b.publisher }
func (b *Book) Kind() Kind        { return KindBook }
func (b *Book) TaxRate() float64  { return BookTaxRate }
func (b *Book) Tax() float64      { return b.price * BookTaxRate }

func (b *Book) FinalPrice() float64 { return b.price + b.Tax() }

func (b *Book) Describe() string {
	var sb strings.Builder
	sb.WriteString("[BOOK]\n")
	fmt.Fprintf(&sb, "   ID: %d\n", b.id)
	fmt.Fprintf(&sb, "   Name: %s\n", b.name)
	fmt.Fprintf(&sb, "   Author: %s\n", b.author)
	fmt.Fprintf(&sb, "   Publisher: %s\n", b.publisher)
	writeAmounts(&sb, b)
	return sb.String()
}

// Electronic is taxed at 15%.
type Electronic struct {
	base
	brand          string
	warrantyMonths int
}

// NewElectronic builds an Electronic. Negative stock is clamped to zero.
func NewElectronic(id int64, name string, price float64, stock int, brand string, warrantyMonths int) *Electronic {
	e := &Electronic{base: base{id: id, name: name, price: price}, brand: brand, warrantyMonths: warrantyMonths}
	e.SetStock(stock)
	return e
}

func (e *Electronic) Brand() string       { return e.brand }
func (e *Electronic) WarrantyMonths() int { return e.warrantyMonths }
func (e *Electronic) Kind() Kind          { return KindElectronic }
func (e *Electronic) TaxRate() float64    { return ElectronicTaxRate }
func (e *Electronic) Tax() float64        { return e.price * ElectronicTaxRate }

func (e *Electronic) FinalPrice() float64 { return e.price + e.Tax() }

func (e *Electronic) Describe() string {
	var sb strings.Builder
	sb.WriteString("[ELECTRONIC]\n")
	fmt.Fprintf(&sb, "   ID: %d\n", e.id)
	fmt.Fprintf(&sb, "   Name: %s\n", e.name)
	fmt.Fprintf(&sb, "   Brand: %s\n", e.brand)
	fmt.Fprintf(&sb, "   Warranty: %d months\n", e.warrantyMonths)
	writeAmounts(&sb, e)
	return sb.String()
}

// writeAmounts renders the price block common to every variant. The last
// line carries no trailing newline.
func writeAmounts(sb *strings.Builder, p Product) {
	fmt.Fprintf(sb, "   Base Price: $ %s\n", Money(p.Price()))
	fmt.Fprintf(sb, "   Tax (%.0f%%): $ %s\n", p.TaxRate()*100, Money(p.Tax()))
	fmt.Fprintf(sb, "   Final Price: $ %s\n", Money(p.FinalPrice()))
	fmt.Fprintf(sb, "   Stock: %d units", p.Stock())
}

// Money formats an amount with exactly two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
