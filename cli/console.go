package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/model"
	"storefront/query"
	"storefront/service"
)

var errInputClosed = errors.New("input closed")

var rule = strings.Repeat("=", 70)

// console drives one interactive shopping session over line-based text.
type console struct {
	in  *bufio.Scanner
	out io.Writer
	svc service.ServiceInterface
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{in: bufio.NewScanner(in), out: out}
}

func (c *console) printf(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }
func (c *console) println(args ...any)               { fmt.Fprintln(c.out, args...) }

// prompt reads one trimmed line. ok is false once input is exhausted.
func (c *console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.in.Scan() {
		c.println()
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *console) promptInt(label string) (int, error) {
	s, ok := c.prompt(label)
	if !ok {
		return 0, errInputClosed
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid number", s)
	}
	return n, nil
}

// fail reports err unless input simply ran out.
func (c *console) fail(err error) {
	if errors.Is(err, errInputClosed) {
		return
	}
	c.println("[ERROR]", message(err))
}

func message(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return "Invalid quantity!"
	case errors.Is(err, service.ErrInsufficientStock):
		return "Insufficient stock!"
	case errors.Is(err, service.ErrProductNotFound):
		return "Product not found!"
	case errors.Is(err, service.ErrEmptyCart):
		return "Cart is empty! Add products before checking out."
	case errors.Is(err, service.ErrInvalidInstallmentCount):
		return "Invalid number of installments!"
	}
	return err.Error()
}

func (c *console) header() {
	c.println()
	c.println(rule)
	c.println("       STOREFRONT")
	c.println(rule)
}

func (c *console) menu() {
	c.println()
	c.println("[MAIN MENU]")
	c.println("  [1] List all products")
	c.println("  [2] Filter by category")
	c.println("  [3] Find product by ID")
	c.println("  [4] View cart")
	c.println("  [5] Add product to cart")
	c.println("  [6] Remove product from cart")
	c.println("  [7] Checkout")
	c.println("  [0] Exit")
	c.println(strings.Repeat("-", 70))
}

// run loops over the main menu until the customer exits or input ends. Both
// save the catalog.
func (c *console) run(ctx context.Context) error {
	for {
		c.menu()
		choice, ok := c.prompt("Option: ")
		if !ok {
			return c.exit(ctx)
		}
		switch choice {
		case "1":
			c.listProducts()
		case "2":
			c.filterByCategory()
		case "3":
			c.findProduct()
		case "4":
			c.showCart()
		case "5":
			c.addToCart(ctx)
		case "6":
			c.removeFromCart(ctx)
		case "7":
			c.checkout(ctx)
		case "0":
			return c.exit(ctx)
		default:
			c.println()
			c.println("[ERROR] Invalid option! Try again.")
		}
	}
}

func (c *console) exit(ctx context.Context) error {
	if err := c.svc.Save(ctx); err != nil {
		c.println("[ERROR] Stock changes could not be saved:", err)
		return WrapExitError(ExitFailure, "save catalog", err)
	}
	c.println()
	c.println("[DONE] Thanks for shopping with us! Goodbye!")
	return nil
}

func (c *console) describeAll(ps []model.Product) {
	for _, p := range ps {
		c.println()
		c.println(p.Describe())
	}
}

func (c *console) listProducts() {
	c.println()
	c.println(rule)
	c.println("[AVAILABLE PRODUCTS]")
	c.println(rule)
	ps := c.svc.Products()
	if len(ps) == 0 {
		c.println("[WARN] No products registered.")
		return
	}
	c.describeAll(ps)
	c.println(rule)
}

func (c *console) filterByCategory() {
	c.println()
	c.println("[FILTER BY CATEGORY]")
	c.println("  [1] Books")
	c.println("  [2] Electronics")
	choice, ok := c.prompt("Category: ")
	if !ok {
		return
	}
	var kind model.Kind
	switch choice {
	case "1":
		kind = model.KindBook
		c.println()
		c.println("[CATEGORY: BOOKS]")
	case "2":
		kind = model.KindElectronic
		c.println()
		c.println("[CATEGORY: ELECTRONICS]")
	default:
		c.println("[ERROR] Invalid option!")
		return
	}
	filtered := query.FilterByKind(c.svc.Products(), kind)
	if len(filtered) == 0 {
		c.println("[WARN] No products in this category.")
		return
	}
	c.describeAll(filtered)
}

// lookup asks for an id and shows the product.
func (c *console) lookup() (model.Product, bool) {
	id, err := c.promptInt("Product ID: ")
	if err != nil {
		c.fail(err)
		return nil, false
	}
	p, err := c.svc.Product(int64(id))
	if err != nil {
		c.println("[WARN] Product not found!")
		return nil, false
	}
	c.println()
	c.println("[FOUND]")
	c.println(p.Describe())
	return p, true
}

func (c *console) findProduct() { c.lookup() }

func (c *console) addToCart(ctx context.Context) {
	p, ok := c.lookup()
	if !ok {
		return
	}
	if !p.Available() {
		c.println("[ERROR] Out of stock!")
		return
	}
	qty, err := c.promptInt(fmt.Sprintf("Quantity (available: %d): ", p.Stock()))
	if err != nil {
		c.fail(err)
		return
	}
	if _, err := c.svc.Reserve(ctx, p.ID(), qty); err != nil {
		c.fail(err)
		return
	}
	c.printf("[OK] %dx %s added to cart!\n", qty, p.Name())
	c.printf("[STOCK] Stock updated: %d units\n", p.Stock())
}

func (c *console) removeFromCart(ctx context.Context) {
	items := c.svc.CartItems()
	if len(items) == 0 {
		c.println("[WARN] Cart is empty!")
		return
	}
	c.println()
	c.println("[CART ITEMS]")
	for _, it := range items {
		c.printf("  ID %d: %s (Qty: %d)\n", it.Product.ID(), it.Product.Name(), it.Quantity)
	}
	id, err := c.promptInt("ID of the product to remove: ")
	if err != nil {
		c.fail(err)
		return
	}
	item, err := c.svc.Release(ctx, int64(id))
	if err != nil {
		c.println("[WARN] Product not in cart!")
		return
	}
	c.printf("[OK] %s removed from cart!\n", item.Product.Name())
	c.printf("[STOCK] Stock returned: %d units\n", item.Product.Stock())
}

func (c *console) showCart() {
	c.println()
	c.println(rule)
	c.println("[YOUR CART]")
	c.println(rule)
	items := c.svc.CartItems()
	if len(items) == 0 {
		c.println("[WARN] Cart is empty!")
		c.println(rule)
		return
	}
	for _, it := range items {
		c.println()
		c.println(it.Product.Name())
		c.printf("  Quantity: %dx | Unit Price: $ %s | Subtotal: $ %s\n",
			it.Quantity, model.Money(it.Product.FinalPrice()), model.Money(it.Subtotal()))
	}
	c.println(strings.Repeat("-", 70))
	c.printf("[TOTAL] $ %s\n", model.Money(c.svc.CartStats().Total))
	c.println(rule)
}

func (c *console) checkout(ctx context.Context) {
	if len(c.svc.CartItems()) == 0 {
		c.fail(service.ErrEmptyCart)
		return
	}
	c.showCart()

	c.println()
	c.println("[PAYMENT METHODS]")
	c.printf("  [1] Cash (%.0f%% discount)\n", model.CashDiscountPercent)
	c.println("  [2] Installments (interest-free)")
	c.println("  [0] Cancel")
	choice, ok := c.prompt("Payment method: ")
	if !ok {
		return
	}

	var payment model.Payment
	switch choice {
	case "1":
		payment = model.Cash()
	case "2":
		n, err := c.promptInt(fmt.Sprintf("Number of installments (%d-%d): ", model.MinInstallments, model.MaxInstallments))
		if err != nil {
			c.fail(err)
			return
		}
		payment = model.Installments(n)
	case "0":
		payment = model.Cancel()
	default:
		c.println()
		c.println("[ERROR] Invalid option!")
		return
	}

	order, err := c.svc.Checkout(ctx, payment)
	if err != nil && !errors.Is(err, service.ErrPersistence) {
		c.fail(err)
		return
	}
	if order.Status == model.OrderCanceled {
		c.println()
		c.println("[CANCELED] Purchase canceled!")
		return
	}
	c.receipt(order)
	if err != nil {
		c.println("[ERROR] Stock changes could not be saved:", err)
		return
	}
	c.println("[OK] Purchase confirmed! Thank you!")
}

func (c *console) receipt(o model.Order) {
	c.println()
	c.println(rule)
	switch o.Method {
	case model.PayCash:
		c.println("[PURCHASE COMPLETE - CASH]")
		c.println(rule)
		c.printf("Customer: %s\n", o.Customer)
		c.printf("Order: %s\n", o.ID)
		c.printf("Original Amount: $ %s\n", model.Money(o.Total))
		c.printf("Discount (%.0f%%): $ %s\n", model.CashDiscountPercent, model.Money(o.Discount))
		c.printf("[FINAL AMOUNT] $ %s\n", model.Money(o.FinalAmount))
	case model.PayInstallments:
		c.println("[PURCHASE COMPLETE - INSTALLMENTS]")
		c.println(rule)
		c.printf("Customer: %s\n", o.Customer)
		c.printf("Order: %s\n", o.ID)
		c.printf("Total Amount: $ %s\n", model.Money(o.Total))
		c.printf("[INSTALLMENTS] %dx of $ %s (interest-free)\n", o.Installments, model.Money(o.InstallmentAmount))
	}
	c.println(rule)
}
