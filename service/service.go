package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"storefront/model"
	"storefront/query"
)

const instrumentationName = "storefront/service"

// CatalogSaver persists the catalog after a completed checkout.
type CatalogSaver interface {
	Save(ctx context.Context, products []model.Product) error
}

// Service is the stock-transaction engine for one customer session. It is
// not safe for concurrent use; callers serialize access.
type Service struct {
	catalog  *model.Catalog
	customer *model.Customer
	store    CatalogSaver

	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
	newID  func() string

	cartOperations metric.Int64Counter
	checkouts      metric.Int64Counter
	checkoutAmount metric.Float64Histogram
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }
func WithTracer(t trace.Tracer) Option { return func(s *Service) { s.tracer = t } }

// WithMeter replaces the global meter used for the service counters.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.initMetrics(m) }
}

func WithClock(now func() time.Time) Option  { return func(s *Service) { s.now = now } }
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

func NewService(catalog *model.Catalog, customer *model.Customer, st CatalogSaver, opts ...Option) *Service {
	s := &Service{
		catalog:  catalog,
		customer: customer,
		store:    st,
		logger:   slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	s.initMetrics(otel.Meter(instrumentationName))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) initMetrics(m metric.Meter) {
	s.cartOperations, _ = m.Int64Counter(
		"storefront.cart.operations",
		metric.WithDescription("Cart reservations and releases by result"),
	)
	s.checkouts, _ = m.Int64Counter(
		"storefront.checkouts",
		metric.WithDescription("Checkouts by payment method and result"),
	)
	s.checkoutAmount, _ = m.Float64Histogram(
		"storefront.checkout.amount",
		metric.WithDescription("Final amount of completed checkouts"),
	)
}

func (s *Service) Customer() *model.Customer { return s.customer }

func (s *Service) Products() []model.Product { return s.catalog.Products() }

// Product looks a product up by a linear scan of the catalog.
func (s *Service) Product(productID int64) (model.Product, error) {
	p, ok := query.FindByID(s.catalog.Products(), productID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	return p, nil
}

func (s *Service) Search(c query.Criteria) []model.Product {
	return c.Apply(s.catalog.Products())
}

// CatalogStats summarizes final prices over the catalog. Cheapest and
// MostExpensive are nil for an empty catalog.
type CatalogStats struct {
	Count         int
	Available     int
	AveragePrice  float64
	Cheapest      model.Product
	MostExpensive model.Product
}

func (s *Service) CatalogStats() CatalogStats {
	ps := s.catalog.Products()
	st := CatalogStats{
		Count:        len(ps),
		Available:    len(query.FilterAvailable(ps)),
		AveragePrice: query.AveragePrice(ps),
	}
	st.Cheapest, _ = query.Cheapest(ps)
	st.MostExpensive, _ = query.MostExpensive(ps)
	return st
}

func (s *Service) CartItems() []model.CartItem { return s.customer.Cart().Items() }

func (s *Service) CartStats() query.Stats { return query.CartStats(s.customer.Cart().Items()) }

// Reserve takes qty units out of stock and into the cart. Nothing changes
// unless every check passes.
func (s *Service) Reserve(ctx context.Context, productID int64, qty int) (model.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Reserve")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", qty))

	if !query.PositiveQuantity(qty) {
		return model.CartItem{}, s.cartFailure(ctx, span, "reserve", ErrInvalidQuantity)
	}
	p, err := s.Product(productID)
	if err != nil {
		return model.CartItem{}, s.cartFailure(ctx, span, "reserve", err)
	}
	if !query.HasStock(p, qty) {
		err := fmt.Errorf("%w: product %d has %d, requested %d", ErrInsufficientStock, productID, p.Stock(), qty)
		return model.CartItem{}, s.cartFailure(ctx, span, "reserve", err)
	}

	cart := s.customer.Cart()
	p.SetStock(p.Stock() - qty)
	cart.AddItem(p, qty)
	item, _ := cart.Item(productID)

	s.cartOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "reserve"),
		attribute.String("result", "success"),
	))
	s.logger.InfoContext(ctx, "stock_reserved",
		slog.Int64("product_id", productID),
		slog.Int("quantity", qty),
		slog.Int("stock_left", p.Stock()),
	)
	span.SetStatus(codes.Ok, "reserved")
	return item, nil
}

// Release returns the whole cart quantity of a product to stock and drops
// the cart entry.
func (s *Service) Release(ctx context.Context, productID int64) (model.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Release")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	cart := s.customer.Cart()
	item, ok := cart.Item(productID)
	if !ok {
		err := fmt.Errorf("%w in cart: %d", ErrProductNotFound, productID)
		return model.CartItem{}, s.cartFailure(ctx, span, "release", err)
	}

	item.Product.SetStock(item.Product.Stock() + item.Quantity)
	cart.RemoveItem(productID)

	s.cartOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", "release"),
		attribute.String("result", "success"),
	))
	s.logger.InfoContext(ctx, "stock_released",
		slog.Int64("product_id", productID),
		slog.Int("quantity", item.Quantity),
		slog.Int("stock", item.Product.Stock()),
	)
	span.SetStatus(codes.Ok, "released")
	return item, nil
}

// Checkout settles the cart under payment. A completed checkout saves the
// catalog and clears the cart; a failed save is reported with ErrPersistence
// alongside the completed order. Cancel and validation failures leave the
// cart, stock and store untouched.
func (s *Service) Checkout(ctx context.Context, payment model.Payment) (model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Service.Checkout")
	defer span.End()
	span.SetAttributes(attribute.String("payment.method", payment.Method.String()))

	cart := s.customer.Cart()
	if cart.IsEmpty() {
		return model.Order{}, s.checkoutFailure(ctx, span, payment, ErrEmptyCart)
	}

	items := cart.Items()
	total := query.CartTotal(items)
	order := model.Order{
		Customer:    s.customer.Name(),
		Method:      payment.Method,
		Lines:       orderLines(items),
		Total:       total,
		FinalAmount: total,
		CreatedAt:   s.now(),
	}

	switch payment.Method {
	case model.PayCancel:
		order.Status = model.OrderCanceled
		s.checkouts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", payment.Method.String()),
			attribute.String("result", "canceled"),
		))
		s.logger.InfoContext(ctx, "checkout_canceled", slog.Float64("total", total))
		span.SetStatus(codes.Ok, "canceled")
		return order, nil
	case model.PayCash:
		order.FinalAmount = query.ApplyDiscount(total, model.CashDiscountPercent)
		order.Discount = total - order.FinalAmount
	case model.PayInstallments:
		n := payment.Installments
		if n < model.MinInstallments || n > model.MaxInstallments {
			err := fmt.Errorf("%w: got %d", ErrInvalidInstallmentCount, n)
			return model.Order{}, s.checkoutFailure(ctx, span, payment, err)
		}
		order.Installments = n
		order.InstallmentAmount = query.Installment(total, n)
	default:
		return model.Order{}, s.checkoutFailure(ctx, span, payment, ErrInvalidPaymentMethod)
	}

	order.ID = s.newID()
	order.Status = model.OrderCompleted
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Float64("order.final_amount", order.FinalAmount))

	saveErr := s.store.Save(ctx, s.catalog.Products())
	cart.Clear()

	s.checkoutAmount.Record(ctx, order.FinalAmount, metric.WithAttributes(attribute.String("method", payment.Method.String())))
	s.checkouts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", payment.Method.String()),
		attribute.String("result", "success"),
	))
	s.logger.InfoContext(ctx, "checkout_completed",
		slog.String("order_id", order.ID),
		slog.String("method", payment.Method.String()),
		slog.Float64("total", order.Total),
		slog.Float64("final_amount", order.FinalAmount),
	)

	if saveErr != nil {
		span.RecordError(saveErr)
		span.SetStatus(codes.Error, "catalog save failed")
		s.logger.ErrorContext(ctx, "catalog_save_failed", slog.String("order_id", order.ID), slog.Any("error", saveErr))
		return order, fmt.Errorf("%w: %w", ErrPersistence, saveErr)
	}
	span.SetStatus(codes.Ok, "completed")
	return order, nil
}

// SetStock overwrites a product's stock. Unlike model.Product.SetStock, a
// negative value is reported instead of ignored.
func (s *Service) SetStock(ctx context.Context, productID int64, stock int) error {
	if stock < 0 {
		return ErrInvalidStockValue
	}
	p, err := s.Product(productID)
	if err != nil {
		return err
	}
	p.SetStock(stock)
	s.logger.InfoContext(ctx, "stock_set", slog.Int64("product_id", productID), slog.Int("stock", stock))
	return nil
}

// Save persists the catalog as it stands, e.g. at the end of a session.
func (s *Service) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.catalog.Products()); err != nil {
		s.logger.ErrorContext(ctx, "catalog_save_failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.logger.InfoContext(ctx, "catalog_saved", slog.Int("products", s.catalog.Len()))
	return nil
}

func orderLines(items []model.CartItem) []model.OrderLine {
	return query.Map(items, func(it model.CartItem) model.OrderLine {
		return model.OrderLine{
			ProductID: it.Product.ID(),
			Name:      it.Product.Name(),
			Quantity:  it.Quantity,
			UnitPrice: it.Product.FinalPrice(),
			Tax:       it.Product.Tax() * float64(it.Quantity),
			Subtotal:  it.Subtotal(),
		}
	})
}

func (s *Service) cartFailure(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.cartOperations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("result", resultLabel(err)),
	))
	s.logger.WarnContext(ctx, op+"_rejected", slog.String("error", err.Error()))
	return err
}

func (s *Service) checkoutFailure(ctx context.Context, span trace.Span, payment model.Payment, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.checkouts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", payment.Method.String()),
		attribute.String("result", resultLabel(err)),
	))
	s.logger.WarnContext(ctx, "checkout_rejected", slog.String("error", err.Error()))
	return err
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrProductNotFound):
		return "not_found"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInvalidInstallmentCount):
		return "invalid_installments"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "invalid_method"
	}
	return "error"
}
