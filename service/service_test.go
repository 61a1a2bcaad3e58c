package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"storefront/model"
	"storefront/query"
)

// ---- fakeStore implementing CatalogSaver for tests ----
type fakeStore struct {
	SaveFn func(ctx context.Context, products []model.Product) error
	calls  int
}

func (f *fakeStore) Save(ctx context.Context, products []model.Product) error {
	f.calls++
	if f.SaveFn == nil {
		return nil
	}
	return f.SaveFn(ctx, products)
}

const tolerance = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= tolerance }

// newTestService builds the reference catalog: Book{1, 50, stock 10} and
// Electronic{2, 200, stock 5}.
func newTestService(t *testing.T, fs *fakeStore) (*Service, *model.Book, *model.Electronic) {
	t.Helper()
	book := model.NewBook(1, "Clean Code", 50, 10, "Robert Martin", "Prentice Hall")
	laptop := model.NewElectronic(2, "Laptop", 200, 5, "Acme", 12)
	catalog, err := model.NewCatalog([]model.Product{book, laptop})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	svc := NewService(catalog, model.NewCustomer("Ana", "123"), fs,
		WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
		WithIDGenerator(func() string { return "order-1" }),
	)
	return svc, book, laptop
}

// ---- Tests ----

func TestReserveAndReleaseScenario(t *testing.T) {
	svc, book, _ := newTestService(t, &fakeStore{})
	ctx := context.Background()

	item, err := svc.Reserve(ctx, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 3 || item.Product.ID() != 1 {
		t.Fatalf("unexpected cart item: %+v", item)
	}
	if book.Stock() != 7 {
		t.Fatalf("expected stock 7, got %d", book.Stock())
	}
	items := svc.CartItems()
	if len(items) != 1 || items[0].Product.ID() != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected cart: %+v", items)
	}
	if total := svc.CartStats().Total; !near(total, 157.50) {
		t.Fatalf("expected total 157.50, got %v", total)
	}

	released, err := svc.Release(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released.Quantity != 3 {
		t.Fatalf("expected released quantity 3, got %d", released.Quantity)
	}
	if book.Stock() != 10 {
		t.Fatalf("expected stock 10, got %d", book.Stock())
	}
	if !svc.Customer().Cart().IsEmpty() {
		t.Fatalf("expected empty cart")
	}
}

func TestReserveAccumulatesAndReleasesFullQuantity(t *testing.T) {
	svc, book, _ := newTestService(t, &fakeStore{})
	ctx := context.Background()

	for _, q := range []int{2, 3, 1} {
		if _, err := svc.Reserve(ctx, 1, q); err != nil {
			t.Fatalf("reserve %d: %v", q, err)
		}
	}
	items := svc.CartItems()
	if len(items) != 1 || items[0].Quantity != 6 {
		t.Fatalf("expected one entry with quantity 6, got %+v", items)
	}
	if book.Stock() != 4 {
		t.Fatalf("expected stock 4, got %d", book.Stock())
	}

	if _, err := svc.Release(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Stock() != 10 {
		t.Fatalf("expected full restore to 10, got %d", book.Stock())
	}
}

func TestReserveRoundTripRestoresPriorState(t *testing.T) {
	svc, book, laptop := newTestService(t, &fakeStore{})
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, 2, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := svc.CartItems()
	stock := book.Stock()

	if _, err := svc.Reserve(ctx, 1, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Release(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.Stock() != stock {
		t.Fatalf("expected stock %d, got %d", stock, book.Stock())
	}
	if !reflect.DeepEqual(before, svc.CartItems()) {
		t.Fatalf("cart changed: before %+v after %+v", before, svc.CartItems())
	}
	if laptop.Stock() != 3 {
		t.Fatalf("unrelated product changed: %d", laptop.Stock())
	}
}

func TestReserveValidation(t *testing.T) {
	svc, book, laptop := newTestService(t, &fakeStore{})
	ctx := context.Background()

	cases := []struct {
		name string
		id   int64
		qty  int
		want error
	}{
		{"zero quantity", 1, 0, ErrInvalidQuantity},
		{"negative quantity", 1, -2, ErrInvalidQuantity},
		{"unknown product", 99, 1, ErrProductNotFound},
		{"insufficient stock", 2, 10, ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Reserve(ctx, tc.id, tc.qty); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if book.Stock() != 10 || laptop.Stock() != 5 {
		t.Fatalf("stock changed on failure: %d %d", book.Stock(), laptop.Stock())
	}
	if !svc.Customer().Cart().IsEmpty() {
		t.Fatalf("cart changed on failure")
	}
}

func TestReserveWholeStock(t *testing.T) {
	svc, _, laptop := newTestService(t, &fakeStore{})
	if _, err := svc.Reserve(context.Background(), 2, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if laptop.Stock() != 0 || laptop.Available() {
		t.Fatalf("expected product sold out, stock %d", laptop.Stock())
	}
	if _, err := svc.Reserve(context.Background(), 2, 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestReleaseNotInCart(t *testing.T) {
	svc, book, _ := newTestService(t, &fakeStore{})
	if _, err := svc.Release(context.Background(), 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if book.Stock() != 10 {
		t.Fatalf("stock changed: %d", book.Stock())
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	fs := &fakeStore{}
	svc, _, _ := newTestService(t, fs)

	for _, p := range []model.Payment{model.Cash(), model.Installments(3), model.Cancel()} {
		if _, err := svc.Checkout(context.Background(), p); !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("%s: expected ErrEmptyCart, got %v", p.Method, err)
		}
	}
	if fs.calls != 0 {
		t.Fatalf("expected no store interaction, got %d calls", fs.calls)
	}
}

func TestCheckoutCash(t *testing.T) {
	var saved []savedStock
	fs := &fakeStore{SaveFn: func(_ context.Context, products []model.Product) error {
		for _, p := range products {
			saved = append(saved, savedStock{p.ID(), p.Stock()})
		}
		return nil
	}}
	svc, _, _ := newTestService(t, fs)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := svc.Checkout(ctx, model.Cash())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "order-1" || order.Status != model.OrderCompleted || order.Customer != "Ana" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if !near(order.Total, 157.5) || !near(order.FinalAmount, 157.5*0.95) || !near(order.Discount, 157.5*0.05) {
		t.Fatalf("unexpected amounts: %+v", order)
	}
	if len(order.Lines) != 1 || order.Lines[0].Quantity != 3 || !near(order.Lines[0].UnitPrice, 52.5) {
		t.Fatalf("unexpected lines: %+v", order.Lines)
	}
	if !svc.Customer().Cart().IsEmpty() {
		t.Fatalf("expected cart cleared")
	}
	want := []savedStock{{1, 7}, {2, 5}}
	if !reflect.DeepEqual(saved, want) {
		t.Fatalf("expected committed stock %+v saved, got %+v", want, saved)
	}
}

// savedStock is a saved (id, stock) pair.
type savedStock struct {
	id    int64
	stock int
}

func TestCheckoutInstallments(t *testing.T) {
	fs := &fakeStore{}
	svc, _, laptop := newTestService(t, fs)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, 2, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, n := range []int{1, 13, 0, -4} {
		if _, err := svc.Checkout(ctx, model.Installments(n)); !errors.Is(err, ErrInvalidInstallmentCount) {
			t.Fatalf("n=%d: expected ErrInvalidInstallmentCount, got %v", n, err)
		}
	}
	if fs.calls != 0 || svc.Customer().Cart().IsEmpty() {
		t.Fatalf("rejected installments must not touch store or cart")
	}

	order, err := svc.Checkout(ctx, model.Installments(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Installments != 2 || !near(order.InstallmentAmount, 115) || !near(order.FinalAmount, 230) {
		t.Fatalf("unexpected order: %+v", order)
	}
	if fs.calls != 1 || laptop.Stock() != 4 {
		t.Fatalf("expected one save with committed stock, calls=%d stock=%d", fs.calls, laptop.Stock())
	}
}

func TestCheckoutCancel(t *testing.T) {
	fs := &fakeStore{}
	svc, book, _ := newTestService(t, fs)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := svc.Checkout(ctx, model.Cancel())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderCanceled || order.ID != "" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if fs.calls != 0 || svc.Customer().Cart().Len() != 1 || book.Stock() != 8 {
		t.Fatalf("cancel must leave everything untouched")
	}
}

func TestCheckoutInvalidMethod(t *testing.T) {
	fs := &fakeStore{}
	svc, _, _ := newTestService(t, fs)
	if _, err := svc.Reserve(context.Background(), 1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Checkout(context.Background(), model.Payment{Method: model.PaymentMethod(42)})
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if fs.calls != 0 {
		t.Fatalf("expected no save")
	}
}

func TestCheckoutPersistenceFailure(t *testing.T) {
	fs := &fakeStore{SaveFn: func(context.Context, []model.Product) error { return errors.New("disk full") }}
	svc, book, _ := newTestService(t, fs)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, 1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := svc.Checkout(ctx, model.Cash())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if order.Status != model.OrderCompleted {
		t.Fatalf("expected completed order alongside the error, got %+v", order)
	}
	if !svc.Customer().Cart().IsEmpty() || book.Stock() != 9 {
		t.Fatalf("session must continue on in-memory state")
	}
}

func TestSetStock(t *testing.T) {
	svc, book, _ := newTestService(t, &fakeStore{})
	ctx := context.Background()

	if err := svc.SetStock(ctx, 1, -1); !errors.Is(err, ErrInvalidStockValue) {
		t.Fatalf("expected ErrInvalidStockValue, got %v", err)
	}
	if err := svc.SetStock(ctx, 7, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := svc.SetStock(ctx, 1, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Stock() != 25 {
		t.Fatalf("expected stock 25, got %d", book.Stock())
	}
}

func TestSave(t *testing.T) {
	fs := &fakeStore{}
	svc, _, _ := newTestService(t, fs)
	if err := svc.Save(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fs.SaveFn = func(context.Context, []model.Product) error { return errors.New("read-only") }
	if err := svc.Save(context.Background()); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestProductLookupAndStats(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeStore{})

	p, err := svc.Product(2)
	if err != nil || p.Name() != "Laptop" {
		t.Fatalf("unexpected lookup: %v %v", p, err)
	}
	if _, err := svc.Product(3); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	st := svc.CatalogStats()
	if st.Count != 2 || st.Available != 2 {
		t.Fatalf("unexpected counts: %+v", st)
	}
	if !near(st.AveragePrice, (52.5+230)/2) {
		t.Fatalf("unexpected average %v", st.AveragePrice)
	}
	if st.Cheapest.ID() != 1 || st.MostExpensive.ID() != 2 {
		t.Fatalf("unexpected extremes: %+v", st)
	}

	got := svc.Search(query.Criteria{Kind: model.KindElectronic})
	if len(got) != 1 || got[0].ID() != 2 {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestResultLabel(t *testing.T) {
	if got := resultLabel(ErrInsufficientStock); got != "insufficient_stock" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := resultLabel(errors.New("x")); got != "error" {
		t.Fatalf("unexpected label %q", got)
	}
}
