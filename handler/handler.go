// Package handler exposes the storefront engine over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"storefront/model"
	"storefront/query"
	"storefront/service"
)

// Handler is the HTTP layer that talks to service.Service. The engine is
// single-session, so every call into it holds mu.
type Handler struct {
	svc    service.ServiceInterface
	logger *slog.Logger
	mu     sync.Mutex
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: s, logger: logger}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(withRoute, withLogging(h.logger))

	// Products
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/stats", h.CatalogStats).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}/stock", h.SetStock).Methods(http.MethodPost)

	// Cart
	r.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/add", h.AddToCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods(http.MethodPost)

	// Checkout
	r.HandleFunc("/checkout", h.Checkout).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// statusFor maps engine outcomes to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidInstallmentCount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidStockValue):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func productID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// --- Handler ---

// ListProducts handles GET /products?kind=&min_price=&max_price=&available=&q=&sort=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mu.Lock()
	ps := h.svc.Search(c)
	out := toProductList(ps)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func parseCriteria(r *http.Request) (query.Criteria, error) {
	q := r.URL.Query()
	var c query.Criteria
	if v := q.Get("kind"); v != "" {
		k, err := model.ParseKind(v)
		if err != nil {
			return c, err
		}
		c.Kind = k
	}
	for key, dst := range map[string]**float64{"min_price": &c.MinPrice, "max_price": &c.MaxPrice} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, errors.New(key + " must be a number")
		}
		*dst = &f
	}
	if v := q.Get("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, errors.New("available must be a boolean")
		}
		c.AvailableOnly = b
	}
	c.Name = q.Get("q")
	c.Sort = query.SortOrder(q.Get("sort"))
	if !query.ValidSort(c.Sort) {
		return c, errors.New("sort must be one of price, -price, name")
	}
	return c, nil
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	h.mu.Lock()
	p, err := h.svc.Product(id)
	var out productResp
	if err == nil {
		out = toProductResp(p)
	}
	h.mu.Unlock()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CatalogStats handles GET /products/stats
func (h *Handler) CatalogStats(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	out := toStatsResp(h.svc.CatalogStats())
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	out := toCartResp(h.svc.Customer().Name(), h.svc.CartItems(), h.svc.CartStats())
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

// AddToCart handles POST /cart/add
// body: { "product_id": 1, "quantity": 2 }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.mu.Lock()
	item, err := h.svc.Reserve(r.Context(), req.ProductID, req.Quantity)
	var out cartItemResp
	if err == nil {
		out = toCartItemResp(item)
	}
	h.mu.Unlock()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// RemoveFromCart handles POST /cart/remove
// body: { "product_id": 1 }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	h.mu.Lock()
	item, err := h.svc.Release(r.Context(), req.ProductID)
	var out cartItemResp
	if err == nil {
		out = toCartItemResp(item)
	}
	h.mu.Unlock()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Checkout handles POST /checkout
// body: { "method": "cash" | "installments" | "cancel", "installments": 3 }
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	method, ok := model.ParsePaymentMethod(req.Method)
	if !ok {
		writeErr(w, http.StatusBadRequest, service.ErrInvalidPaymentMethod.Error())
		return
	}

	h.mu.Lock()
	order, err := h.svc.Checkout(r.Context(), model.Payment{Method: method, Installments: req.Installments})
	h.mu.Unlock()

	switch {
	case errors.Is(err, service.ErrPersistence):
		// the sale went through; only the save failed
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
			"order": toOrderResp(order),
		})
	case err != nil:
		writeErr(w, statusFor(err), err.Error())
	case order.Status == model.OrderCanceled:
		writeJSON(w, http.StatusOK, toOrderResp(order))
	default:
		writeJSON(w, http.StatusCreated, toOrderResp(order))
	}
}

// SetStock handles POST /products/{id}/stock
// body: { "stock": 10 }
func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req stockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Stock == nil {
		writeErr(w, http.StatusBadRequest, "stock is required")
		return
	}
	h.mu.Lock()
	err = h.svc.SetStock(r.Context(), id, *req.Stock)
	h.mu.Unlock()
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
