package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	models "shop-simulator/model"
	"shop-simulator/service"
)

// Handler is the HTTP layer that talks to service.Service. The engine is not
// safe for concurrent use, so every request runs under one lock.
type Handler struct {
	svc service.ServiceInterface
	log *zap.Logger

	mu sync.Mutex
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: s, log: log}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Users
	r.HandleFunc("/users", h.locked(h.Login)).Methods("POST")

	// Products
	r.HandleFunc("/products/list", h.locked(h.ListProducts)).Methods("GET")

	// Cart
	r.HandleFunc("/cart/add", h.locked(h.AddToCart)).Methods("POST")
	r.HandleFunc("/cart/remove", h.locked(h.RemoveFromCart)).Methods("POST")
	r.HandleFunc("/cart/clear", h.locked(h.ClearCart)).Methods("POST")
	r.HandleFunc("/cart/list", h.locked(h.ListCart)).Methods("GET")

	// Checkout
	r.HandleFunc("/checkout/order", h.locked(h.Checkout)).Methods("POST")
	r.HandleFunc("/orders/list", h.locked(h.ListOrders)).Methods("GET")
}

func (h *Handler) locked(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		fn(w, r)
	}
}

// --- request / response shapes ---
type userReq struct {
	UserID string `json:"user_id"`
}

type cartReq struct {
	UserID   string `json:"user_id"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity,omitempty"` // unused by remove
}

type productResp struct {
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	DiscountPercent int    `json:"discount"`
}

type cartResp struct {
	UserID   string            `json:"user_id"`
	Items    []models.CartItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// statusFor maps engine errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrNotInCart):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrUserRequired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeErr(w, code, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// --- Handler ---

// Login handles POST /users
// body: { "user_id": "..." }
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if !decode(w, r, &req) {
		return
	}
	acct, created, err := h.svc.Login(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, map[string]interface{}{"user_id": acct.UserID, "balance": acct.Balance, "created": created})
}

// ListProducts handles GET /products/list
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps := h.svc.ListProducts()
	out := make([]productResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResp{Name: p.Name, Price: p.Price, Quantity: p.Quantity, DiscountPercent: p.DiscountPercent})
	}
	writeJSON(w, http.StatusOK, out)
}

// AddToCart handles POST /cart/add
// body: { "user_id": "...", "product": "Mouse", "quantity": 2 }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartReq
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.AddToCart(r.Context(), req.UserID, req.Product, req.Quantity); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFromCart handles POST /cart/remove
// body: { "user_id": "...", "product": "Mouse" }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartReq
	if !decode(w, r, &req) {
		return
	}
	item, err := h.svc.RemoveFromCart(r.Context(), req.UserID, req.Product)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "removed", "item": item})
}

// ClearCart handles POST /cart/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if !decode(w, r, &req) {
		return
	}
	cleared, err := h.svc.ClearCart(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := "cleared"
	if !cleared {
		status = "already empty"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// ListCart handles GET /cart/list?user_id=...
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	items, subtotal, err := h.svc.GetCart(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartResp{UserID: userID, Items: items, Subtotal: subtotal})
}

// Checkout handles POST /checkout/order
// body: { "user_id": "..." }
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req userReq
	if !decode(w, r, &req) {
		return
	}
	sum, err := h.svc.Checkout(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

// ListOrders handles GET /orders/list?user_id=...
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.History(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
