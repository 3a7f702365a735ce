package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	models "shop-simulator/model"
	"shop-simulator/service"
	"shop-simulator/store"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	dir := t.TempDir()
	st := store.NewJSONStore(filepath.Join(dir, "inventory.json"), filepath.Join(dir, "users.json"), nil)
	svc, err := service.NewService(context.Background(), st, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	r := mux.NewRouter()
	NewHandler(svc, nil).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginCreatesOnce(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, "POST", "/users", `{"user_id":"alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, r, "POST", "/users", `{"user_id":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on second login, got %d", rec.Code)
	}
	rec = do(t, r, "POST", "/users", `{"user_id":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty user, got %d", rec.Code)
	}
}

func TestListProductsInCatalogOrder(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, "GET", "/products/list", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var ps []productResp
	if err := json.NewDecoder(rec.Body).Decode(&ps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ps) != 4 || ps[0].Name != "Laptop" || ps[3].Name != "Monitor" {
		t.Fatalf("unexpected products: %+v", ps)
	}
}

func TestAddCheckoutFlow(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, "POST", "/cart/add", `{"user_id":"alice","product":"Keyboard","quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, r, "GET", "/cart/list?user_id=alice", "")
	var cart cartResp
	if err := json.NewDecoder(rec.Body).Decode(&cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || !cart.Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	rec = do(t, r, "POST", "/checkout/order", `{"user_id":"alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var sum models.CheckoutSummary
	if err := json.NewDecoder(rec.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !sum.Tax.Equal(decimal.NewFromInt(360)) || !sum.Total.Equal(decimal.NewFromInt(2360)) {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	rec = do(t, r, "GET", "/orders/list?user_id=alice", "")
	var txs []models.Transaction
	if err := json.NewDecoder(rec.Body).Decode(&txs); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != sum.TransactionID {
		t.Fatalf("unexpected orders: %+v", txs)
	}

	rec = do(t, r, "POST", "/checkout/order", `{"user_id":"alice"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("empty cart checkout: expected 409, got %d", rec.Code)
	}
}

func TestAddErrorsMapToStatus(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		body string
		want int
	}{
		{`{"user_id":"alice","product":"Tablet","quantity":1}`, http.StatusNotFound},
		{`{"user_id":"alice","product":"Mouse","quantity":0}`, http.StatusBadRequest},
		{`{"user_id":"alice","product":"Laptop","quantity":999}`, http.StatusConflict},
		{`{"user_id":"","product":"Mouse","quantity":1}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := do(t, r, "POST", "/cart/add", c.body)
		if rec.Code != c.want {
			t.Fatalf("%s: expected %d, got %d", c.body, c.want, rec.Code)
		}
	}
}

func TestRemoveAndClear(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, "POST", "/cart/add", `{"user_id":"bob","product":"Mouse","quantity":3}`)
	do(t, r, "POST", "/cart/add", `{"user_id":"bob","product":"Monitor","quantity":1}`)

	rec := do(t, r, "POST", "/cart/remove", `{"user_id":"bob","product":"Mouse"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", rec.Code)
	}
	rec = do(t, r, "POST", "/cart/remove", `{"user_id":"bob","product":"Mouse"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", rec.Code)
	}

	rec = do(t, r, "POST", "/cart/clear", `{"user_id":"bob"}`)
	if !strings.Contains(rec.Body.String(), `"cleared"`) {
		t.Fatalf("clear: unexpected body %s", rec.Body)
	}
	rec = do(t, r, "POST", "/cart/clear", `{"user_id":"bob"}`)
	if !strings.Contains(rec.Body.String(), `"already empty"`) {
		t.Fatalf("second clear: unexpected body %s", rec.Body)
	}
}

// failingSvc reports a storage failure from every mutating call.
type failingSvc struct {
	service.ServiceInterface
}

func (failingSvc) AddToCart(context.Context, string, string, int) error {
	return errors.New("save state: disk full")
}

func TestUnexpectedErrorIs500(t *testing.T) {
	r := mux.NewRouter()
	NewHandler(failingSvc{}, nil).RegisterRoutes(r)

	rec := do(t, r, "POST", "/cart/add", `{"user_id":"a","product":"Mouse","quantity":1}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestReadsForUnknownUserAreEmpty(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, "GET", "/orders/list?user_id=ghost", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("orders: expected 200 [], got %d %s", rec.Code, rec.Body)
	}
	rec = do(t, r, "GET", "/cart/list?user_id=ghost", "")
	var cart cartResp
	if err := json.NewDecoder(rec.Body).Decode(&cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if rec.Code != http.StatusOK || len(cart.Items) != 0 {
		t.Fatalf("cart: expected empty, got %d %+v", rec.Code, cart)
	}

	// the reads above must not have created the account
	rec = do(t, r, "POST", "/users", `{"user_id":"ghost"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected ghost to be new, got %d", rec.Code)
	}
}
