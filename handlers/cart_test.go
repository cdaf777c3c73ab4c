package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tienda-gateway/models"
)

func testProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Collar", Price: 25, Stock: 5, Image: "collar.jpg"},
		{ID: "2", Name: "Anillo", Price: 50, Stock: 3},
	}
}

func TestAddToCartReturnsUpdatedCart(t *testing.T) {
	e := newEnv(t, testProducts()...)

	w := e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var items []models.LineItem
	decodeInto(t, w, &items)
	if len(items) != 1 || items[0].ProductID != "1" || items[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", items)
	}
	if items[0].Name != "Collar" || items[0].Price != 25 {
		t.Fatalf("expected display hints captured at add time, got %+v", items[0])
	}

	// Adding the same product again merges into the existing line.
	w = e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 1})
	decodeInto(t, w, &items)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %+v", items)
	}
}

func TestAddToCartAcceptsNumericID(t *testing.T) {
	e := newEnv(t, testProducts()...)

	w := e.do(t, "POST", "/api/cart", map[string]any{"product_id": 1, "quantity": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var items []models.LineItem
	decodeInto(t, w, &items)
	if len(items) != 1 || items[0].ProductID != "1" {
		t.Fatalf("expected numeric id normalized to \"1\", got %+v", items)
	}
}

func TestAddToCartRequiresProductID(t *testing.T) {
	e := newEnv(t, testProducts()...)

	w := e.do(t, "POST", "/api/cart", map[string]any{"quantity": 2})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAddToCartCapsQuantityToStock(t *testing.T) {
	e := newEnv(t, testProducts()...)

	w := e.do(t, "POST", "/api/cart", map[string]any{"product_id": "2", "quantity": 10})

	var items []models.LineItem
	decodeInto(t, w, &items)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected quantity capped to stock 3, got %+v", items)
	}
}

func TestUpdateCartItemFloorsFractionalQuantity(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 1})

	w := e.do(t, "PUT", "/api/cart/1", map[string]any{"quantity": 2.9})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var items []models.LineItem
	decodeInto(t, w, &items)
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected quantity floored to 2, got %+v", items)
	}
}

func TestRemoveFromCart(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 1})

	w := e.do(t, "DELETE", "/api/cart/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var views []map[string]any
	decodeInto(t, e.do(t, "GET", "/api/cart", nil), &views)
	if len(views) != 0 {
		t.Fatalf("expected empty cart, got %+v", views)
	}
}

func TestClearCart(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 1})
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "2", "quantity": 1})

	w := e.do(t, "DELETE", "/api/cart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var views []map[string]any
	decodeInto(t, e.do(t, "GET", "/api/cart", nil), &views)
	if len(views) != 0 {
		t.Fatalf("expected empty cart, got %+v", views)
	}
}

func TestGetCartMergesCatalogSnapshot(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 2})

	// Price changes upstream; the cart view follows the catalog, not the
	// hint captured at add time.
	e.upstream.mu.Lock()
	p := e.upstream.products["1"]
	p.Price = 30
	e.upstream.products["1"] = p
	e.upstream.mu.Unlock()
	e.snapshot.Refresh(context.Background())

	var views []struct {
		ProductID string  `json:"id"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
		Stock     int     `json:"stock"`
		Available bool    `json:"available"`
	}
	decodeInto(t, e.do(t, "GET", "/api/cart", nil), &views)
	if len(views) != 1 {
		t.Fatalf("expected 1 item, got %+v", views)
	}
	if views[0].Price != 30 || views[0].Stock != 5 || !views[0].Available {
		t.Fatalf("expected snapshot-sourced view, got %+v", views[0])
	}
}

func TestGetCartFlagsUnknownProductUnavailable(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "99", "quantity": 1})

	var views []struct {
		ProductID string `json:"id"`
		Available bool   `json:"available"`
	}
	decodeInto(t, e.do(t, "GET", "/api/cart", nil), &views)
	if len(views) != 1 {
		t.Fatalf("expected the stale item kept, got %+v", views)
	}
	if views[0].Available {
		t.Fatalf("expected item flagged unavailable, got %+v", views[0])
	}
}

func TestCartRequiresSessionToken(t *testing.T) {
	e := newEnv(t, testProducts()...)

	req := httptest.NewRequest("GET", "/api/cart", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

type totalsResponse struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent int     `json:"discount_percent"`
	DiscountedTotal float64 `json:"discounted_total"`
	CouponMessage   string  `json:"coupon_message"`
}

func TestGetTotalsWithCoupon(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "2", "quantity": 2})

	var resp totalsResponse
	decodeInto(t, e.do(t, "GET", "/api/cart/totals?coupon=DESC20", nil), &resp)
	if resp.Subtotal != 100 || resp.DiscountPercent != 20 || resp.DiscountedTotal != 80 {
		t.Fatalf("unexpected totals: %+v", resp)
	}
	if resp.CouponMessage != "" {
		t.Fatalf("expected no coupon message, got %q", resp.CouponMessage)
	}
}

func TestGetTotalsCouponIsCaseInsensitive(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "2", "quantity": 2})

	var resp totalsResponse
	decodeInto(t, e.do(t, "GET", "/api/cart/totals?coupon=desc20", nil), &resp)
	if resp.DiscountPercent != 20 || resp.DiscountedTotal != 80 {
		t.Fatalf("unexpected totals: %+v", resp)
	}
}

func TestGetTotalsInvalidCouponNeverFails(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 1})

	w := e.do(t, "GET", "/api/cart/totals?coupon=SAVE10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp totalsResponse
	decodeInto(t, w, &resp)
	if resp.DiscountPercent != 0 || resp.DiscountedTotal != resp.Subtotal {
		t.Fatalf("expected no discount, got %+v", resp)
	}
	if resp.CouponMessage == "" {
		t.Fatal("expected a coupon message for invalid input")
	}
}

func TestGetTotalsOutOfRangeCouponMessage(t *testing.T) {
	e := newEnv(t, testProducts()...)
	e.do(t, "POST", "/api/cart", map[string]any{"product_id": "1", "quantity": 1})

	var resp totalsResponse
	decodeInto(t, e.do(t, "GET", "/api/cart/totals?coupon=DESC00", nil), &resp)
	if resp.DiscountPercent != 0 {
		t.Fatalf("expected no discount, got %+v", resp)
	}
	if !strings.Contains(resp.CouponMessage, "between 1 and 99") {
		t.Fatalf("expected range message, got %q", resp.CouponMessage)
	}
}
