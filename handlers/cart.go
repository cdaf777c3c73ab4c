package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"tienda-gateway/cart"
	"tienda-gateway/catalog"
	"tienda-gateway/middleware"
	"tienda-gateway/models"
	"tienda-gateway/pricing"
	"tienda-gateway/utils"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	Store    *cart.Store
	Snapshot *catalog.Snapshot
}

// cartItemView is a line item merged with the current catalog snapshot.
// When the product resolves, the snapshot's price/name/image win over the
// hints cached on the line item; a stale item is flagged, not pruned.
type cartItemView struct {
	ProductID string  `json:"id"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Stock     int     `json:"stock"`
	Available bool    `json:"available"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	items := h.Store.Items(c.Request.Context(), sessionID)

	// Warm the snapshot so display hints are as fresh as the catalog
	// allows. A failed refresh degrades to cached hints, never an error.
	h.Snapshot.Products(c.Request.Context())

	views := make([]cartItemView, 0, len(items))
	for _, item := range items {
		view := cartItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
		}
		if product, ok := h.Snapshot.Resolve(item.ProductID); ok {
			view.Name = product.Name
			view.Price = product.Price
			view.Image = product.Image
			view.Stock = product.Stock
			view.Available = true
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	var req struct {
		ProductID any `json:"product_id"`
		Quantity  any `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	productID := coerceID(req.ProductID)
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	ref := models.LineItem{
		ProductID: productID,
		Quantity:  int(coerceQuantity(req.Quantity)),
	}
	// Capture display hints at add time; the snapshot stays authoritative
	// for anything shown to the shopper later.
	if product, ok := h.Snapshot.Resolve(productID); ok {
		ref.Name = product.Name
		ref.Price = product.Price
		ref.Image = product.Image
	}

	h.Store.AddItem(c.Request.Context(), sessionID, ref)
	c.JSON(http.StatusOK, h.Store.Items(c.Request.Context(), sessionID))
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	productID := c.Param("productId")

	var req struct {
		Quantity any `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.Store.UpdateQuantity(c.Request.Context(), sessionID, productID, coerceQuantity(req.Quantity))
	c.JSON(http.StatusOK, h.Store.Items(c.Request.Context(), sessionID))
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	h.Store.RemoveItem(c.Request.Context(), sessionID, c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	h.Store.Clear(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// GetTotals computes the cart's subtotal and coupon-discounted total from
// the current snapshot. An invalid coupon never fails the request: it
// contributes a 0% discount plus a message the UI can show inline.
func (h *CartHandler) GetTotals(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	items := h.Store.Items(c.Request.Context(), sessionID)
	h.Snapshot.Products(c.Request.Context())

	coupon, message := parseCouponInput(c.Query("coupon"))
	totals := pricing.ComputeTotals(items, h.Snapshot.Resolve, coupon)

	resp := gin.H{
		"subtotal":         totals.Subtotal,
		"discount_percent": totals.DiscountPercent,
		"discounted_total": totals.DiscountedTotal,
	}
	if message != "" {
		resp["coupon_message"] = message
	}
	c.JSON(http.StatusOK, resp)
}

// parseCouponInput turns user input into a coupon, mapping the two
// rejection modes to distinct inline messages. Empty input means no
// coupon and no message.
func parseCouponInput(input string) (*models.Coupon, string) {
	if input == "" {
		return nil, ""
	}
	coupon, err := pricing.ParseCoupon(input)
	switch {
	case errors.Is(err, pricing.ErrCouponRange):
		return nil, "Coupon discount is out of range: use DESC followed by a percentage between 1 and 99"
	case err != nil:
		return nil, "Invalid coupon code: expected DESC followed by 1 or 2 digits"
	}
	return &coupon, ""
}

// coerceQuantity accepts whatever the UI sends for a quantity. Anything
// non-numeric counts as 1; the store clamps the rest.
func coerceQuantity(v any) float64 {
	switch q := v.(type) {
	case float64:
		return q
	case string:
		if n, err := strconv.ParseFloat(q, 64); err == nil {
			return n
		}
	}
	return 1
}

// coerceID normalizes a product id that may arrive as a JSON number or
// string, mirroring the upstream catalog's loose id typing.
func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return fmt.Sprintf("%v", id)
	}
	return ""
}
