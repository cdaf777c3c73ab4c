package handlers

import (
	"errors"
	"net/http"

	"tienda-gateway/checkout"
	"tienda-gateway/middleware"
	"tienda-gateway/utils"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Coordinator *checkout.Coordinator
}

// Checkout runs the stock-validated purchase for the session's cart. An
// invalid coupon does not block the purchase; it is dropped with a message
// in the response.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sessionID := middleware.SessionID(c)

	var req struct {
		Coupon string `json:"coupon"`
	}
	// An empty body means no coupon.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "reason": utils.SanitizeValidationError(err)})
			return
		}
	}

	coupon, couponMessage := parseCouponInput(req.Coupon)

	summary, err := h.Coordinator.Checkout(c.Request.Context(), sessionID, coupon)
	if err != nil {
		status, reason := checkoutFailure(err)
		c.JSON(status, gin.H{"success": false, "reason": reason})
		return
	}

	resp := gin.H{"success": true, "summary": summary}
	if couponMessage != "" {
		resp["coupon_message"] = couponMessage
	}
	c.JSON(http.StatusOK, resp)
}

// checkoutFailure maps coordinator errors to an HTTP status and a
// human-readable reason. Every failure is recoverable: the cart is intact
// and the shopper can retry or modify it.
func checkoutFailure(err error) (int, string) {
	var (
		notFoundErr *checkout.ProductNotFoundError
		qtyErr      *checkout.InvalidQuantityError
		stockErr    *checkout.InsufficientStockError
		connErr     *checkout.ConnectivityError
		partialErr  *checkout.PartialCommitError
	)

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "Your cart is empty."
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		return http.StatusConflict, "A checkout is already in progress."
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, "Product " + notFoundErr.ProductID + " is no longer available. Remove it from your cart and try again."
	case errors.As(err, &qtyErr):
		return http.StatusBadRequest, qtyErr.Error()
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, stockErr.Error()
	case errors.As(err, &connErr), errors.As(err, &partialErr):
		return http.StatusBadGateway, "Your purchase could not be completed. Please try again."
	default:
		return http.StatusInternalServerError, "Your purchase could not be completed. Please try again."
	}
}
