// Package pricing computes monetary totals for a cart. Everything here is
// pure: no I/O, no rounding. Presentation-layer rounding to two decimals
// happens at display time and is never persisted.
package pricing

import (
	"errors"
	"regexp"
	"strconv"

	"tienda-gateway/models"
)

var (
	// ErrCouponFormat means the input does not look like a coupon at all.
	ErrCouponFormat = errors.New("coupon code must match DESC followed by 1 or 2 digits")
	// ErrCouponRange means the code parsed but the percent is outside [1,99].
	ErrCouponRange = errors.New("coupon discount must be between 1 and 99 percent")
)

var couponPattern = regexp.MustCompile(`^(?i)DESC([0-9]{1,2})$`)

// ParseCoupon validates a user-entered coupon code. The accepted pattern is
// DESC<1-2 digits>, case-insensitive. A format mismatch and an out-of-range
// percent are distinct errors so the caller can show different guidance.
func ParseCoupon(input string) (models.Coupon, error) {
	m := couponPattern.FindStringSubmatch(input)
	if m == nil {
		return models.Coupon{}, ErrCouponFormat
	}

	percent, err := strconv.Atoi(m[1])
	if err != nil {
		return models.Coupon{}, ErrCouponFormat
	}
	if percent < 1 || percent > 99 {
		return models.Coupon{}, ErrCouponRange
	}

	return models.Coupon{Code: input, DiscountPercent: percent}, nil
}

// Resolver maps a product id to the current catalog record. It reports
// false when the product is unknown.
type Resolver func(productID string) (models.Product, bool)

// Subtotal sums price×quantity over the items whose product resolves.
// Unresolvable items contribute 0: a stale line item must not invent a
// price. The resolved (server-side) price always wins over any price
// cached on the line item.
func Subtotal(items []models.LineItem, resolve Resolver) float64 {
	var total float64
	for _, item := range items {
		product, ok := resolve(item.ProductID)
		if !ok {
			continue
		}
		total += product.Price * float64(item.Quantity)
	}
	return total
}

// ApplyDiscount reduces amount by percent. A zero percent returns the
// amount unchanged, exactly, so an absent coupon cannot introduce float
// drift.
func ApplyDiscount(amount float64, percent int) float64 {
	if percent <= 0 {
		return amount
	}
	return amount * (1 - float64(percent)/100)
}

// Totals is the result of a totals computation over a cart.
type Totals struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent int     `json:"discount_percent"`
	DiscountedTotal float64 `json:"discounted_total"`
}

// ComputeTotals resolves every line item and applies the coupon, if any.
func ComputeTotals(items []models.LineItem, resolve Resolver, coupon *models.Coupon) Totals {
	subtotal := Subtotal(items, resolve)
	percent := 0
	if coupon != nil {
		percent = coupon.DiscountPercent
	}
	return Totals{
		Subtotal:        subtotal,
		DiscountPercent: percent,
		DiscountedTotal: ApplyDiscount(subtotal, percent),
	}
}
