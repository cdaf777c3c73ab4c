package models

// Coupon is a parsed discount code. Coupons are ephemeral: they live for a
// single totals computation or checkout call and are never persisted.
type Coupon struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
}
