package domain

import (
	"strings"
	"time"
)

// CouponKind discriminates the discount computation.
type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

// Coupon is a discount voucher. Codes are case-normalized on construction and
// the discount value is clamped so ApplyDiscount can never produce a negative
// total. Read-only after creation except for the Active toggle.
type Coupon struct {
	Code      string     `json:"code"`
	Kind      CouponKind `json:"kind"`
	Value     float64    `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
}

// NewPercentageCoupon builds a percentage coupon, clamping the rate to [0, 100].
func NewPercentageCoupon(code string, percent float64, expiresAt *time.Time) Coupon {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Coupon{
		Code:      NormalizeCouponCode(code),
		Kind:      CouponPercentage,
		Value:     percent,
		ExpiresAt: expiresAt,
		Active:    true,
	}
}

// NewFixedCoupon builds a fixed-amount coupon, clamping the amount to >= 0.
func NewFixedCoupon(code string, amount float64, expiresAt *time.Time) Coupon {
	if amount < 0 {
		amount = 0
	}
	return Coupon{
		Code:      NormalizeCouponCode(code),
		Kind:      CouponFixed,
		Value:     amount,
		ExpiresAt: expiresAt,
		Active:    true,
	}
}

// NormalizeCouponCode upper-cases and trims a user-supplied code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidAt reports whether the coupon may discount a total at the given instant.
func (c Coupon) ValidAt(t time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && t.After(*c.ExpiresAt) {
		return false
	}
	return true
}

// Valid reports whether the coupon is usable right now.
func (c Coupon) Valid() bool {
	return c.ValidAt(time.Now())
}

// ApplyDiscount returns the total after discount. The result is always within
// [0, total]: a fixed discount never exceeds the total and percentage rates
// are already clamped to [0, 100].
func (c Coupon) ApplyDiscount(total float64) float64 {
	if total <= 0 {
		return 0
	}
	var discounted float64
	switch c.Kind {
	case CouponPercentage:
		discounted = total * (1 - c.Value/100)
	case CouponFixed:
		discounted = total - c.Value
	default:
		discounted = total
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}
