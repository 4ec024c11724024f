package domain

import "errors"

// Checkout pipeline errors. These are expected conditions surfaced to the
// caller verbatim so the UI can show a precise message.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoRestaurantSelected = errors.New("no restaurant selected")
	ErrRestaurantClosed     = errors.New("restaurant is closed")
	ErrBelowMinimumOrder    = errors.New("cart subtotal is below the minimum order value")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrPaymentRejected      = errors.New("payment rejected")
)

// Cart-local errors.
var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrDuplicateItem   = errors.New("product is already in the cart")
	ErrCouponInvalid   = errors.New("coupon is not valid")
)

// Payment and queue errors.
var (
	ErrAlreadySettled    = errors.New("payment already settled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrNotInQueue        = errors.New("order is not in this restaurant's queue")
	ErrOrderNotDelivered = errors.New("order has not been delivered")
)
