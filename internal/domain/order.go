package domain

import (
	"fmt"
	"sync"
	"time"
)

// OrderLine is a snapshot of a cart line taken at checkout. It carries no
// product pointer so later catalog changes cannot rewrite history.
type OrderLine struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Notes       string  `json:"notes,omitempty"`
	UnitPrice   float64 `json:"unit_price"`
}

func (l OrderLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Order is the central aggregate. It is created by cart checkout and mutated
// only through the status state machine, payment settlement and review
// attachment. Orders are never deleted, only moved to a terminal status.
// Mutating methods hold the order's mutex; the orchestration layer funnels
// all writes through them.
type Order struct {
	mu sync.Mutex

	ID           int64         `json:"id"`
	CreatedAt    time.Time     `json:"created_at"`
	Status       OrderStatus   `json:"status"`
	Lines        []OrderLine   `json:"lines"`
	Payment      PaymentMethod `json:"-"`
	Coupon       *Coupon       `json:"coupon,omitempty"`
	Subtotal     float64       `json:"subtotal"`
	Discount     float64       `json:"discount"`
	Total        float64       `json:"total"`
	CustomerID   int           `json:"customer_id"`
	RestaurantID int           `json:"restaurant_id"`
	Reviews      []Review      `json:"reviews,omitempty"`
}

// TransitionTo moves the order to a new status if the transition table allows
// it. Unknown targets and disallowed moves leave the status unchanged and are
// reported as errors rather than panics: they are routinely triggered by
// stale screens and double-clicks, not by programmer error.
func (o *Order) TransitionTo(next OrderStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transitionLocked(next)
}

func (o *Order) transitionLocked(next OrderStatus) error {
	if !KnownStatus(next) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}
	if !CanTransition(o.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

// CurrentStatus reads the status under the order's lock.
func (o *Order) CurrentStatus() OrderStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Status
}

// ComputeTotal recomputes subtotal, discount and total from the current lines
// and caches them on the order. The coupon is re-validated at computation
// time: an expired coupon silently stops discounting.
func (o *Order) ComputeTotal() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.computeTotalLocked()
}

func (o *Order) computeTotalLocked() float64 {
	subtotal := 0.0
	for _, line := range o.Lines {
		subtotal += line.Subtotal()
	}
	total := subtotal
	if o.Coupon != nil && o.Coupon.Valid() {
		total = o.Coupon.ApplyDiscount(subtotal)
	}
	o.Subtotal = subtotal
	o.Discount = subtotal - total
	o.Total = total
	return total
}

// SettlePayment charges the selected payment method for the computed total
// and, on success, confirms the order.
func (o *Order) SettlePayment() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.Payment == nil {
		return ErrNoPaymentMethod
	}
	due := o.computeTotalLocked()
	if err := o.Payment.Settle(due); err != nil {
		return err
	}
	if o.Status == StatusPending {
		return o.transitionLocked(StatusConfirmed)
	}
	return nil
}

// AttachReview records a review against the order. Only delivered orders
// accept reviews; anything else is a no-op returning false.
func (o *Order) AttachReview(r Review) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Status != StatusDelivered {
		return false
	}
	o.Reviews = append(o.Reviews, r)
	return true
}

// AllReviews returns a copy of the attached reviews.
func (o *Order) AllReviews() []Review {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Review, len(o.Reviews))
	copy(out, o.Reviews)
	return out
}

// OrderView is a point-in-time copy of an order, safe to serialize or
// persist while the order itself keeps moving through its lifecycle.
type OrderView struct {
	ID           int64       `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	Status       OrderStatus `json:"status"`
	Lines        []OrderLine `json:"lines"`
	Coupon       *Coupon     `json:"coupon,omitempty"`
	Subtotal     float64     `json:"subtotal"`
	Discount     float64     `json:"discount"`
	Total        float64     `json:"total"`
	CustomerID   int         `json:"customer_id"`
	RestaurantID int         `json:"restaurant_id"`
	Reviews      []Review    `json:"reviews,omitempty"`
}

// Snapshot copies the order's state under its lock.
func (o *Order) Snapshot() OrderView {
	o.mu.Lock()
	defer o.mu.Unlock()

	view := OrderView{
		ID:           o.ID,
		CreatedAt:    o.CreatedAt,
		Status:       o.Status,
		Lines:        append([]OrderLine(nil), o.Lines...),
		Subtotal:     o.Subtotal,
		Discount:     o.Discount,
		Total:        o.Total,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		Reviews:      append([]Review(nil), o.Reviews...),
	}
	if o.Coupon != nil {
		cp := *o.Coupon
		view.Coupon = &cp
	}
	return view
}
