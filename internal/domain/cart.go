package domain

import (
	"fmt"
	"sync"
	"time"
)

// MinOrderValue is the smallest subtotal a cart must reach before checkout.
const MinOrderValue = 15.00

// CartLine is one product entry in a cart. UnitPrice is captured when the
// line is added; repricing the product later must not change lines already
// in carts or lines copied into historical orders.
type CartLine struct {
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	Notes     string   `json:"notes,omitempty"`
	UnitPrice float64  `json:"unit_price"`
}

// Subtotal is unit price times quantity.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart accumulates lines for a single customer until checkout. All mutations
// go through the cart's mutex so concurrent UI entry points cannot corrupt it.
type Cart struct {
	mu         sync.Mutex
	customerID int
	restaurant *Restaurant
	lines      []CartLine
	coupon     *Coupon
}

func NewCart(customerID int) *Cart {
	return &Cart{customerID: customerID}
}

func (c *Cart) CustomerID() int {
	return c.customerID
}

// SelectRestaurant binds the cart to one restaurant. Switching restaurants
// drops the current lines since they belong to another menu.
func (c *Cart) SelectRestaurant(r *Restaurant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restaurant != nil && r != nil && c.restaurant.ID != r.ID {
		c.lines = nil
		c.coupon = nil
	}
	c.restaurant = r
}

func (c *Cart) Restaurant() *Restaurant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restaurant
}

// AddItem appends a line for the given product. Non-positive quantities and
// unavailable products are rejected without changing the cart. Adding a
// product that is already present is a duplicate signal, not a merge; the
// caller decides whether to remove and re-add with a new quantity.
func (c *Cart) AddItem(p *Product, quantity int, notes string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p == nil || !p.Available() {
		return ErrProductUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		if line.Product.ID == p.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, p.Name)
		}
	}
	c.lines = append(c.lines, CartLine{
		Product:   p,
		Quantity:  quantity,
		Notes:     notes,
		UnitPrice: p.Price,
	})
	return nil
}

// RemoveProduct drops the first line holding the given product. Removing an
// absent product is a no-op.
func (c *Cart) RemoveProduct(productID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart and drops the applied coupon.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.coupon = nil
}

// ApplyCoupon attaches a coupon if it is valid right now; an invalid coupon
// leaves the cart unchanged.
func (c *Cart) ApplyCoupon(coupon Coupon) error {
	if !coupon.Valid() {
		return fmt.Errorf("%w: %s", ErrCouponInvalid, coupon.Code)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = &coupon
	return nil
}

// RemoveCoupon drops the applied coupon, if any.
func (c *Cart) RemoveCoupon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = nil
}

func (c *Cart) Coupon() *Coupon {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coupon
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Subtotal is the sum of line subtotals.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) subtotalLocked() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// TotalWithDiscount applies the coupon to the subtotal when one is set and
// still valid; an expired coupon silently stops discounting.
func (c *Cart) TotalWithDiscount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := c.subtotalLocked()
	if c.coupon != nil && c.coupon.Valid() {
		return c.coupon.ApplyDiscount(subtotal)
	}
	return subtotal
}

// Checkout validates the cart and materializes a Pending order with copied
// lines. The cart itself is left untouched: clearing is the orchestrator's
// final, committing step once payment and queue acceptance have succeeded,
// so a failed payment never loses the cart contents.
func (c *Cart) Checkout() (*Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, ErrEmptyCart
	}
	if c.restaurant == nil {
		return nil, ErrNoRestaurantSelected
	}
	if !c.restaurant.Open() {
		return nil, fmt.Errorf("%w: %s", ErrRestaurantClosed, c.restaurant.Name)
	}
	if c.subtotalLocked() < MinOrderValue {
		return nil, fmt.Errorf("%w: minimum is %.2f", ErrBelowMinimumOrder, MinOrderValue)
	}
	for _, line := range c.lines {
		if !line.Product.Available() {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, line.Product.Name)
		}
	}

	lines := make([]OrderLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, OrderLine{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Notes:       line.Notes,
			UnitPrice:   line.UnitPrice,
		})
	}

	var coupon *Coupon
	if c.coupon != nil {
		cp := *c.coupon
		coupon = &cp
	}

	order := &Order{
		CreatedAt:    time.Now(),
		Status:       StatusPending,
		Lines:        lines,
		Coupon:       coupon,
		CustomerID:   c.customerID,
		RestaurantID: c.restaurant.ID,
	}
	order.computeTotalLocked()
	return order, nil
}
