package domain

import (
	"fmt"
	"sync"
)

// RestaurantQueue holds the orders a restaurant has accepted but not yet
// finished. An order appears at most once and can only be accepted while the
// restaurant is open. Orders leave the queue when they reach a terminal
// status.
type RestaurantQueue struct {
	mu         sync.Mutex
	restaurant *Restaurant
	orders     []*Order
}

func NewRestaurantQueue(r *Restaurant) *RestaurantQueue {
	return &RestaurantQueue{restaurant: r}
}

func (q *RestaurantQueue) Restaurant() *Restaurant {
	return q.restaurant
}

// Accept adds an order to the queue. A closed restaurant refuses it; an
// order already queued is a no-op. A freshly checked-out order is confirmed
// on acceptance; an order already confirmed by payment settlement keeps its
// status.
func (q *RestaurantQueue) Accept(o *Order) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.restaurant.Open() {
		return fmt.Errorf("%w: %s", ErrRestaurantClosed, q.restaurant.Name)
	}
	if q.containsLocked(o.ID) {
		return nil
	}
	if o.CurrentStatus() == StatusPending {
		if err := o.TransitionTo(StatusConfirmed); err != nil {
			return err
		}
	}
	q.orders = append(q.orders, o)
	return nil
}

// Refuse cancels an order and removes it from the queue. Refusing an order
// that is not queued is a no-op. The cancellation must succeed before the
// order is evicted: an order whose status cannot reach Cancelled stays
// queued and keeps taking status updates.
func (q *RestaurantQueue) Refuse(o *Order) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.containsLocked(o.ID) {
		return nil
	}
	if err := o.TransitionTo(StatusCancelled); err != nil {
		return err
	}
	q.removeLocked(o.ID)
	return nil
}

// UpdateStatus advances a queued order through its state machine. Orders not
// in this queue are rejected; orders that reach a terminal status are dropped
// from the queue.
func (q *RestaurantQueue) UpdateStatus(o *Order, next OrderStatus) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.containsLocked(o.ID) {
		return fmt.Errorf("%w: order %d", ErrNotInQueue, o.ID)
	}
	if err := o.TransitionTo(next); err != nil {
		return err
	}
	if next.Terminal() {
		q.removeLocked(o.ID)
	}
	return nil
}

// Pending returns a copy of the in-flight orders in acceptance order.
func (q *RestaurantQueue) Pending() []*Order {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Order, len(q.orders))
	copy(out, q.orders)
	return out
}

// Contains reports queue membership by order id.
func (q *RestaurantQueue) Contains(orderID int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.containsLocked(orderID)
}

func (q *RestaurantQueue) containsLocked(orderID int64) bool {
	for _, queued := range q.orders {
		if queued.ID == orderID {
			return true
		}
	}
	return false
}

func (q *RestaurantQueue) removeLocked(orderID int64) bool {
	for i, queued := range q.orders {
		if queued.ID == orderID {
			q.orders = append(q.orders[:i], q.orders[i+1:]...)
			return true
		}
	}
	return false
}
