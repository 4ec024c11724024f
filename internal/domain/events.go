package domain

import "time"

// Order lifecycle event types published for downstream consumers.
const (
	EventOrderConfirmed = "order_confirmed"
	EventStatusChanged  = "status_changed"
	EventOrderRefused   = "order_refused"
	EventNewReview      = "new_review"
)

// OrderEvent is the message emitted whenever an order changes state.
type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      int64     `json:"order_id"`
	RestaurantID int       `json:"restaurant_id"`
	CustomerID   int       `json:"customer_id"`
	Status       string    `json:"status"`
	Total        float64   `json:"total"`
	Rating       int       `json:"rating,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
