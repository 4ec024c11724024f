package service

import (
	"context"

	"tableside/internal/domain"
)

// OrderRepository is the durable store for orders and reviews. The order id
// counter is seeded from LoadMaxOrderID on startup so restarts never reuse
// identifiers.
type OrderRepository interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
	LoadAllOrders(ctx context.Context) ([]*domain.Order, error)
	LoadMaxOrderID(ctx context.Context) (int64, error)
	SaveReview(ctx context.Context, orderID int64, review domain.Review) error
	SaveOrderQR(ctx context.Context, orderID int64, qr []byte) error
	GetOrderQR(ctx context.Context, orderID int64) ([]byte, error)
}

// CouponStore resolves user-supplied coupon codes.
type CouponStore interface {
	Lookup(code string) *domain.Coupon
}

// MarkerCache guards against double submission: a marker is set the moment an
// order commits and checked before any retry of the same cart.
type MarkerCache interface {
	CheckoutMarkerKey(customerID int) string
	ReviewMarkerKey(orderID int64, customerID int) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
	ClearMarker(ctx context.Context, key string) error
}

// EventPublisher emits order lifecycle events for downstream consumers.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

// QRGenerator renders the pickup code attached to confirmed orders.
type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

// RestaurantDirectory is the slice of the registry the order pipeline needs.
type RestaurantDirectory interface {
	Restaurant(id int) (*domain.Restaurant, error)
	Queue(restaurantID int) (*domain.RestaurantQueue, error)
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, cart *domain.Cart, couponCode string, payment domain.PaymentMethod) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, next domain.OrderStatus) (*domain.Order, error)
	RefuseOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	Order(orderID int64) (*domain.Order, error)
	Orders() []*domain.Order
	OrderQR(ctx context.Context, orderID int64) ([]byte, error)
}

type ReviewServiceInterface interface {
	AttachReview(ctx context.Context, orderID int64, customerID int, rating int, comment string) (domain.Review, error)
	OrderReviews(orderID int64) ([]domain.Review, error)
}

var (
	_ OrderServiceInterface  = (*OrderService)(nil)
	_ ReviewServiceInterface = (*ReviewService)(nil)
)
