package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tableside/internal/domain"
)

// ErrDuplicateSubmission is returned when a checkout is retried after a
// previous attempt for the same customer already committed an order.
var ErrDuplicateSubmission = errors.New("order already submitted for this cart")

var ErrOrderNotFound = errors.New("order not found")

// OrderService drives the checkout pipeline: validate the cart, apply the
// coupon, materialize the order, settle payment, enqueue at the restaurant,
// and only then clear the cart and persist. Any failure before queue
// acceptance leaves the cart intact so the user can retry.
type OrderService struct {
	directory RestaurantDirectory
	repo      OrderRepository
	coupons   CouponStore
	cache     MarkerCache
	publisher EventPublisher
	qr        QRGenerator

	seq    atomic.Int64
	mu     sync.RWMutex
	orders map[int64]*domain.Order
}

func NewOrderService(directory RestaurantDirectory, repo OrderRepository, coupons CouponStore, cache MarkerCache, publisher EventPublisher, qr QRGenerator) *OrderService {
	return &OrderService{
		directory: directory,
		repo:      repo,
		coupons:   coupons,
		cache:     cache,
		publisher: publisher,
		qr:        qr,
		orders:    make(map[int64]*domain.Order),
	}
}

// Restore loads persisted orders, seeds the order id sequence from the
// highest persisted id, and re-enqueues non-terminal orders at their
// restaurants. Called once on startup.
func (s *OrderService) Restore(ctx context.Context) error {
	maxID, err := s.repo.LoadMaxOrderID(ctx)
	if err != nil {
		return fmt.Errorf("load max order id: %w", err)
	}
	s.seq.Store(maxID)

	orders, err := s.repo.LoadAllOrders(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	s.mu.Lock()
	for _, order := range orders {
		s.orders[order.ID] = order
	}
	s.mu.Unlock()

	for _, order := range orders {
		status := order.CurrentStatus()
		if status == domain.StatusPending || status.Terminal() {
			continue
		}
		queue, err := s.directory.Queue(order.RestaurantID)
		if err != nil {
			slog.Warn("restore: restaurant gone, order left unqueued",
				"order_id", order.ID, "restaurant_id", order.RestaurantID)
			continue
		}
		if err := queue.Accept(order); err != nil {
			slog.Warn("restore: could not re-enqueue order", "order_id", order.ID, "error", err)
		}
	}
	return nil
}

func (s *OrderService) nextOrderID() int64 {
	return s.seq.Add(1)
}

// PlaceOrder runs the full checkout pipeline for one cart. Clearing the cart
// is the final, committing action: a crash between queue acceptance and the
// clear is caught on retry by the submission marker.
func (s *OrderService) PlaceOrder(ctx context.Context, cart *domain.Cart, couponCode string, payment domain.PaymentMethod) (*domain.Order, error) {
	if s.cache != nil {
		key := s.cache.CheckoutMarkerKey(cart.CustomerID())
		if exists, err := s.cache.Exists(ctx, key); err != nil {
			slog.Warn("checkout marker check failed", "customer_id", cart.CustomerID(), "error", err)
		} else if exists && !cart.Empty() {
			return nil, ErrDuplicateSubmission
		}
	}

	if couponCode != "" {
		found := s.coupons.Lookup(couponCode)
		if found == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrCouponInvalid, couponCode)
		}
		if err := cart.ApplyCoupon(*found); err != nil {
			return nil, err
		}
	}

	if payment == nil {
		return nil, domain.ErrNoPaymentMethod
	}

	order, err := cart.Checkout()
	if err != nil {
		return nil, err
	}
	order.ID = s.nextOrderID()
	order.Payment = payment

	if err := order.SettlePayment(); err != nil {
		return nil, err
	}

	queue, err := s.directory.Queue(order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := queue.Accept(order); err != nil {
		return nil, err
	}

	// Committed. From here on failures are logged, never returned: the order
	// exists and the restaurant has it. The marker only has to survive a
	// crash between acceptance and the clear; once the cart is empty the
	// customer is free to order again, so it is dropped right after.
	if s.cache != nil {
		key := s.cache.CheckoutMarkerKey(cart.CustomerID())
		if err := s.cache.SetMarker(ctx, key); err != nil {
			slog.Warn("could not set checkout marker", "order_id", order.ID, "error", err)
		}
		cart.Clear()
		if err := s.cache.ClearMarker(ctx, key); err != nil {
			slog.Warn("could not clear checkout marker", "order_id", order.ID, "error", err)
		}
	} else {
		cart.Clear()
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	if err := s.repo.SaveOrder(ctx, order); err != nil {
		slog.Error("could not persist order", "order_id", order.ID, "error", err)
	}
	s.attachQR(ctx, order)
	s.publish(ctx, domain.EventOrderConfirmed, order, 0)

	return order, nil
}

func (s *OrderService) attachQR(ctx context.Context, order *domain.Order) {
	if s.qr == nil {
		return
	}
	qr, err := s.qr.Generate(order.ID)
	if err != nil {
		slog.Warn("could not generate pickup code", "order_id", order.ID, "error", err)
		return
	}
	if err := s.repo.SaveOrderQR(ctx, order.ID, qr); err != nil {
		slog.Warn("could not store pickup code", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order, rating int) {
	if s.publisher == nil {
		return
	}
	snap := order.Snapshot()
	event := domain.OrderEvent{
		Type:         eventType,
		OrderID:      snap.ID,
		RestaurantID: snap.RestaurantID,
		CustomerID:   snap.CustomerID,
		Status:       string(snap.Status),
		Total:        snap.Total,
		Rating:       rating,
		Timestamp:    time.Now(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		slog.Warn("could not publish order event", "order_id", order.ID, "type", eventType, "error", err)
	}
}

// UpdateStatus advances an order through its queue's state machine and
// persists the result.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.Order(orderID)
	if err != nil {
		return nil, err
	}
	queue, err := s.directory.Queue(order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := queue.UpdateStatus(order, next); err != nil {
		return nil, err
	}
	if err := s.repo.SaveOrder(ctx, order); err != nil {
		slog.Error("could not persist status change", "order_id", order.ID, "error", err)
	}
	s.publish(ctx, domain.EventStatusChanged, order, 0)
	return order, nil
}

// RefuseOrder removes an order from its restaurant's queue and cancels it.
func (s *OrderService) RefuseOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.Order(orderID)
	if err != nil {
		return nil, err
	}
	queue, err := s.directory.Queue(order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if err := queue.Refuse(order); err != nil {
		return nil, err
	}
	if s.cache != nil {
		// Let the customer re-submit right away.
		key := s.cache.CheckoutMarkerKey(order.CustomerID)
		if err := s.cache.ClearMarker(ctx, key); err != nil {
			slog.Warn("could not clear checkout marker", "order_id", order.ID, "error", err)
		}
	}
	if err := s.repo.SaveOrder(ctx, order); err != nil {
		slog.Error("could not persist refusal", "order_id", order.ID, "error", err)
	}
	s.publish(ctx, domain.EventOrderRefused, order, 0)
	return order, nil
}

func (s *OrderService) Order(orderID int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) Orders() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		out = append(out, order)
	}
	return out
}

// OrderQR fetches the stored pickup code, regenerating it when missing.
func (s *OrderService) OrderQR(ctx context.Context, orderID int64) ([]byte, error) {
	qr, err := s.repo.GetOrderQR(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qr != nil {
		regenerated, err := s.qr.Generate(orderID)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SaveOrderQR(ctx, orderID, regenerated); err != nil {
			slog.Warn("could not store regenerated pickup code", "order_id", orderID, "error", err)
		}
		return regenerated, nil
	}
	return qr, nil
}
