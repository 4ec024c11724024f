package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tableside/internal/domain"
)

// ErrDuplicateReview is returned when a customer reviews the same order twice.
var ErrDuplicateReview = errors.New("review already exists for this order")

// OrderDirectory is the slice of the order service the review flow needs.
type OrderDirectory interface {
	Order(orderID int64) (*domain.Order, error)
}

// ReviewService attaches reviews to delivered orders, guards against
// duplicates with a cache marker, and publishes review events.
type ReviewService struct {
	orders    OrderDirectory
	repo      OrderRepository
	cache     MarkerCache
	publisher EventPublisher
}

func NewReviewService(orders OrderDirectory, repo OrderRepository, cache MarkerCache, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		orders:    orders,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// AttachReview records a rating against a delivered order. Out-of-range
// ratings are coerced to the default with a warning rather than rejected.
func (s *ReviewService) AttachReview(ctx context.Context, orderID int64, customerID int, rating int, comment string) (domain.Review, error) {
	order, err := s.orders.Order(orderID)
	if err != nil {
		return domain.Review{}, err
	}

	if s.cache != nil {
		key := s.cache.ReviewMarkerKey(orderID, customerID)
		if exists, err := s.cache.Exists(ctx, key); err != nil {
			slog.Warn("review marker check failed", "order_id", orderID, "error", err)
		} else if exists {
			return domain.Review{}, ErrDuplicateReview
		}
	}

	review, clamped := domain.NewReview(rating, comment)
	if clamped {
		slog.Warn("rating out of range, coerced to default",
			"order_id", orderID, "given", rating, "used", review.Rating)
	}

	if !order.AttachReview(review) {
		return domain.Review{}, fmt.Errorf("%w: order %d is %s", domain.ErrOrderNotDelivered, orderID, order.CurrentStatus())
	}

	if err := s.repo.SaveReview(ctx, orderID, review); err != nil {
		slog.Error("could not persist review", "order_id", orderID, "error", err)
	}
	if s.cache != nil {
		key := s.cache.ReviewMarkerKey(orderID, customerID)
		if err := s.cache.SetMarker(ctx, key); err != nil {
			slog.Warn("could not set review marker", "order_id", orderID, "error", err)
		}
	}
	if s.publisher != nil {
		snap := order.Snapshot()
		event := domain.OrderEvent{
			Type:         domain.EventNewReview,
			OrderID:      orderID,
			RestaurantID: snap.RestaurantID,
			CustomerID:   customerID,
			Status:       string(snap.Status),
			Total:        snap.Total,
			Rating:       review.Rating,
			Timestamp:    review.CreatedAt,
		}
		if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
			slog.Warn("could not publish review event", "order_id", orderID, "error", err)
		}
	}
	return review, nil
}

// OrderReviews lists the reviews attached to an order.
func (s *ReviewService) OrderReviews(orderID int64) ([]domain.Review, error) {
	order, err := s.orders.Order(orderID)
	if err != nil {
		return nil, err
	}
	return order.AllReviews(), nil
}
