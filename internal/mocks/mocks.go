package mocks

import (
	"context"
	"testing"

	"tableside/internal/domain"

	"github.com/stretchr/testify/mock"
)

// OrderRepository is a mock for service.OrderRepository.
type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t *testing.T) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) LoadAllOrders(ctx context.Context) ([]*domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *OrderRepository) LoadMaxOrderID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepository) SaveReview(ctx context.Context, orderID int64, review domain.Review) error {
	args := m.Called(ctx, orderID, review)
	return args.Error(0)
}

func (m *OrderRepository) SaveOrderQR(ctx context.Context, orderID int64, qr []byte) error {
	args := m.Called(ctx, orderID, qr)
	return args.Error(0)
}

func (m *OrderRepository) GetOrderQR(ctx context.Context, orderID int64) ([]byte, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// CouponStore is a mock for service.CouponStore.
type CouponStore struct {
	mock.Mock
}

func NewCouponStore(t *testing.T) *CouponStore {
	m := &CouponStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CouponStore) Lookup(code string) *domain.Coupon {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Coupon)
}

// MarkerCache is a mock for service.MarkerCache.
type MarkerCache struct {
	mock.Mock
}

func NewMarkerCache(t *testing.T) *MarkerCache {
	m := &MarkerCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MarkerCache) CheckoutMarkerKey(customerID int) string {
	args := m.Called(customerID)
	return args.String(0)
}

func (m *MarkerCache) ReviewMarkerKey(orderID int64, customerID int) string {
	args := m.Called(orderID, customerID)
	return args.String(0)
}

func (m *MarkerCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MarkerCache) SetMarker(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MarkerCache) ClearMarker(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// EventPublisher is a mock for service.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t *testing.T) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// QRGenerator is a mock for service.QRGenerator.
type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t *testing.T) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(orderID int64) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
