package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder() *Order {
	o := &Order{
		ID:     1,
		Status: StatusPending,
		Lines: []OrderLine{
			{ProductID: 1, ProductName: "Lasagna", Quantity: 2, UnitPrice: 45},
		},
		CustomerID:   7,
		RestaurantID: 1,
	}
	o.ComputeTotal()
	return o
}

func TestTransitionTable(t *testing.T) {
	all := []OrderStatus{
		StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
	}
	allowed := map[OrderStatus][]OrderStatus{
		StatusPending:        {StatusConfirmed, StatusCancelled},
		StatusConfirmed:      {StatusPreparing, StatusCancelled},
		StatusPreparing:      {StatusReady, StatusCancelled},
		StatusReady:          {StatusOutForDelivery},
		StatusOutForDelivery: {StatusDelivered, StatusCancelled},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

// The table has no Ready -> Cancelled edge even though every other
// non-terminal state can be cancelled. Known gap, kept as specified.
func TestTransitionTable_ReadyCannotBeCancelled(t *testing.T) {
	assert.False(t, CanTransition(StatusReady, StatusCancelled))
	assert.True(t, CanTransition(StatusReady, StatusOutForDelivery))
}

func TestOrder_TransitionTo(t *testing.T) {
	o := pendingOrder()

	require.NoError(t, o.TransitionTo(StatusConfirmed))
	assert.Equal(t, StatusConfirmed, o.CurrentStatus())

	err := o.TransitionTo(StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusConfirmed, o.CurrentStatus(), "invalid transition never changes status")

	err = o.TransitionTo("teleported")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, StatusConfirmed, o.CurrentStatus())
}

func TestOrder_TerminalStatesAcceptNothing(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusDelivered, StatusCancelled} {
		o := pendingOrder()
		o.Status = terminal
		for _, next := range []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
			if next == terminal {
				continue
			}
			assert.ErrorIs(t, o.TransitionTo(next), ErrInvalidTransition)
		}
		assert.Equal(t, terminal, o.CurrentStatus())
	}
}

func TestOrder_ComputeTotal(t *testing.T) {
	o := pendingOrder()
	assert.Equal(t, 90.0, o.Total)
	assert.Equal(t, 90.0, o.Subtotal)
	assert.Equal(t, 0.0, o.Discount)

	coupon := NewPercentageCoupon("TEN", 10, nil)
	o.Coupon = &coupon
	o.ComputeTotal()
	assert.InDelta(t, 81.0, o.Total, 0.001)
	assert.InDelta(t, 9.0, o.Discount, 0.001)

	// An expired coupon silently stops discounting.
	expired := time.Now().Add(-time.Minute)
	o.Coupon.ExpiresAt = &expired
	o.ComputeTotal()
	assert.Equal(t, 90.0, o.Total)
	assert.Equal(t, 0.0, o.Discount)
}

func TestOrder_SettlePayment(t *testing.T) {
	t.Run("no payment method", func(t *testing.T) {
		o := pendingOrder()
		assert.ErrorIs(t, o.SettlePayment(), ErrNoPaymentMethod)
		assert.Equal(t, StatusPending, o.CurrentStatus())
	})

	t.Run("rejected payment keeps order pending", func(t *testing.T) {
		o := pendingOrder()
		o.Payment = NewCashPayment(10)
		assert.ErrorIs(t, o.SettlePayment(), ErrPaymentRejected)
		assert.Equal(t, StatusPending, o.CurrentStatus())
	})

	t.Run("settles against the discounted total and confirms", func(t *testing.T) {
		o := pendingOrder()
		coupon := NewPercentageCoupon("TEN", 10, nil)
		o.Coupon = &coupon
		cash := NewCashPayment(100)
		o.Payment = cash

		require.NoError(t, o.SettlePayment())
		assert.Equal(t, StatusConfirmed, o.CurrentStatus())
		assert.True(t, cash.Settled())
		assert.InDelta(t, 19.0, cash.Change(), 0.001, "change against 81.00 due")
	})
}

func TestOrder_AttachReview(t *testing.T) {
	o := pendingOrder()
	review, _ := NewReview(5, "great")

	assert.False(t, o.AttachReview(review), "only delivered orders take reviews")
	assert.Empty(t, o.AllReviews())

	o.Status = StatusDelivered
	assert.True(t, o.AttachReview(review))
	assert.Len(t, o.AllReviews(), 1)
}

func TestNewReview_ClampsRating(t *testing.T) {
	tests := []struct {
		given       int
		want        int
		wantClamped bool
	}{
		{0, 3, true},
		{1, 1, false},
		{3, 3, false},
		{5, 5, false},
		{6, 3, true},
		{-2, 3, true},
	}
	for _, testCase := range tests {
		review, clamped := NewReview(testCase.given, "")
		assert.Equal(t, testCase.want, review.Rating, "given %d", testCase.given)
		assert.Equal(t, testCase.wantClamped, clamped, "given %d", testCase.given)
	}
}
