package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashPayment(t *testing.T) {
	t.Run("computes change", func(t *testing.T) {
		p := NewCashPayment(100)
		require.NoError(t, p.Settle(81))
		assert.True(t, p.Settled())
		assert.InDelta(t, 19.0, p.Change(), 0.001)
	})

	t.Run("insufficient cash is rejected", func(t *testing.T) {
		p := NewCashPayment(50)
		err := p.Settle(81)
		assert.ErrorIs(t, err, ErrPaymentRejected)
		assert.False(t, p.Settled())
	})

	t.Run("settling twice is rejected", func(t *testing.T) {
		p := NewCashPayment(100)
		require.NoError(t, p.Settle(50))
		assert.ErrorIs(t, p.Settle(50), ErrAlreadySettled)
	})

	t.Run("exact amount settles with zero change", func(t *testing.T) {
		p := NewCashPayment(81)
		require.NoError(t, p.Settle(81))
		assert.Equal(t, 0.0, p.Change())
	})
}

func TestCardPayment_Validation(t *testing.T) {
	t.Run("valid card settles", func(t *testing.T) {
		p := NewCardPayment("4111 1111 1111 1234", "Ada Lovelace", "123", "12/27")
		require.NoError(t, p.Settle(30))
		assert.True(t, p.Settled())
		assert.Equal(t, "**** **** **** 1234", p.MaskedNumber())
	})

	tests := []struct {
		name   string
		number string
		holder string
		cvv    string
		expiry string
	}{
		{"short number", "4111 1111 1111", "Ada Lovelace", "123", "12/27"},
		{"letters in number", "4111-abcd-1111-1234", "Ada Lovelace", "123", "12/27"},
		{"bad cvv", "4111111111111234", "Ada Lovelace", "12", "12/27"},
		{"bad expiry month", "4111111111111234", "Ada Lovelace", "123", "13/27"},
		{"bad expiry format", "4111111111111234", "Ada Lovelace", "123", "2027-12"},
		{"missing holder", "4111111111111234", "", "123", "12/27"},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			p := NewCardPayment(testCase.number, testCase.holder, testCase.cvv, testCase.expiry)
			err := p.Settle(30)
			assert.ErrorIs(t, err, ErrPaymentRejected)
			assert.False(t, p.Settled())
		})
	}
}

func TestCardPayment_SentinelCVVAlwaysDeclined(t *testing.T) {
	for _, due := range []float64{0.01, 30, 9999} {
		p := NewCardPayment("4111111111111234", "Ada Lovelace", "000", "12/27")
		err := p.Settle(due)
		assert.ErrorIs(t, err, ErrPaymentRejected, "due %.2f", due)
	}
}

func TestCardPayment_PluggableAuthorizer(t *testing.T) {
	p := NewCardPayment("4111111111111234", "Ada Lovelace", "000", "12/27")
	p.SetAuthorizer(func(card *CardPayment, due float64) error { return nil })
	require.NoError(t, p.Settle(30), "stubbed issuer accepts the sentinel CVV")
}

func TestInstantTransferPayment(t *testing.T) {
	p := NewInstantTransferPayment("ada@example.com")
	require.NoError(t, p.Settle(123.45))
	assert.True(t, p.Settled())
	assert.ErrorIs(t, p.Settle(1), ErrAlreadySettled)

	assert.Equal(t, "ad***********om", p.MaskedKey())
	assert.Equal(t, "***", NewInstantTransferPayment("abc").MaskedKey())
}
