package finance

import (
	"testing"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	orderID := uuid.New()
	adminID := uuid.New()

	t.Run("defaults method to cash", func(t *testing.T) {
		p, err := NewPayment(orderID, adminID, decimal.RequireFromString("950.004"), "", time.Time{}, " first ")
		require.NoError(t, err)
		assert.Equal(t, PaymentMethodCash, p.Method)
		assert.Equal(t, "950.00", p.AmountPaid.StringFixed(2))
		assert.Equal(t, "first", p.Note)
		assert.False(t, p.PaymentDate.IsZero())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(orderID, adminID, decimal.Zero, PaymentMethodUPI, time.Now(), "")
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("refund method is not a payment method", func(t *testing.T) {
		_, err := NewPayment(orderID, adminID, decimal.NewFromInt(1), PaymentMethodRefund, time.Now(), "")
		assert.Error(t, err)
	})
}

func TestRefund_Lifecycle(t *testing.T) {
	adminID := uuid.New()

	t.Run("approve once", func(t *testing.T) {
		r, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(300), "order canceled")
		require.NoError(t, err)
		assert.True(t, r.IsPending())

		require.NoError(t, r.Approve(adminID))
		assert.Equal(t, RefundStatusApproved, r.Status)
		assert.Equal(t, adminID, *r.AdminUserID)
		assert.NotNil(t, r.ProcessedAt)

		assert.ErrorIs(t, r.Approve(adminID), ErrRefundNotFoundOrProcessed)
		assert.ErrorIs(t, r.Reject(adminID), ErrRefundNotFoundOrProcessed)
	})

	t.Run("reject", func(t *testing.T) {
		r, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(10), "")
		require.NoError(t, err)
		require.NoError(t, r.Reject(adminID))
		assert.Equal(t, RefundStatusRejected, r.Status)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewRefund(uuid.New(), uuid.New(), decimal.Zero, "")
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})
}

func TestNewRefundReversal(t *testing.T) {
	r, err := NewRefund(uuid.New(), uuid.New(), decimal.NewFromInt(300), "damaged")
	require.NoError(t, err)

	p := NewRefundReversal(r, uuid.New())

	assert.Equal(t, r.OrderID, p.OrderID)
	assert.Equal(t, PaymentMethodRefund, p.Method)
	assert.True(t, decimal.NewFromInt(-300).Equal(p.AmountPaid))
	assert.Equal(t, "Refund approved: damaged", p.Note)
}
