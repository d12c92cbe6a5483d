package finance

import (
	"context"
	"sync"
	"testing"
	"time"

	tradeapp "github.com/feedoffice/backend/internal/application/trade"
	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/domain/trade"
	"github.com/feedoffice/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type financeFixture struct {
	env      *testutil.Env
	orders   *tradeapp.OrderService
	payments *PaymentService
	refunds  *RefundService
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	env := testutil.NewEnv(t)
	return &financeFixture{
		env:      env,
		orders:   tradeapp.NewOrderService(env.Scope, time.UTC),
		payments: NewPaymentService(env.Scope, time.UTC),
		refunds:  NewRefundService(env.Scope, time.UTC),
	}
}

// order creates a 1000.00 order (one bag at 1000)
func (f *financeFixture) order(t *testing.T) *tradeapp.OrderResponse {
	t.Helper()
	customer := f.env.Customer(t, "Kisan Dairy "+uuid.NewString()[:4])
	category := f.env.FeedCategory(t, "Cattle Feed "+uuid.NewString()[:4], 1000)
	f.env.Stock(t, category.ID, 10)
	resp, err := f.orders.Create(context.Background(), f.env.AdminID, tradeapp.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []tradeapp.CreateOrderItemInput{{FeedCategoryID: category.ID, QuantityBags: 1}},
	})
	require.NoError(t, err)
	return resp
}

func (f *financeFixture) pay(t *testing.T, orderID uuid.UUID, amount int64) *RecordPaymentResponse {
	t.Helper()
	resp, err := f.payments.RecordPayment(context.Background(), f.env.AdminID, orderID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(amount), Method: "UPI",
	})
	require.NoError(t, err)
	return resp
}

func TestPaymentService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture(t)
	order := f.order(t)

	first := f.pay(t, order.ID, 400)
	assert.True(t, decimal.NewFromInt(400).Equal(first.PaidAmount))
	assert.True(t, decimal.NewFromInt(600).Equal(first.DueAmount))
	assert.Equal(t, "UPI", first.Payment.Method)

	t.Run("defaults to cash", func(t *testing.T) {
		resp, err := f.payments.RecordPayment(ctx, f.env.AdminID, order.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		assert.Equal(t, "CASH", resp.Payment.Method)
		assert.True(t, decimal.NewFromInt(500).Equal(resp.DueAmount))
	})

	tests := []struct {
		name    string
		orderID uuid.UUID
		amount  decimal.Decimal
		wantErr error
	}{
		{"more than due", order.ID, decimal.NewFromInt(501), trade.ErrOverpayment},
		{"zero", order.ID, decimal.Zero, shared.ErrInvalidAmount},
		{"negative", order.ID, decimal.NewFromInt(-5), shared.ErrInvalidAmount},
		{"unknown order", uuid.New(), decimal.NewFromInt(1), trade.ErrOrderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payments.RecordPayment(ctx, f.env.AdminID, tt.orderID, RecordPaymentRequest{Amount: tt.amount})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(got.PaidAmount), "failed payments change nothing")

	net, err := f.payments.NetCollected(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, net.Equal(got.PaidAmount))

	list, err := f.payments.List(ctx, PaymentListFilter{OrderID: &order.ID, Method: "UPI"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestPaymentService_ExactDueSettlesOrder(t *testing.T) {
	f := newFinanceFixture(t)
	order := f.order(t)
	resp := f.pay(t, order.ID, 1000)
	assert.True(t, resp.DueAmount.IsZero())

	_, err := f.payments.RecordPayment(context.Background(), f.env.AdminID, order.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, trade.ErrOverpayment)
}

func TestPaymentService_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture(t)
	order := f.order(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.payments.RecordPayment(ctx, f.env.AdminID, order.ID, RecordPaymentRequest{Amount: decimal.NewFromInt(600)})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)

	got, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600).Equal(got.PaidAmount))
	assert.True(t, decimal.NewFromInt(400).Equal(got.DueAmount))
}

func TestRefundService(t *testing.T) {
	ctx := context.Background()

	cancelPaid := func(t *testing.T, f *financeFixture, paid int64) (*tradeapp.OrderResponse, RefundResponse) {
		t.Helper()
		order := f.order(t)
		f.pay(t, order.ID, paid)
		_, err := f.orders.Cancel(ctx, f.env.AdminID, order.ID)
		require.NoError(t, err)
		list, err := f.refunds.List(ctx, RefundListFilter{OrderID: &order.ID})
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		return order, list.Items[0]
	}

	t.Run("approve writes a reversal and reduces paid", func(t *testing.T) {
		f := newFinanceFixture(t)
		order, refund := cancelPaid(t, f, 700)
		assert.Equal(t, "PENDING", refund.Status)

		resp, err := f.refunds.Approve(ctx, f.env.AdminID, refund.ID)
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		require.NotNil(t, resp.AdminUserID)
		assert.Equal(t, f.env.AdminID, *resp.AdminUserID)
		assert.NotNil(t, resp.ProcessedAt)

		got, err := f.orders.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, got.PaidAmount.IsZero())
		assert.True(t, got.DueAmount.IsZero())

		reversals, err := f.payments.List(ctx, PaymentListFilter{OrderID: &order.ID, Method: "REFUND"})
		require.NoError(t, err)
		require.Len(t, reversals.Items, 1)
		assert.True(t, decimal.NewFromInt(-700).Equal(reversals.Items[0].AmountPaid))

		net, err := f.payments.NetCollected(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, net.IsZero())

		_, err = f.refunds.Approve(ctx, f.env.AdminID, refund.ID)
		require.ErrorIs(t, err, finance.ErrRefundNotFoundOrProcessed)
		_, err = f.refunds.Reject(ctx, f.env.AdminID, refund.ID)
		require.ErrorIs(t, err, finance.ErrRefundNotFoundOrProcessed)
	})

	t.Run("reject has no financial effect", func(t *testing.T) {
		f := newFinanceFixture(t)
		order, refund := cancelPaid(t, f, 250)

		resp, err := f.refunds.Reject(ctx, f.env.AdminID, refund.ID)
		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)

		got, err := f.orders.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(250).Equal(got.PaidAmount))

		pending, err := f.refunds.List(ctx, RefundListFilter{Status: "PENDING"})
		require.NoError(t, err)
		assert.Zero(t, pending.Total)
	})

	t.Run("unknown refund", func(t *testing.T) {
		f := newFinanceFixture(t)
		_, err := f.refunds.Approve(ctx, f.env.AdminID, uuid.New())
		require.ErrorIs(t, err, finance.ErrRefundNotFoundOrProcessed)
	})

	t.Run("concurrent approvals settle once", func(t *testing.T) {
		f := newFinanceFixture(t)
		order, refund := cancelPaid(t, f, 300)

		var wg sync.WaitGroup
		errs := make([]error, 3)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.refunds.Approve(ctx, f.env.AdminID, refund.ID)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}
		assert.Equal(t, 1, succeeded)

		reversals, err := f.payments.List(ctx, PaymentListFilter{OrderID: &order.ID, Method: "REFUND"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), reversals.Total)
	})
}
