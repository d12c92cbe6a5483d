package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	invapp "github.com/feedoffice/backend/internal/application/inventory"
	tradeapp "github.com/feedoffice/backend/internal/application/trade"
	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubLowStock []invapp.FeedStockResponse

func (s stubLowStock) LowStock(context.Context) ([]invapp.FeedStockResponse, error) {
	return s, nil
}

func TestReportService_DailyReport(t *testing.T) {
	ctx := context.Background()

	t.Run("past day reads snapshots", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewSnapshotService(f.env.Scope, time.UTC).RunDaily(ctx, march1)
		require.NoError(t, err)

		svc := NewReportService(f.env.Scope, time.UTC, nil)
		got, err := svc.DailyReport(ctx, march1)
		require.NoError(t, err)
		assert.Equal(t, "2026-03-01", got.Date)
		assert.False(t, got.Live)
		require.Len(t, got.RawMaterials, 1)
		assert.Equal(t, "Maize", got.RawMaterials[0].Name)
		assert.Equal(t, "KG", got.RawMaterials[0].Unit)
		assert.True(t, decimal.NewFromInt(500).Equal(got.RawMaterials[0].Closing))
		require.Len(t, got.FinishedFeed, 1)
		assert.Equal(t, "Layer Mash", got.FinishedFeed[0].Name)
		assert.True(t, got.CashCollected.IsZero())
	})

	t.Run("past day without snapshots", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewReportService(f.env.Scope, time.UTC, nil)
		_, err := svc.DailyReport(ctx, march2)
		require.ErrorIs(t, err, report.ErrSnapshotNotFound)
	})

	t.Run("today without snapshots is live", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.env.Stock(t, f.layerID, 25)
		svc := NewReportService(f.env.Scope, time.UTC, nil)
		svc.now = func() time.Time { return march2.Add(14 * time.Hour) }

		got, err := svc.DailyReport(ctx, march2)
		require.NoError(t, err)
		assert.True(t, got.Live)
		require.Len(t, got.RawMaterials, 1)
		line := got.RawMaterials[0]
		assert.True(t, decimal.NewFromInt(410).Equal(line.Closing))
		assert.True(t, line.Opening.Equal(line.Closing))
		assert.True(t, line.In.IsZero())
		require.Len(t, got.FinishedFeed, 1)
		assert.True(t, decimal.NewFromInt(25).Equal(got.FinishedFeed[0].Closing))
	})

	t.Run("cash collected counts the day's signed ledger", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := NewSnapshotService(f.env.Scope, time.UTC).RunDaily(ctx, march1)
		require.NoError(t, err)
		order := newPaidOrder(t, f, 300)
		reversal := &finance.Payment{
			ID: uuid.New(), OrderID: order, AdminUserID: f.env.AdminID, AmountPaid: decimal.NewFromInt(-100),
			Method: finance.PaymentMethodRefund, PaymentDate: march1.Add(18 * time.Hour), CreatedAt: time.Now(),
		}
		require.NoError(t, f.env.Scope.Reader().Payments().Create(ctx, reversal))

		got, err := NewReportService(f.env.Scope, time.UTC, nil).DailyReport(ctx, march1)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(200).Equal(got.CashCollected), got.CashCollected.String())
	})
}

// newPaidOrder creates a one-bag order and a payment dated Mar 1
func newPaidOrder(t *testing.T, f *ledgerFixture, amount int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	customer := f.env.Customer(t, "Anand Farms")
	f.env.Stock(t, f.layerID, 1)
	order, err := tradeapp.NewOrderService(f.env.Scope, time.UTC).Create(ctx, f.env.AdminID, tradeapp.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []tradeapp.CreateOrderItemInput{{FeedCategoryID: f.layerID, QuantityBags: 1}},
	})
	require.NoError(t, err)
	payment, err := finance.NewPayment(order.ID, f.env.AdminID, decimal.NewFromInt(amount), finance.PaymentMethodCash, march1.Add(8*time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, f.env.Scope.Reader().Payments().Create(ctx, payment))
	return order.ID
}

func TestReportService_ExportDailyReport(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	snapshots := NewSnapshotService(f.env.Scope, time.UTC)
	_, err := snapshots.RunDaily(ctx, march1)
	require.NoError(t, err)
	_, err = snapshots.RunDaily(ctx, march2)
	require.NoError(t, err)

	var buf bytes.Buffer
	svc := NewReportService(f.env.Scope, time.UTC, nil)
	require.NoError(t, svc.ExportDailyReport(ctx, march2, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{SheetRawMaterials, SheetFinishedFeed}, wb.GetSheetList())

	raw, err := wb.GetRows(SheetRawMaterials)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, []string{"Maize", "KG", "500", "30", "120", "410"}, raw[1])

	feed, err := wb.GetRows(SheetFinishedFeed)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, []string{"Layer Mash", "40", "0", "15", "25"}, feed[1])

	buf.Reset()
	err = svc.ExportDailyReport(ctx, testutil.Date(2025, time.January, 1), &buf)
	require.ErrorIs(t, err, report.ErrSnapshotNotFound)
	assert.Zero(t, buf.Len())
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	low := stubLowStock{{FeedCategoryID: f.layerID, FeedCategoryName: "Layer Mash", QuantityAvailable: 2, IsLow: true}}
	svc := NewReportService(f.env.Scope, time.UTC, low)

	empty, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, empty.OrdersByStatus, 5)
	assert.Zero(t, empty.TotalOrders)
	assert.True(t, empty.TotalSales.IsZero())
	require.Len(t, empty.LowStock, 1)

	orders := tradeapp.NewOrderService(f.env.Scope, time.UTC)
	customer := f.env.Customer(t, "Patil Dairy")
	f.env.Stock(t, f.layerID, 10)
	create := func() uuid.UUID {
		resp, err := orders.Create(ctx, f.env.AdminID, tradeapp.CreateOrderRequest{
			CustomerID: customer.ID,
			Items:      []tradeapp.CreateOrderItemInput{{FeedCategoryID: f.layerID, QuantityBags: 2}},
		})
		require.NoError(t, err)
		return resp.ID
	}
	create()
	canceled := create()
	_, err = orders.Cancel(ctx, f.env.AdminID, canceled)
	require.NoError(t, err)

	got, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalOrders)
	assert.Equal(t, int64(1), got.OrdersByStatus["PENDING"])
	assert.Equal(t, int64(1), got.OrdersByStatus["CANCELED"])
	assert.True(t, decimal.NewFromInt(1800).Equal(got.TotalSales), got.TotalSales.String())
	assert.True(t, decimal.NewFromInt(1800).Equal(got.TotalOutstanding))
	assert.Zero(t, got.PendingRefunds)
}
