package inventory

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Raw material ====================

func TestNewRawMaterial(t *testing.T) {
	t.Run("creates with trimmed name", func(t *testing.T) {
		m, err := NewRawMaterial("  Maize ", UnitKG)
		require.NoError(t, err)
		assert.Equal(t, "Maize", m.Name)
		assert.Equal(t, UnitKG, m.Unit)
		assert.NotEqual(t, uuid.Nil, m.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRawMaterial(" ", UnitKG)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewRawMaterial("Soya", Unit("LB"))
		assert.Error(t, err)
	})
}

func TestNewRawMaterialTransaction(t *testing.T) {
	materialID := uuid.New()
	adminID := uuid.New()

	tests := []struct {
		name      string
		txType    RawTransactionType
		quantity  decimal.Decimal
		wantDelta decimal.Decimal
		wantQty   decimal.Decimal
		wantErr   bool
	}{
		{"in", RawTransactionIn, decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(100), false},
		{"out", RawTransactionOut, decimal.NewFromInt(30), decimal.NewFromInt(-30), decimal.NewFromInt(30), false},
		{"positive adjustment", RawTransactionAdjustment, decimal.NewFromInt(5), decimal.NewFromInt(5), decimal.NewFromInt(5), false},
		{"negative adjustment", RawTransactionAdjustment, decimal.NewFromInt(-7), decimal.NewFromInt(-7), decimal.NewFromInt(7), false},
		{"zero in", RawTransactionIn, decimal.Zero, decimal.Zero, decimal.Zero, true},
		{"negative out", RawTransactionOut, decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, true},
		{"zero adjustment", RawTransactionAdjustment, decimal.Zero, decimal.Zero, decimal.Zero, true},
		{"unknown type", RawTransactionType("TRANSFER"), decimal.NewFromInt(1), decimal.Zero, decimal.Zero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewRawMaterialTransaction(materialID, adminID, tt.txType, tt.quantity, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantDelta.Equal(tx.Delta), "delta %s", tx.Delta)
			assert.True(t, tt.wantQty.Equal(tx.Quantity), "quantity %s", tx.Quantity)
			assert.Equal(t, ReferenceManual, tx.ReferenceType)
		})
	}
}

func TestRawMaterialBalance(t *testing.T) {
	materialID := uuid.New()
	adminID := uuid.New()

	in, err := NewRawMaterialTransaction(materialID, adminID, RawTransactionIn, decimal.NewFromInt(100), "")
	require.NoError(t, err)
	out, err := NewRawMaterialTransaction(materialID, adminID, RawTransactionOut, decimal.NewFromInt(30), "")
	require.NoError(t, err)
	adj, err := NewRawMaterialTransaction(materialID, adminID, RawTransactionAdjustment, decimal.NewFromInt(5), "")
	require.NoError(t, err)

	balance := RawMaterialBalance([]RawMaterialTransaction{*in, *out, *adj})

	assert.True(t, decimal.NewFromInt(75).Equal(balance), "got %s", balance)
}

func TestRawMaterialTransaction_WithReference(t *testing.T) {
	batchID := uuid.New()
	tx, err := NewRawMaterialTransaction(uuid.New(), uuid.New(), RawTransactionOut, decimal.NewFromInt(2), "")
	require.NoError(t, err)

	tx.WithReference(ReferenceProductionBatch, batchID)

	assert.Equal(t, ReferenceProductionBatch, tx.ReferenceType)
	assert.Equal(t, batchID.String(), tx.ReferenceID)
}

// ==================== Finished feed ====================

func TestFeedStockTransactions(t *testing.T) {
	categoryID := uuid.New()
	adminID := uuid.New()

	t.Run("production in is positive and linked to batch", func(t *testing.T) {
		batchID := uuid.New()
		tx, err := NewProductionIn(categoryID, adminID, batchID, 40)
		require.NoError(t, err)
		assert.Equal(t, int64(40), tx.Delta)
		assert.Equal(t, int64(40), tx.Quantity)
		assert.Equal(t, batchID, *tx.ProductionBatchID)
	})

	t.Run("sale out is negative and linked to order", func(t *testing.T) {
		orderID := uuid.New()
		tx, err := NewSaleOut(categoryID, adminID, orderID, 12)
		require.NoError(t, err)
		assert.Equal(t, int64(-12), tx.Delta)
		assert.Equal(t, int64(12), tx.Quantity)
		assert.Equal(t, orderID, *tx.OrderID)
		assert.Equal(t, FeedTransactionSaleOut, tx.Type)
	})

	t.Run("adjustment stores magnitude and reason", func(t *testing.T) {
		tx, err := NewFeedAdjustment(categoryID, adminID, -3, " torn bags ")
		require.NoError(t, err)
		assert.Equal(t, int64(3), tx.Quantity)
		assert.Equal(t, int64(-3), tx.Delta)
		assert.Equal(t, "torn bags", tx.Reason)
	})

	t.Run("zero adjustment rejected", func(t *testing.T) {
		_, err := NewFeedAdjustment(categoryID, adminID, 0, "noop")
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
	})

	t.Run("cancellation restock is an adjustment linked to the order", func(t *testing.T) {
		orderID := uuid.New()
		tx, err := NewCancellationRestock(categoryID, adminID, orderID, "ORD-1", 10)
		require.NoError(t, err)
		assert.Equal(t, FeedTransactionAdjustment, tx.Type)
		assert.Equal(t, int64(10), tx.Delta)
		assert.Equal(t, orderID, *tx.OrderID)
		assert.Contains(t, tx.Reason, "ORD-1")
	})
}

func TestFinishedFeedStock_CanFulfil(t *testing.T) {
	s := FinishedFeedStock{QuantityAvailable: 10}
	assert.True(t, s.CanFulfil(10))
	assert.False(t, s.CanFulfil(11))
}

// ==================== Production batch ====================

func TestNewProductionBatch(t *testing.T) {
	categoryID := uuid.New()
	adminID := uuid.New()
	maize := uuid.New()
	soya := uuid.New()
	date := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("builds materials and batch number", func(t *testing.T) {
		batch, err := NewProductionBatch(categoryID, adminID, 50, date, []MaterialUsage{
			{RawMaterialID: maize, Quantity: decimal.NewFromInt(1000)},
			{RawMaterialID: soya, Quantity: decimal.NewFromInt(250)},
		}, "")
		require.NoError(t, err)
		assert.Len(t, batch.Materials, 2)
		assert.Equal(t, batch.ID, batch.Materials[0].ProductionBatchID)
		assert.True(t, strings.HasPrefix(batch.BatchNumber, "PB-"))
		assert.Equal(t, date, batch.ProductionDate)
	})

	t.Run("rejects duplicate material", func(t *testing.T) {
		_, err := NewProductionBatch(categoryID, adminID, 50, date, []MaterialUsage{
			{RawMaterialID: maize, Quantity: decimal.NewFromInt(1)},
			{RawMaterialID: maize, Quantity: decimal.NewFromInt(2)},
		}, "")
		assert.ErrorIs(t, err, ErrDuplicateMaterial)
	})

	t.Run("rejects non-positive bags", func(t *testing.T) {
		_, err := NewProductionBatch(categoryID, adminID, 0, date, nil, "")
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects non-positive material quantity", func(t *testing.T) {
		_, err := NewProductionBatch(categoryID, adminID, 5, date, []MaterialUsage{
			{RawMaterialID: maize, Quantity: decimal.Zero},
		}, "")
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestGenerateBatchNumber(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := GenerateBatchNumber(at, uuid.MustParse("abcdef12-0000-0000-0000-000000000000"))
	b := GenerateBatchNumber(at, uuid.MustParse("123456ab-0000-0000-0000-000000000000"))

	assert.Equal(t, "PB-20260102-030405-ABCDEF", a)
	assert.NotEqual(t, a, b)
}
