package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRawMaterialRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRawMaterialRepository(db)
	ctx := context.Background()

	maize, err := inventory.NewRawMaterial("Maize", inventory.UnitKG)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, maize))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, maize.ID)
		require.NoError(t, err)
		assert.Equal(t, "Maize", found.Name)
		assert.Equal(t, inventory.UnitKG, found.Unit)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, inventory.ErrRawMaterialNotFound)
	})

	t.Run("name check ignores case", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "  MAIZE ")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, "Soya")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate name is rejected by the unique index", func(t *testing.T) {
		dup, err := inventory.NewRawMaterial("Maize", inventory.UnitTon)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), inventory.ErrRawMaterialExists)
	})

	t.Run("lists by name", func(t *testing.T) {
		bran, err := inventory.NewRawMaterial("Bran", inventory.UnitTon)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, bran))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Bran", all[0].Name)
	})
}

func TestGormRawMaterialTransactionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRawMaterialTransactionRepository(db)
	ctx := context.Background()
	maize, bran, adminID := uuid.New(), uuid.New(), uuid.New()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	entry := func(material uuid.UUID, txType inventory.RawTransactionType, qty int64, at time.Time) *inventory.RawMaterialTransaction {
		tx, err := inventory.NewRawMaterialTransaction(material, adminID, txType, decimal.NewFromInt(qty), "")
		require.NoError(t, err)
		tx.CreatedAt = at
		return tx
	}

	require.NoError(t, repo.Create(ctx, entry(maize, inventory.RawTransactionIn, 500, day.Add(-time.Hour))))
	require.NoError(t, repo.CreateBatch(ctx, []*inventory.RawMaterialTransaction{
		entry(maize, inventory.RawTransactionOut, 120, day.Add(3*time.Hour)),
		entry(maize, inventory.RawTransactionAdjustment, -30, day.Add(4*time.Hour)),
		entry(maize, inventory.RawTransactionIn, 200, day.Add(6*time.Hour)),
		entry(bran, inventory.RawTransactionIn, 75, day.Add(time.Hour)),
	}))

	t.Run("balance sums signed deltas", func(t *testing.T) {
		balance, err := repo.Balance(ctx, maize)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(550)), balance.String())
	})

	t.Run("balance of a material without entries is zero", func(t *testing.T) {
		balance, err := repo.Balance(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("balances are grouped by material", func(t *testing.T) {
		balances, err := repo.Balances(ctx)
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.True(t, balances[maize].Equal(decimal.NewFromInt(550)))
		assert.True(t, balances[bran].Equal(decimal.NewFromInt(75)))
	})

	t.Run("movement splits in and out within the day", func(t *testing.T) {
		m, err := repo.MovementBetween(ctx, maize, day, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.True(t, m.In.Equal(decimal.NewFromInt(200)), m.In.String())
		assert.True(t, m.Out.Equal(decimal.NewFromInt(150)), m.Out.String())
	})

	t.Run("lists with pagination", func(t *testing.T) {
		rows, total, err := repo.FindAll(ctx, inventory.LedgerFilter{EntityID: &maize})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, rows, 4)

		filter := inventory.LedgerFilter{EntityID: &maize}
		filter.PageSize = 3
		filter.Page.Page = 2
		rows, total, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, rows, 1)
		assert.Equal(t, inventory.RawTransactionIn, rows[0].Type)
		assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(500)))
	})
}
