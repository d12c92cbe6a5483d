package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSnapshotRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSnapshotRepository(db)
	ctx := context.Background()
	entityID := uuid.New()
	day := time.Date(2026, 7, 9, 18, 30, 0, 0, time.UTC)

	first := report.NewDailySnapshot(report.SnapshotKindFeed, entityID, day,
		decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(3))
	require.NoError(t, repo.Upsert(ctx, first))

	t.Run("upsert replaces the figures of the same day", func(t *testing.T) {
		rerun := report.NewDailySnapshot(report.SnapshotKindFeed, entityID, day,
			decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.NewFromInt(3))
		require.NoError(t, repo.Upsert(ctx, rerun))

		var count int64
		require.NoError(t, db.Model(&models.DailySnapshotModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindOne(ctx, report.SnapshotKindFeed, entityID, day)
		require.NoError(t, err)
		assert.True(t, found.In.Equal(decimal.NewFromInt(8)))
		assert.True(t, found.Closing.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC), found.Date)
	})

	t.Run("kinds do not collide", func(t *testing.T) {
		raw := report.NewDailySnapshot(report.SnapshotKindRawMaterial, entityID, day,
			decimal.Zero, decimal.NewFromInt(1), decimal.Zero)
		require.NoError(t, repo.Upsert(ctx, raw))

		feed, err := repo.FindByDate(ctx, report.SnapshotKindFeed, day)
		require.NoError(t, err)
		assert.Len(t, feed, 1)
		rawRows, err := repo.FindByDate(ctx, report.SnapshotKindRawMaterial, day)
		require.NoError(t, err)
		assert.Len(t, rawRows, 1)
	})

	t.Run("missing day", func(t *testing.T) {
		_, err := repo.FindOne(ctx, report.SnapshotKindFeed, entityID, day.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, report.ErrSnapshotNotFound)
	})
}
