package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/infrastructure/persistence"
	"github.com/feedoffice/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	march1 = testutil.Date(2026, time.March, 1)
	march2 = testutil.Date(2026, time.March, 2)
)

type ledgerFixture struct {
	env     *testutil.Env
	maize   *inventory.RawMaterial
	layerID uuid.UUID
}

// newLedgerFixture backdates ledger rows over two days:
// maize +500 on Mar 1, then -120 and +30 on Mar 2;
// layer mash +40 bags on Mar 1, -15 on Mar 2.
func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	env := testutil.NewEnv(t)
	f := &ledgerFixture{
		env:     env,
		maize:   env.RawMaterial(t, "Maize"),
		layerID: env.FeedCategory(t, "Layer Mash", 900).ID,
	}
	f.raw(t, inventory.RawTransactionIn, 500, march1.Add(9*time.Hour))
	f.raw(t, inventory.RawTransactionOut, 120, march2.Add(11*time.Hour))
	f.raw(t, inventory.RawTransactionIn, 30, march2.Add(23*time.Hour+59*time.Minute))
	f.feed(t, 40, march1.Add(10*time.Hour))
	f.feed(t, -15, march2.Add(15*time.Hour))
	return f
}

func (f *ledgerFixture) raw(t *testing.T, txType inventory.RawTransactionType, qty int64, at time.Time) {
	t.Helper()
	entry, err := inventory.NewRawMaterialTransaction(f.maize.ID, f.env.AdminID, txType, decimal.NewFromInt(qty), "")
	require.NoError(t, err)
	entry.CreatedAt = at
	require.NoError(t, f.env.Scope.Reader().RawMaterialLedger().Create(context.Background(), entry))
}

func (f *ledgerFixture) feed(t *testing.T, delta int64, at time.Time) {
	t.Helper()
	entry, err := inventory.NewFeedAdjustment(f.layerID, f.env.AdminID, delta, "stock count")
	require.NoError(t, err)
	entry.CreatedAt = at
	require.NoError(t, f.env.Scope.Reader().FeedLedger().Create(context.Background(), entry))
}

func (f *ledgerFixture) snapshot(t *testing.T, kind report.SnapshotKind, id uuid.UUID, day time.Time) *report.DailySnapshot {
	t.Helper()
	snap, err := f.env.Scope.Reader().Snapshots().FindOne(context.Background(), kind, id, day)
	require.NoError(t, err)
	return snap
}

func assertFigures(t *testing.T, snap *report.DailySnapshot, opening, in, out, closing int64) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(opening).Equal(snap.Opening), "opening %s", snap.Opening)
	assert.True(t, decimal.NewFromInt(in).Equal(snap.In), "in %s", snap.In)
	assert.True(t, decimal.NewFromInt(out).Equal(snap.Out), "out %s", snap.Out)
	assert.True(t, decimal.NewFromInt(closing).Equal(snap.Closing), "closing %s", snap.Closing)
}

func TestSnapshotService_RunDaily(t *testing.T) {
	ctx := context.Background()

	t.Run("chains consecutive days", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewSnapshotService(f.env.Scope, time.UTC)

		result, err := svc.RunDaily(ctx, march1)
		require.NoError(t, err)
		assert.Equal(t, 1, result.RawMaterial)
		assert.Equal(t, 1, result.Feed)
		assertFigures(t, f.snapshot(t, report.SnapshotKindRawMaterial, f.maize.ID, march1), 0, 500, 0, 500)
		assertFigures(t, f.snapshot(t, report.SnapshotKindFeed, f.layerID, march1), 0, 40, 0, 40)

		_, err = svc.RunDaily(ctx, march2)
		require.NoError(t, err)
		assertFigures(t, f.snapshot(t, report.SnapshotKindRawMaterial, f.maize.ID, march2), 500, 30, 120, 410)
		assertFigures(t, f.snapshot(t, report.SnapshotKindFeed, f.layerID, march2), 40, 0, 15, 25)
	})

	t.Run("opening comes from the stored previous closing", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewSnapshotService(f.env.Scope, time.UTC)
		corrected := report.NewDailySnapshot(report.SnapshotKindRawMaterial, f.maize.ID, march1,
			decimal.Zero, decimal.NewFromInt(480), decimal.Zero)
		require.NoError(t, f.env.Scope.Reader().Snapshots().Upsert(ctx, corrected))

		_, err := svc.RunDaily(ctx, march2)
		require.NoError(t, err)
		assertFigures(t, f.snapshot(t, report.SnapshotKindRawMaterial, f.maize.ID, march2), 480, 30, 120, 390)
	})

	t.Run("missing previous day falls back to the ledger", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewSnapshotService(f.env.Scope, time.UTC)

		_, err := svc.RunDaily(ctx, march2)
		require.NoError(t, err)
		assertFigures(t, f.snapshot(t, report.SnapshotKindRawMaterial, f.maize.ID, march2), 500, 30, 120, 410)
	})

	t.Run("adjustments count as in and out by sign", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewSnapshotService(f.env.Scope, time.UTC)
		f.raw(t, inventory.RawTransactionAdjustment, -8, march2.Add(16*time.Hour))
		f.raw(t, inventory.RawTransactionAdjustment, 3, march2.Add(17*time.Hour))

		_, err := svc.RunDaily(ctx, march2)
		require.NoError(t, err)
		snap := f.snapshot(t, report.SnapshotKindRawMaterial, f.maize.ID, march2)
		assertFigures(t, snap, 500, 33, 128, 405)

		balance, err := f.env.Scope.Reader().RawMaterialLedger().MovementBetween(ctx, f.maize.ID, time.Time{}, march2.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.True(t, balance.In.Sub(balance.Out).Equal(snap.Closing), "closing must match the ledger")
	})

	t.Run("rerun replaces rows", func(t *testing.T) {
		f := newLedgerFixture(t)
		svc := NewSnapshotService(f.env.Scope, time.UTC)
		_, err := svc.RunDaily(ctx, march1)
		require.NoError(t, err)
		f.raw(t, inventory.RawTransactionIn, 5, march1.Add(20*time.Hour))
		_, err = svc.RunDaily(ctx, march1)
		require.NoError(t, err)

		rows, err := f.env.Scope.Reader().Snapshots().FindByDate(ctx, report.SnapshotKindRawMaterial, march1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, decimal.NewFromInt(505).Equal(rows[0].Closing))
	})

	t.Run("day boundaries follow the configured timezone", func(t *testing.T) {
		f := newLedgerFixture(t)
		ist, err := time.LoadLocation("Asia/Kolkata")
		require.NoError(t, err)
		svc := NewSnapshotService(f.env.Scope, ist)

		// 23:59 UTC on Mar 2 is already Mar 3 in India
		_, err = svc.RunDaily(ctx, time.Date(2026, time.March, 2, 12, 0, 0, 0, ist))
		require.NoError(t, err)
		assertFigures(t, f.snapshot(t, report.SnapshotKindRawMaterial, f.maize.ID, march2), 500, 0, 120, 380)
	})
}

type failingLedger struct {
	*persistence.GormRawMaterialTransactionRepository
	failFor uuid.UUID
}

func (l failingLedger) MovementBetween(ctx context.Context, id uuid.UUID, from, to time.Time) (inventory.Movement, error) {
	if id == l.failFor {
		return inventory.Movement{}, errors.New("disk on fire")
	}
	return l.GormRawMaterialTransactionRepository.MovementBetween(ctx, id, from, to)
}

func TestSnapshotService_EntityFailureDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	soy := f.env.RawMaterial(t, "Soy Meal")

	repos := persistence.NewRepositories(f.env.DB)
	repos.RawMaterialLedgerRepo = failingLedger{
		GormRawMaterialTransactionRepository: persistence.NewGormRawMaterialTransactionRepository(f.env.DB),
		failFor:                              f.maize.ID,
	}
	svc := NewSnapshotService(txn.NewNoOpTransactionScope(repos), time.UTC)

	result, err := svc.RunDaily(ctx, march1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maize")
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.RawMaterial)
	assert.Equal(t, 1, result.Feed)

	assertFigures(t, f.snapshot(t, report.SnapshotKindRawMaterial, soy.ID, march1), 0, 0, 0, 0)
	_, err = f.env.Scope.Reader().Snapshots().FindOne(ctx, report.SnapshotKindRawMaterial, f.maize.ID, march1)
	require.ErrorIs(t, err, report.ErrSnapshotNotFound)
}

func TestSnapshotService_Yesterday(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	svc := NewSnapshotService(nil, ist)

	// 20:00 UTC on Mar 1 is 01:30 on Mar 2 in India
	got := svc.Yesterday(time.Date(2026, time.March, 1, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-01", got.Format(time.DateOnly))
	assert.Equal(t, ist, got.Location())
}
