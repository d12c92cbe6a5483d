package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/feedoffice/backend/internal/application/txn"
	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SnapshotService rolls the raw-material and finished-feed ledgers up into
// one opening/in/out/closing row per entity per day.
type SnapshotService struct {
	scope           txn.TransactionScope
	loc             *time.Location
	businessMetrics *telemetry.BusinessMetrics
}

// NewSnapshotService creates a new SnapshotService. Days are calendar days in loc.
func NewSnapshotService(scope txn.TransactionScope, loc *time.Location) *SnapshotService {
	if loc == nil {
		loc = time.UTC
	}
	return &SnapshotService{scope: scope, loc: loc}
}

// SetBusinessMetrics sets the business metrics recorder
func (s *SnapshotService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Yesterday returns the calendar day before now in the service's timezone
func (s *SnapshotService) Yesterday(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day()-1, 0, 0, 0, 0, s.loc)
}

// RunResult summarises one RunDaily call
type RunResult struct {
	Date        time.Time `json:"date"`
	RawMaterial int       `json:"raw_materials"`
	Feed        int       `json:"feed_categories"`
	Failed      int       `json:"failed"`
}

type snapshotTarget struct {
	kind report.SnapshotKind
	id   uuid.UUID
	name string
}

// RunDaily (re)computes every snapshot for day. Each entity is written in its
// own short transaction, so one failure does not block the rest; all
// failures are returned joined. Running a day twice replaces its rows.
func (s *SnapshotService) RunDaily(ctx context.Context, day time.Time) (result RunResult, err error) {
	local := day.In(s.loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)
	result.Date = from

	ctx, span := telemetry.StartSpan(ctx, "report.run_daily_snapshot", attribute.String("date", from.Format(time.DateOnly)))
	defer func() { telemetry.EndSpan(span, err) }()
	started := time.Now()

	targets, err := s.targets(ctx)
	if err != nil {
		return result, fmt.Errorf("load snapshot targets: %w", err)
	}

	log := logger.FromContext(ctx).With(zap.String("date", from.Format(time.DateOnly)))
	var errs []error
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.snapshotOne(ctx, target, from, to); err != nil {
			result.Failed++
			log.Error("snapshot failed",
				zap.String("kind", string(target.kind)),
				zap.String("entity", target.name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s %s: %w", target.kind, target.name, err))
			continue
		}
		if target.kind == report.SnapshotKindRawMaterial {
			result.RawMaterial++
		} else {
			result.Feed++
		}
	}
	err = errors.Join(errs...)

	if s.businessMetrics != nil {
		s.businessMetrics.RecordSnapshotRun(ctx, time.Since(started), err != nil)
	}
	log.Info("daily snapshot finished",
		zap.Int("raw_materials", result.RawMaterial),
		zap.Int("feed_categories", result.Feed),
		zap.Int("failed", result.Failed),
		zap.Duration("took", time.Since(started)))
	return result, err
}

func (s *SnapshotService) targets(ctx context.Context) ([]snapshotTarget, error) {
	repos := s.scope.Reader()
	materials, err := repos.RawMaterials().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := repos.FeedCategories().FindAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	targets := make([]snapshotTarget, 0, len(materials)+len(categories))
	for _, m := range materials {
		targets = append(targets, snapshotTarget{kind: report.SnapshotKindRawMaterial, id: m.ID, name: m.Name})
	}
	for _, c := range categories {
		targets = append(targets, snapshotTarget{kind: report.SnapshotKindFeed, id: c.ID, name: c.Name})
	}
	return targets, nil
}

// snapshotOne chains the opening balance from the previous day's closing.
// Without a previous row (first run, or a gap) the opening is rebuilt from
// the ledger, which is zero for an entity with no earlier history.
func (s *SnapshotService) snapshotOne(ctx context.Context, target snapshotTarget, from, to time.Time) error {
	return s.scope.Execute(ctx, func(repos txn.Repositories) error {
		movement := func(start, end time.Time) (inventory.Movement, error) {
			if target.kind == report.SnapshotKindRawMaterial {
				return repos.RawMaterialLedger().MovementBetween(ctx, target.id, start, end)
			}
			return repos.FeedLedger().MovementBetween(ctx, target.id, start, end)
		}

		var opening decimal.Decimal
		previous, err := repos.Snapshots().FindOne(ctx, target.kind, target.id, from.AddDate(0, 0, -1))
		switch {
		case err == nil:
			opening = previous.Closing
		case errors.Is(err, report.ErrSnapshotNotFound):
			before, err := movement(time.Time{}, from)
			if err != nil {
				return err
			}
			opening = before.In.Sub(before.Out)
		default:
			return err
		}

		// ADJUSTMENT rows land in in/out by sign so closing stays equal to the ledger.
		day, err := movement(from, to)
		if err != nil {
			return err
		}
		return repos.Snapshots().Upsert(ctx, report.NewDailySnapshot(target.kind, target.id, from, opening, day.In, day.Out))
	})
}
