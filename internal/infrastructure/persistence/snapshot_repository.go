package persistence

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotRepository implements report.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// FindOne loads the snapshot of one entity for a calendar day
func (r *GormSnapshotRepository) FindOne(ctx context.Context, kind report.SnapshotKind, entityID uuid.UUID, day time.Time) (*report.DailySnapshot, error) {
	var model models.DailySnapshotModel
	err := r.db.WithContext(ctx).
		First(&model, "kind = ? AND entity_id = ? AND snapshot_date = ?", kind, entityID, calendarDay(day)).Error
	if err != nil {
		return nil, notFound(err, report.ErrSnapshotNotFound)
	}
	return model.ToDomain(), nil
}

// FindByDate lists every snapshot of a kind for a calendar day
func (r *GormSnapshotRepository) FindByDate(ctx context.Context, kind report.SnapshotKind, day time.Time) ([]report.DailySnapshot, error) {
	var rows []models.DailySnapshotModel
	err := r.db.WithContext(ctx).
		Where("kind = ? AND snapshot_date = ?", kind, calendarDay(day)).
		Order("entity_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.DailySnapshot, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Upsert writes the snapshot, replacing figures of an existing (kind, entity, date) row
func (r *GormSnapshotRepository) Upsert(ctx context.Context, snapshot *report.DailySnapshot) error {
	model := models.DailySnapshotModelFromDomain(snapshot)
	model.SnapshotDate = calendarDay(snapshot.Date)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "entity_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"opening_stock", "in_quantity", "out_quantity", "closing_stock", "generated_at",
		}),
	}).Create(model).Error
}

// calendarDay normalises a date to UTC midnight of the same Y-M-D
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ report.SnapshotRepository = (*GormSnapshotRepository)(nil)
