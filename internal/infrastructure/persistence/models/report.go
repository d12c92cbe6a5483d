package models

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySnapshotModel stores one (kind, entity, date) snapshot row
type DailySnapshotModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Kind         report.SnapshotKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_snapshot_key,priority:1"`
	EntityID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_key,priority:2"`
	SnapshotDate time.Time           `gorm:"not null;uniqueIndex:idx_snapshot_key,priority:3"`
	OpeningStock decimal.Decimal     `gorm:"type:numeric(18,3);not null"`
	InQuantity   decimal.Decimal     `gorm:"type:numeric(18,3);not null"`
	OutQuantity  decimal.Decimal     `gorm:"type:numeric(18,3);not null"`
	ClosingStock decimal.Decimal     `gorm:"type:numeric(18,3);not null"`
	GeneratedAt  time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DailySnapshotModel) TableName() string {
	return "daily_snapshots"
}

// ToDomain converts the persistence model to a domain entity
func (m *DailySnapshotModel) ToDomain() *report.DailySnapshot {
	return &report.DailySnapshot{
		ID:        m.ID,
		Kind:      m.Kind,
		EntityID:  m.EntityID,
		Date:      m.SnapshotDate.UTC(),
		Opening:   m.OpeningStock,
		In:        m.InQuantity,
		Out:       m.OutQuantity,
		Closing:   m.ClosingStock,
		UpdatedAt: m.GeneratedAt,
	}
}

// DailySnapshotModelFromDomain converts a domain entity to the persistence model
func DailySnapshotModelFromDomain(e *report.DailySnapshot) *DailySnapshotModel {
	return &DailySnapshotModel{
		ID:           e.ID,
		Kind:         e.Kind,
		EntityID:     e.EntityID,
		SnapshotDate: e.Date.UTC(),
		OpeningStock: e.Opening,
		InQuantity:   e.In,
		OutQuantity:  e.Out,
		ClosingStock: e.Closing,
		GeneratedAt:  e.UpdatedAt.UTC(),
	}
}
