package models

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all entities.
// Timestamps are stored in UTC so range filters compare consistently on every driver.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt.UTC()
	m.UpdatedAt = e.UpdatedAt.UTC()
}

// AggregateModel adds the optimistic-locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// All lists every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&AdminUserModel{},
		&AnimalTypeModel{},
		&FeedCategoryModel{},
		&CustomerModel{},
		&RawMaterialModel{},
		&RawMaterialTransactionModel{},
		&FinishedFeedStockModel{},
		&FeedStockTransactionModel{},
		&ProductionBatchModel{},
		&ProductionBatchMaterialModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&RefundModel{},
		&DailySnapshotModel{},
	}
}
