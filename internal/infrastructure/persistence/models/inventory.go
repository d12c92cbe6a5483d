package models

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawMaterialModel is the persistence model for RawMaterial
type RawMaterialModel struct {
	BaseModel
	Name string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Unit inventory.Unit `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (RawMaterialModel) TableName() string {
	return "raw_materials"
}

// ToDomain converts the persistence model to a domain entity
func (m *RawMaterialModel) ToDomain() *inventory.RawMaterial {
	return &inventory.RawMaterial{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Unit:       m.Unit,
	}
}

// RawMaterialModelFromDomain converts a domain entity to the persistence model
func RawMaterialModelFromDomain(e *inventory.RawMaterial) *RawMaterialModel {
	m := &RawMaterialModel{Name: e.Name, Unit: e.Unit}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// RawMaterialTransactionModel is one raw-material ledger row
type RawMaterialTransactionModel struct {
	ID            uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	RawMaterialID uuid.UUID                    `gorm:"type:uuid;not null;index:idx_rm_tx_material_created,priority:1"`
	AdminUserID   uuid.UUID                    `gorm:"type:uuid;not null"`
	Type          inventory.RawTransactionType `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal              `gorm:"type:numeric(18,3);not null"`
	Delta         decimal.Decimal              `gorm:"type:numeric(18,3);not null"`
	ReferenceType string                       `gorm:"type:varchar(30)"`
	ReferenceID   string                       `gorm:"type:varchar(64);index"`
	Notes         string                       `gorm:"type:text"`
	CreatedAt     time.Time                    `gorm:"not null;index:idx_rm_tx_material_created,priority:2"`
}

// TableName returns the table name for GORM
func (RawMaterialTransactionModel) TableName() string {
	return "raw_material_stock_transactions"
}

// ToDomain converts the persistence model to a domain entity
func (m *RawMaterialTransactionModel) ToDomain() *inventory.RawMaterialTransaction {
	return &inventory.RawMaterialTransaction{
		ID:            m.ID,
		RawMaterialID: m.RawMaterialID,
		AdminUserID:   m.AdminUserID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Delta:         m.Delta,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// RawMaterialTransactionModelFromDomain converts a domain entity to the persistence model
func RawMaterialTransactionModelFromDomain(e *inventory.RawMaterialTransaction) *RawMaterialTransactionModel {
	return &RawMaterialTransactionModel{
		ID:            e.ID,
		RawMaterialID: e.RawMaterialID,
		AdminUserID:   e.AdminUserID,
		Type:          e.Type,
		Quantity:      e.Quantity,
		Delta:         e.Delta,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt.UTC(),
	}
}

// FinishedFeedStockModel is the running bag balance of one feed category
type FinishedFeedStockModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	FeedCategoryID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	QuantityAvailable int64     `gorm:"not null;default:0"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FinishedFeedStockModel) TableName() string {
	return "finished_feed_stock"
}

// ToDomain converts the persistence model to a domain entity
func (m *FinishedFeedStockModel) ToDomain() *inventory.FinishedFeedStock {
	return &inventory.FinishedFeedStock{
		ID:                m.ID,
		FeedCategoryID:    m.FeedCategoryID,
		QuantityAvailable: m.QuantityAvailable,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FeedStockTransactionModel is one finished-feed ledger row
type FeedStockTransactionModel struct {
	ID                uuid.UUID                     `gorm:"type:uuid;primaryKey"`
	FeedCategoryID    uuid.UUID                     `gorm:"type:uuid;not null;index:idx_feed_tx_category_created,priority:1"`
	AdminUserID       uuid.UUID                     `gorm:"type:uuid;not null"`
	Type              inventory.FeedTransactionType `gorm:"type:varchar(20);not null"`
	Quantity          int64                         `gorm:"not null"`
	Delta             int64                         `gorm:"not null"`
	ProductionBatchID *uuid.UUID                    `gorm:"type:uuid;index"`
	OrderID           *uuid.UUID                    `gorm:"type:uuid;index"`
	Reason            string                        `gorm:"type:varchar(500)"`
	CreatedAt         time.Time                     `gorm:"not null;index:idx_feed_tx_category_created,priority:2"`
}

// TableName returns the table name for GORM
func (FeedStockTransactionModel) TableName() string {
	return "finished_feed_stock_transactions"
}

// ToDomain converts the persistence model to a domain entity
func (m *FeedStockTransactionModel) ToDomain() *inventory.FeedStockTransaction {
	return &inventory.FeedStockTransaction{
		ID:                m.ID,
		FeedCategoryID:    m.FeedCategoryID,
		AdminUserID:       m.AdminUserID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		Delta:             m.Delta,
		ProductionBatchID: m.ProductionBatchID,
		OrderID:           m.OrderID,
		Reason:            m.Reason,
		CreatedAt:         m.CreatedAt,
	}
}

// FeedStockTransactionModelFromDomain converts a domain entity to the persistence model
func FeedStockTransactionModelFromDomain(e *inventory.FeedStockTransaction) *FeedStockTransactionModel {
	return &FeedStockTransactionModel{
		ID:                e.ID,
		FeedCategoryID:    e.FeedCategoryID,
		AdminUserID:       e.AdminUserID,
		Type:              e.Type,
		Quantity:          e.Quantity,
		Delta:             e.Delta,
		ProductionBatchID: e.ProductionBatchID,
		OrderID:           e.OrderID,
		Reason:            e.Reason,
		CreatedAt:         e.CreatedAt.UTC(),
	}
}

// ProductionBatchModel is the persistence model for ProductionBatch
type ProductionBatchModel struct {
	BaseModel
	FeedCategoryID uuid.UUID                      `gorm:"type:uuid;not null;index"`
	AdminUserID    uuid.UUID                      `gorm:"type:uuid;not null"`
	BatchNumber    string                         `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProducedBags   int64                          `gorm:"not null"`
	ProductionDate time.Time                      `gorm:"not null;index"`
	Notes          string                         `gorm:"type:text"`
	Materials      []ProductionBatchMaterialModel `gorm:"foreignKey:ProductionBatchID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionBatchModel) TableName() string {
	return "production_batches"
}

// ProductionBatchMaterialModel is a raw material consumed by a batch
type ProductionBatchMaterialModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductionBatchID uuid.UUID       `gorm:"type:uuid;not null;index"`
	RawMaterialID     uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityUsed      decimal.Decimal `gorm:"type:numeric(18,3);not null"`
}

// TableName returns the table name for GORM
func (ProductionBatchMaterialModel) TableName() string {
	return "production_batch_materials"
}

// ToDomain converts the persistence model to a domain entity
func (m *ProductionBatchModel) ToDomain() *inventory.ProductionBatch {
	batch := &inventory.ProductionBatch{
		BaseEntity:     m.BaseModel.ToDomain(),
		FeedCategoryID: m.FeedCategoryID,
		AdminUserID:    m.AdminUserID,
		BatchNumber:    m.BatchNumber,
		ProducedBags:   m.ProducedBags,
		ProductionDate: m.ProductionDate,
		Notes:          m.Notes,
		Materials:      make([]inventory.ProductionBatchMaterial, 0, len(m.Materials)),
	}
	for _, mat := range m.Materials {
		batch.Materials = append(batch.Materials, inventory.ProductionBatchMaterial{
			ID:                mat.ID,
			ProductionBatchID: mat.ProductionBatchID,
			RawMaterialID:     mat.RawMaterialID,
			QuantityUsed:      mat.QuantityUsed,
		})
	}
	return batch
}

// ProductionBatchModelFromDomain converts a domain entity to the persistence model
func ProductionBatchModelFromDomain(e *inventory.ProductionBatch) *ProductionBatchModel {
	m := &ProductionBatchModel{
		FeedCategoryID: e.FeedCategoryID,
		AdminUserID:    e.AdminUserID,
		BatchNumber:    e.BatchNumber,
		ProducedBags:   e.ProducedBags,
		ProductionDate: e.ProductionDate.UTC(),
		Notes:          e.Notes,
		Materials:      make([]ProductionBatchMaterialModel, 0, len(e.Materials)),
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	for _, mat := range e.Materials {
		m.Materials = append(m.Materials, ProductionBatchMaterialModel{
			ID:                mat.ID,
			ProductionBatchID: mat.ProductionBatchID,
			RawMaterialID:     mat.RawMaterialID,
			QuantityUsed:      mat.QuantityUsed,
		})
	}
	return m
}
