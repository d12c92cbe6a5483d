package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductionBatchNotFound = shared.NewDomainError(shared.CodeProductionBatchNotFound, "Production batch not found")
	ErrDuplicateMaterial       = shared.NewDomainError(shared.CodeDuplicateMaterial, "A raw material may appear only once per batch")
)

// MaterialUsage is a raw material consumed by a production batch
type MaterialUsage struct {
	RawMaterialID uuid.UUID
	Quantity      decimal.Decimal
}

// ProductionBatchMaterial is a persisted material line of a batch
type ProductionBatchMaterial struct {
	ID                uuid.UUID
	ProductionBatchID uuid.UUID
	RawMaterialID     uuid.UUID
	QuantityUsed      decimal.Decimal
}

// ProductionBatch records bags of one feed category manufactured from raw materials
type ProductionBatch struct {
	shared.BaseEntity
	FeedCategoryID uuid.UUID
	AdminUserID    uuid.UUID
	BatchNumber    string
	ProducedBags   int64
	ProductionDate time.Time
	Notes          string
	Materials      []ProductionBatchMaterial
}

// NewProductionBatch validates and builds a batch. Raw-material sufficiency is
// not checked: production is recorded after the fact.
func NewProductionBatch(
	categoryID, adminID uuid.UUID,
	producedBags int64,
	productionDate time.Time,
	materials []MaterialUsage,
	notes string,
) (*ProductionBatch, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeFeedCategoryNotFound, "Feed category not found")
	}
	if producedBags <= 0 {
		return nil, shared.ErrInvalidQuantity.WithMessage("Produced bags must be greater than zero")
	}
	if productionDate.IsZero() {
		productionDate = time.Now()
	}

	batch := &ProductionBatch{
		BaseEntity:     shared.NewBaseEntity(),
		FeedCategoryID: categoryID,
		AdminUserID:    adminID,
		ProducedBags:   producedBags,
		ProductionDate: productionDate,
		Notes:          strings.TrimSpace(notes),
		Materials:      make([]ProductionBatchMaterial, 0, len(materials)),
	}
	batch.BatchNumber = GenerateBatchNumber(batch.CreatedAt, batch.ID)

	seen := make(map[uuid.UUID]struct{}, len(materials))
	for _, m := range materials {
		if _, dup := seen[m.RawMaterialID]; dup {
			return nil, ErrDuplicateMaterial
		}
		seen[m.RawMaterialID] = struct{}{}
		if !m.Quantity.IsPositive() {
			return nil, shared.ErrInvalidQuantity.WithMessage("Material quantity must be greater than zero")
		}
		batch.Materials = append(batch.Materials, ProductionBatchMaterial{
			ID:                uuid.New(),
			ProductionBatchID: batch.ID,
			RawMaterialID:     m.RawMaterialID,
			QuantityUsed:      m.Quantity,
		})
	}

	return batch, nil
}

// GenerateBatchNumber derives a batch number from the creation time plus a
// suffix of the batch id, so batches created in the same second still differ.
func GenerateBatchNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("PB-%s-%s", at.Format("20060102-150405"), strings.ToUpper(id.String()[:6]))
}

// ProductionBatchFilter filters production batch listings
type ProductionBatchFilter struct {
	shared.Page
	shared.DateRange
	FeedCategoryID *uuid.UUID
}
