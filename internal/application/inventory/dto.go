package inventory

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRawMaterialRequest represents a request to register a raw material
type CreateRawMaterialRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Unit string `json:"unit" binding:"required,oneof=KG TON"`
}

// RecordRawTransactionRequest records stock arriving, leaving or being corrected.
// For ADJUSTMENT, Quantity is the signed delta.
type RecordRawTransactionRequest struct {
	Type     string          `json:"type" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes" binding:"max=1000"`
}

// RawMaterialResponse represents a raw material with its derived balance
type RawMaterialResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RawMaterialTransactionResponse represents one raw-material ledger entry
type RawMaterialTransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	AdminUserID   uuid.UUID       `json:"admin_user_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Delta         decimal.Decimal `json:"delta"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerListFilter represents query options for either ledger
type LedgerListFilter struct {
	EntityID *uuid.UUID `form:"-"` // raw_material_id or feed_category_id, parsed by the handler
	Type     string     `form:"type"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a repository filter; dates are inclusive days in loc
func (f LedgerListFilter) ToDomain(loc *time.Location) inventory.LedgerFilter {
	return inventory.LedgerFilter{
		Page:      shared.Page{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir},
		DateRange: shared.NewDateRange(f.FromDate, f.ToDate, loc),
		EntityID:  f.EntityID,
		Type:      f.Type,
	}
}

// MaterialUsageRequest is a raw material consumed by a batch
type MaterialUsageRequest struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
}

// RecordProductionRequest represents a completed production run
type RecordProductionRequest struct {
	FeedCategoryID uuid.UUID              `json:"feed_category_id" binding:"required"`
	ProducedBags   int64                  `json:"produced_bags" binding:"required,gt=0"`
	ProductionDate *time.Time             `json:"production_date"`
	Materials      []MaterialUsageRequest `json:"materials" binding:"dive"`
	Notes          string                 `json:"notes" binding:"max=1000"`
}

// ProductionBatchMaterialResponse represents a material line of a batch
type ProductionBatchMaterialResponse struct {
	ID            uuid.UUID       `json:"id"`
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	QuantityUsed  decimal.Decimal `json:"quantity_used"`
}

// ProductionBatchResponse represents a production batch
type ProductionBatchResponse struct {
	ID             uuid.UUID                         `json:"id"`
	BatchNumber    string                            `json:"batch_number"`
	FeedCategoryID uuid.UUID                         `json:"feed_category_id"`
	AdminUserID    uuid.UUID                         `json:"admin_user_id"`
	ProducedBags   int64                             `json:"produced_bags"`
	ProductionDate time.Time                         `json:"production_date"`
	Notes          string                            `json:"notes,omitempty"`
	Materials      []ProductionBatchMaterialResponse `json:"materials"`
	CreatedAt      time.Time                         `json:"created_at"`
}

// ProductionBatchListFilter represents query options for batch listings
type ProductionBatchListFilter struct {
	FeedCategoryID *uuid.UUID `form:"-"` // parsed by the handler from ?feed_category_id=
	FromDate       *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate         *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a repository filter
func (f ProductionBatchListFilter) ToDomain(loc *time.Location) inventory.ProductionBatchFilter {
	return inventory.ProductionBatchFilter{
		Page:           shared.Page{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir},
		DateRange:      shared.NewDateRange(f.FromDate, f.ToDate, loc),
		FeedCategoryID: f.FeedCategoryID,
	}
}

// FeedAdjustmentRequest corrects a finished-feed balance by a signed delta
type FeedAdjustmentRequest struct {
	FeedCategoryID uuid.UUID `json:"feed_category_id" binding:"required"`
	Delta          int64     `json:"delta"`
	Reason         string    `json:"reason" binding:"required,max=500"`
}

// FeedStockResponse represents the bag balance of one feed category
type FeedStockResponse struct {
	FeedCategoryID    uuid.UUID  `json:"feed_category_id"`
	FeedCategoryName  string     `json:"feed_category_name"`
	QuantityAvailable int64      `json:"quantity_available"`
	IsLow             bool       `json:"is_low"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// FeedStockTransactionResponse represents one finished-feed ledger entry
type FeedStockTransactionResponse struct {
	ID                uuid.UUID  `json:"id"`
	FeedCategoryID    uuid.UUID  `json:"feed_category_id"`
	AdminUserID       uuid.UUID  `json:"admin_user_id"`
	Type              string     `json:"type"`
	Quantity          int64      `json:"quantity"`
	Delta             int64      `json:"delta"`
	ProductionBatchID *uuid.UUID `json:"production_batch_id,omitempty"`
	OrderID           *uuid.UUID `json:"order_id,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToRawMaterialResponse converts a material and its balance to a response
func ToRawMaterialResponse(m *inventory.RawMaterial, balance decimal.Decimal) RawMaterialResponse {
	return RawMaterialResponse{
		ID:        m.ID,
		Name:      m.Name,
		Unit:      string(m.Unit),
		Balance:   balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToRawMaterialTransactionResponse converts a ledger entry to a response
func ToRawMaterialTransactionResponse(tx *inventory.RawMaterialTransaction) RawMaterialTransactionResponse {
	return RawMaterialTransactionResponse{
		ID:            tx.ID,
		RawMaterialID: tx.RawMaterialID,
		AdminUserID:   tx.AdminUserID,
		Type:          string(tx.Type),
		Quantity:      tx.Quantity,
		Delta:         tx.Delta,
		ReferenceType: tx.ReferenceType,
		ReferenceID:   tx.ReferenceID,
		Notes:         tx.Notes,
		CreatedAt:     tx.CreatedAt,
	}
}

// ToProductionBatchResponse converts a batch to a response
func ToProductionBatchResponse(b *inventory.ProductionBatch) ProductionBatchResponse {
	materials := make([]ProductionBatchMaterialResponse, len(b.Materials))
	for i, m := range b.Materials {
		materials[i] = ProductionBatchMaterialResponse{
			ID:            m.ID,
			RawMaterialID: m.RawMaterialID,
			QuantityUsed:  m.QuantityUsed,
		}
	}
	return ProductionBatchResponse{
		ID:             b.ID,
		BatchNumber:    b.BatchNumber,
		FeedCategoryID: b.FeedCategoryID,
		AdminUserID:    b.AdminUserID,
		ProducedBags:   b.ProducedBags,
		ProductionDate: b.ProductionDate,
		Notes:          b.Notes,
		Materials:      materials,
		CreatedAt:      b.CreatedAt,
	}
}

// ToFeedStockTransactionResponse converts a ledger entry to a response
func ToFeedStockTransactionResponse(tx *inventory.FeedStockTransaction) FeedStockTransactionResponse {
	return FeedStockTransactionResponse{
		ID:                tx.ID,
		FeedCategoryID:    tx.FeedCategoryID,
		AdminUserID:       tx.AdminUserID,
		Type:              string(tx.Type),
		Quantity:          tx.Quantity,
		Delta:             tx.Delta,
		ProductionBatchID: tx.ProductionBatchID,
		OrderID:           tx.OrderID,
		Reason:            tx.Reason,
		CreatedAt:         tx.CreatedAt,
	}
}
