package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement is the inbound and outbound total of a ledger over a window
type Movement struct {
	In  decimal.Decimal
	Out decimal.Decimal
}

// RawMaterialRepository persists raw materials
type RawMaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)
	FindAll(ctx context.Context) ([]RawMaterial, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, material *RawMaterial) error
}

// RawMaterialTransactionRepository persists the raw-material ledger
type RawMaterialTransactionRepository interface {
	Create(ctx context.Context, tx *RawMaterialTransaction) error
	CreateBatch(ctx context.Context, txs []*RawMaterialTransaction) error
	FindAll(ctx context.Context, filter LedgerFilter) ([]RawMaterialTransaction, int64, error)
	// Balance returns the signed sum of all ledger deltas for the material
	Balance(ctx context.Context, materialID uuid.UUID) (decimal.Decimal, error)
	// Balances returns the balance of every material with at least one entry
	Balances(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
	// MovementBetween sums positive and negative deltas within [from, to)
	MovementBetween(ctx context.Context, materialID uuid.UUID, from, to time.Time) (Movement, error)
}

// FeedStockRepository persists finished-feed balances
type FeedStockRepository interface {
	FindByFeedCategoryID(ctx context.Context, categoryID uuid.UUID) (*FinishedFeedStock, error)
	// FindByFeedCategoryIDs loads several rows in one query; missing categories are absent from the result
	FindByFeedCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) ([]FinishedFeedStock, error)
	FindAll(ctx context.Context) ([]FinishedFeedStock, error)
	// Increment creates the row if needed and adds bags
	Increment(ctx context.Context, categoryID uuid.UUID, bags int64) error
	// DecrementIfAvailable subtracts bags only if the balance stays >= 0.
	// It returns false, with no change, when stock is insufficient or the row is missing.
	DecrementIfAvailable(ctx context.Context, categoryID uuid.UUID, bags int64) (bool, error)
}

// FeedStockTransactionRepository persists the finished-feed ledger
type FeedStockTransactionRepository interface {
	Create(ctx context.Context, tx *FeedStockTransaction) error
	FindAll(ctx context.Context, filter LedgerFilter) ([]FeedStockTransaction, int64, error)
	MovementBetween(ctx context.Context, categoryID uuid.UUID, from, to time.Time) (Movement, error)
}

// ProductionBatchRepository persists production batches with their materials
type ProductionBatchRepository interface {
	Create(ctx context.Context, batch *ProductionBatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionBatch, error)
	FindAll(ctx context.Context, filter ProductionBatchFilter) ([]ProductionBatch, int64, error)
}
