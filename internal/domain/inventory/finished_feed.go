package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FinishedFeedStock is the running balance of bagged feed for one category.
// QuantityAvailable is denormalised: every change is paired with a ledger entry
// written in the same transaction.
type FinishedFeedStock struct {
	ID                uuid.UUID
	FeedCategoryID    uuid.UUID
	QuantityAvailable int64
	UpdatedAt         time.Time
}

// CanFulfil reports whether bags can be taken without going negative
func (s *FinishedFeedStock) CanFulfil(bags int64) bool {
	return bags <= s.QuantityAvailable
}

// FeedTransactionType is the kind of a finished-feed ledger entry
type FeedTransactionType string

const (
	FeedTransactionProductionIn FeedTransactionType = "PRODUCTION_IN"
	FeedTransactionSaleOut      FeedTransactionType = "SALE_OUT"
	FeedTransactionAdjustment   FeedTransactionType = "ADJUSTMENT"
)

// IsValid returns true if the transaction type is known
func (t FeedTransactionType) IsValid() bool {
	switch t {
	case FeedTransactionProductionIn, FeedTransactionSaleOut, FeedTransactionAdjustment:
		return true
	}
	return false
}

// FeedStockTransaction is an append-only finished-feed ledger entry.
type FeedStockTransaction struct {
	ID                uuid.UUID
	FeedCategoryID    uuid.UUID
	AdminUserID       uuid.UUID
	Type              FeedTransactionType
	Quantity          int64
	Delta             int64
	ProductionBatchID *uuid.UUID
	OrderID           *uuid.UUID
	Reason            string
	CreatedAt         time.Time
}

func newFeedStockTransaction(categoryID, adminID uuid.UUID, txType FeedTransactionType, delta int64) *FeedStockTransaction {
	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}
	return &FeedStockTransaction{
		ID:             uuid.New(),
		FeedCategoryID: categoryID,
		AdminUserID:    adminID,
		Type:           txType,
		Quantity:       quantity,
		Delta:          delta,
		CreatedAt:      time.Now(),
	}
}

// NewProductionIn records bags produced by a batch
func NewProductionIn(categoryID, adminID, batchID uuid.UUID, bags int64) (*FeedStockTransaction, error) {
	if bags <= 0 {
		return nil, shared.ErrInvalidQuantity.WithMessage("Produced bags must be greater than zero")
	}
	tx := newFeedStockTransaction(categoryID, adminID, FeedTransactionProductionIn, bags)
	tx.ProductionBatchID = &batchID
	return tx, nil
}

// NewSaleOut records bags leaving stock for an order
func NewSaleOut(categoryID, adminID, orderID uuid.UUID, bags int64) (*FeedStockTransaction, error) {
	if bags <= 0 {
		return nil, shared.ErrInvalidQuantity.WithMessage("Sold bags must be greater than zero")
	}
	tx := newFeedStockTransaction(categoryID, adminID, FeedTransactionSaleOut, -bags)
	tx.OrderID = &orderID
	return tx, nil
}

// NewFeedAdjustment records a signed manual or compensating correction
func NewFeedAdjustment(categoryID, adminID uuid.UUID, delta int64, reason string) (*FeedStockTransaction, error) {
	if delta == 0 {
		return nil, shared.ErrInvalidQuantity.WithMessage("Adjustment delta must be non-zero")
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 500 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Reason cannot exceed 500 characters")
	}
	tx := newFeedStockTransaction(categoryID, adminID, FeedTransactionAdjustment, delta)
	tx.Reason = reason
	return tx, nil
}

// NewCancellationRestock restores bags of a canceled, already dispatched order
func NewCancellationRestock(categoryID, adminID, orderID uuid.UUID, orderNumber string, bags int64) (*FeedStockTransaction, error) {
	tx, err := NewFeedAdjustment(categoryID, adminID, bags, fmt.Sprintf("Order %s canceled after dispatch", orderNumber))
	if err != nil {
		return nil, err
	}
	tx.OrderID = &orderID
	return tx, nil
}

// LedgerFilter filters raw-material and finished-feed ledger queries.
// EntityID is the raw material or feed category.
type LedgerFilter struct {
	shared.Page
	shared.DateRange
	EntityID *uuid.UUID
	Type     string
}
