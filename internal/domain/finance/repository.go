package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository persists the order cash ledger
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, int64, error)
	// SumByOrder returns the signed sum of all entries for the order
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	// SumBetween returns the signed sum of entries dated within [from, to)
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// RefundRepository persists refunds
type RefundRepository interface {
	Create(ctx context.Context, refund *Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*Refund, error)
	FindAll(ctx context.Context, filter RefundFilter) ([]Refund, int64, error)
	// MarkProcessed persists an approve/reject decision only if the stored row
	// is still PENDING. It returns false when another request got there first.
	MarkProcessed(ctx context.Context, refund *Refund) (bool, error)
	CountPending(ctx context.Context) (int64, error)
}
