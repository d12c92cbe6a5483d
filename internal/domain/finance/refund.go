package finance

import (
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus is the approval state of a refund
type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "PENDING"
	RefundStatusApproved RefundStatus = "APPROVED"
	RefundStatusRejected RefundStatus = "REJECTED"
)

// IsValid returns true if the status is known
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundStatusPending, RefundStatusApproved, RefundStatusRejected:
		return true
	}
	return false
}

var ErrRefundNotFoundOrProcessed = shared.NewDomainError(shared.CodeRefundNotFoundOrProcessed, "Refund not found or already processed")

// Refund is money owed back to a customer after an order cancellation.
// It only touches the cash ledger once approved.
type Refund struct {
	shared.BaseAggregateRoot
	OrderID     uuid.UUID
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Status      RefundStatus
	Reason      string
	AdminUserID *uuid.UUID
	ProcessedAt *time.Time
}

// NewRefund creates a PENDING refund
func NewRefund(orderID, customerID uuid.UUID, amount decimal.Decimal, reason string) (*Refund, error) {
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	return &Refund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		CustomerID:        customerID,
		Amount:            amount,
		Status:            RefundStatusPending,
		Reason:            strings.TrimSpace(reason),
	}, nil
}

// IsPending returns true while the refund awaits a decision
func (r *Refund) IsPending() bool {
	return r.Status == RefundStatusPending
}

// Approve marks the refund approved by adminID
func (r *Refund) Approve(adminID uuid.UUID) error {
	return r.process(RefundStatusApproved, adminID)
}

// Reject marks the refund rejected by adminID
func (r *Refund) Reject(adminID uuid.UUID) error {
	return r.process(RefundStatusRejected, adminID)
}

func (r *Refund) process(status RefundStatus, adminID uuid.UUID) error {
	if !r.IsPending() {
		return ErrRefundNotFoundOrProcessed
	}
	now := time.Now()
	r.Status = status
	r.AdminUserID = &adminID
	r.ProcessedAt = &now
	r.UpdatedAt = now
	return nil
}

// RefundFilter filters refund listings
type RefundFilter struct {
	shared.Page
	shared.DateRange
	Status     RefundStatus
	OrderID    *uuid.UUID
	CustomerID *uuid.UUID
}
