package finance

import (
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money was received or returned
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	// PaymentMethodRefund marks the negative entry written when a refund is approved
	PaymentMethodRefund PaymentMethod = "REFUND"
)

// IsValid returns true for methods a customer can pay with
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodUPI, PaymentMethodCheque:
		return true
	}
	return false
}

// Payment is an entry in the order cash ledger. AmountPaid is positive for a
// customer payment and negative for an approved refund.
type Payment struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	AdminUserID uuid.UUID
	AmountPaid  decimal.Decimal
	Method      PaymentMethod
	PaymentDate time.Time
	Note        string
	CreatedAt   time.Time
}

// NewPayment builds a customer payment
func NewPayment(orderID, adminID uuid.UUID, amount decimal.Decimal, method PaymentMethod, paidAt time.Time, note string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if method == "" {
		method = PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Payment method must be CASH, BANK_TRANSFER, UPI or CHEQUE")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return &Payment{
		ID:          uuid.New(),
		OrderID:     orderID,
		AdminUserID: adminID,
		AmountPaid:  amount.Round(2),
		Method:      method,
		PaymentDate: paidAt,
		Note:        strings.TrimSpace(note),
		CreatedAt:   time.Now(),
	}, nil
}

// NewRefundReversal builds the negative cash entry for an approved refund
func NewRefundReversal(refund *Refund, adminID uuid.UUID) *Payment {
	now := time.Now()
	note := "Refund approved"
	if refund.Reason != "" {
		note = "Refund approved: " + refund.Reason
	}
	return &Payment{
		ID:          uuid.New(),
		OrderID:     refund.OrderID,
		AdminUserID: adminID,
		AmountPaid:  refund.Amount.Neg(),
		Method:      PaymentMethodRefund,
		PaymentDate: now,
		Note:        note,
		CreatedAt:   now,
	}
}

// PaymentFilter filters payment listings
type PaymentFilter struct {
	shared.Page
	shared.DateRange
	OrderID *uuid.UUID
	Method  PaymentMethod
}
