package finance

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest represents a customer payment against an order.
// Amount is checked by the order so a zero value reports INVALID_AMOUNT.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"payment_method" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE"`
	PaymentDate *time.Time      `json:"payment_date"`
	Note        string          `json:"note" binding:"max=500"`
}

// PaymentResponse represents a cash ledger entry
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	AdminUserID uuid.UUID       `json:"admin_user_id"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Method      string          `json:"payment_method"`
	PaymentDate time.Time       `json:"payment_date"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecordPaymentResponse carries the new entry and the order balances after it
type RecordPaymentResponse struct {
	Payment    PaymentResponse `json:"payment"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
}

// PaymentListFilter represents query options for payment listings
type PaymentListFilter struct {
	OrderID  *uuid.UUID `form:"-"` // parsed by the handler from ?order_id=
	Method   string     `form:"payment_method" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE REFUND"`
	FromDate *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a repository filter
func (f PaymentListFilter) ToDomain(loc *time.Location) finance.PaymentFilter {
	return finance.PaymentFilter{
		Page:      shared.Page{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir},
		DateRange: shared.NewDateRange(f.FromDate, f.ToDate, loc),
		OrderID:   f.OrderID,
		Method:    finance.PaymentMethod(f.Method),
	}
}

// RefundResponse represents a refund in API responses
type RefundResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	AdminUserID *uuid.UUID      `json:"admin_user_id,omitempty"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Version     int             `json:"version"`
}

// RefundListFilter represents query options for refund listings
type RefundListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	OrderID    *uuid.UUID `form:"-"` // parsed by the handler from ?order_id=
	CustomerID *uuid.UUID `form:"-"` // parsed by the handler from ?customer_id=
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the query into a repository filter
func (f RefundListFilter) ToDomain(loc *time.Location) finance.RefundFilter {
	return finance.RefundFilter{
		Page:       shared.Page{Page: f.Page, PageSize: f.PageSize, OrderBy: f.OrderBy, OrderDir: f.OrderDir},
		DateRange:  shared.NewDateRange(f.FromDate, f.ToDate, loc),
		Status:     finance.RefundStatus(f.Status),
		OrderID:    f.OrderID,
		CustomerID: f.CustomerID,
	}
}

// ToPaymentResponse converts a payment to a response
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		AdminUserID: p.AdminUserID,
		AmountPaid:  p.AmountPaid,
		Method:      string(p.Method),
		PaymentDate: p.PaymentDate,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt,
	}
}

// ToRefundResponse converts a refund to a response
func ToRefundResponse(r *finance.Refund) RefundResponse {
	return RefundResponse{
		ID:          r.ID,
		OrderID:     r.OrderID,
		CustomerID:  r.CustomerID,
		Amount:      r.Amount,
		Status:      string(r.Status),
		Reason:      r.Reason,
		AdminUserID: r.AdminUserID,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
		Version:     r.Version,
	}
}
