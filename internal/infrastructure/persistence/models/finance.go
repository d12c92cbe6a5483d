package models

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is one row of the order cash ledger
type PaymentModel struct {
	ID          uuid.UUID             `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	AdminUserID uuid.UUID             `gorm:"type:uuid;not null"`
	AmountPaid  decimal.Decimal       `gorm:"type:numeric(18,2);not null"`
	Method      finance.PaymentMethod `gorm:"column:payment_method;type:varchar(20);not null"`
	PaymentDate time.Time             `gorm:"not null;index"`
	Note        string                `gorm:"type:varchar(500)"`
	CreatedAt   time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain entity
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		ID:          m.ID,
		OrderID:     m.OrderID,
		AdminUserID: m.AdminUserID,
		AmountPaid:  m.AmountPaid,
		Method:      m.Method,
		PaymentDate: m.PaymentDate,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// PaymentModelFromDomain converts a domain entity to the persistence model
func PaymentModelFromDomain(e *finance.Payment) *PaymentModel {
	return &PaymentModel{
		ID:          e.ID,
		OrderID:     e.OrderID,
		AdminUserID: e.AdminUserID,
		AmountPaid:  e.AmountPaid,
		Method:      e.Method,
		PaymentDate: e.PaymentDate.UTC(),
		Note:        e.Note,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

// RefundModel is the persistence model for Refund
type RefundModel struct {
	AggregateModel
	OrderID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal      `gorm:"type:numeric(18,2);not null"`
	Status      finance.RefundStatus `gorm:"type:varchar(20);not null;index"`
	Reason      string               `gorm:"type:varchar(500)"`
	AdminUserID *uuid.UUID           `gorm:"type:uuid"`
	ProcessedAt *time.Time
}

// TableName returns the table name for GORM
func (RefundModel) TableName() string {
	return "refunds"
}

// ToDomain converts the persistence model to a domain entity
func (m *RefundModel) ToDomain() *finance.Refund {
	return &finance.Refund{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		CustomerID:        m.CustomerID,
		Amount:            m.Amount,
		Status:            m.Status,
		Reason:            m.Reason,
		AdminUserID:       m.AdminUserID,
		ProcessedAt:       m.ProcessedAt,
	}
}

// RefundModelFromDomain converts a domain entity to the persistence model
func RefundModelFromDomain(e *finance.Refund) *RefundModel {
	m := &RefundModel{
		OrderID:     e.OrderID,
		CustomerID:  e.CustomerID,
		Amount:      e.Amount,
		Status:      e.Status,
		Reason:      e.Reason,
		AdminUserID: e.AdminUserID,
		ProcessedAt: utcPtr(e.ProcessedAt),
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}
